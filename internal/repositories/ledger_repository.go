package repository

import (
	"context"
	"fmt"

	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

// AppendLedgerEntry inserts one entry. The unique task_id index turns a
// second posting for the same task into a storage error.
func (r *TaskRepository) AppendLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return storageError(err)
	}
	return nil
}

func (r *TaskRepository) ListLedger(ctx context.Context) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	if err := r.db.WithContext(ctx).Order("at asc").Find(&entries).Error; err != nil {
		return nil, storageError(err)
	}
	return entries, nil
}

func (r *TaskRepository) DeleteLedgerEntry(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LedgerEntry{})
	if res.Error != nil {
		return storageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrLedgerEntryNotFound, id)
	}
	return nil
}
