package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

// ResidentRepository is the directory of residents and their roles. It is
// maintained by the registration side of the system.
type ResidentRepository struct {
	db *gorm.DB
}

func NewResidentRepository(db *gorm.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

func (r *ResidentRepository) Lookup(ctx context.Context, id string) (*model.Resident, error) {
	var resident model.Resident
	err := r.db.WithContext(ctx).First(&resident, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrResidentNotFound, id)
		}
		return nil, storageError(err)
	}
	return &resident, nil
}

func (r *ResidentRepository) ListByRoles(ctx context.Context, roles ...constants.Role) ([]model.Resident, error) {
	var residents []model.Resident
	err := r.db.WithContext(ctx).
		Where("role IN ? AND active = ?", roles, true).
		Order("id asc").
		Find(&residents).Error
	if err != nil {
		return nil, storageError(err)
	}
	return residents, nil
}

func (r *ResidentRepository) Upsert(ctx context.Context, resident *model.Resident) error {
	if resident.CreatedAt.IsZero() {
		resident.CreatedAt = time.Now().UTC()
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "active"}),
	}).Create(resident).Error
	if err != nil {
		return storageError(err)
	}
	return nil
}
