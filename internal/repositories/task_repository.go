package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
	"repair-pool.com/repair-pool/internal/services"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepository{db: tx})
	})
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *model.Task) error {
	if task.Version == 0 {
		task.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return storageError(err)
	}
	return nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.withChildren(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTaskNotFound, id)
		}
		return nil, storageError(err)
	}
	return &task, nil
}

func (r *TaskRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.withChildren(ctx).Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, storageError(err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListTasksByStatus(ctx context.Context, status constants.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	query := r.withChildren(ctx).
		Where("status = ?", status).
		Order("created_at asc")

	if err := query.Find(&tasks).Error; err != nil {
		return nil, storageError(err)
	}
	return tasks, nil
}

// SaveTask writes the task row guarded by its version, then inserts any
// child rows not stored yet. Children are append-only except ratings, which
// move to the deleted archive.
func (r *TaskRepository) SaveTask(ctx context.Context, task *model.Task, expectedVersion uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("id = ? AND version = ?", task.ID, expectedVersion).
			Updates(map[string]interface{}{
				"title":              task.Title,
				"category":           task.Category,
				"scope":              task.Scope,
				"location":           task.Location,
				"details":            task.Details,
				"photo_ref":          task.PhotoRef,
				"starting_price":     task.StartingPrice,
				"warranty_days":      task.WarrantyDays,
				"status":             task.Status,
				"bidding_started_at": task.BiddingStartedAt,
				"awarded_to":         task.AwardedTo,
				"awarded_amount":     task.AwardedAmount,
				"completion_at":      task.CompletionAt,
				"validated_by":       task.ValidatedBy,
				"version":            gorm.Expr("version + 1"),
			})

		if res.Error != nil {
			return storageError(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: task %s at version %d", apperrors.ErrConcurrentModification, task.ID, expectedVersion)
		}

		return saveChildren(tx, task)
	})
	if err != nil {
		return err
	}

	task.Version = expectedVersion + 1
	return nil
}

func saveChildren(tx *gorm.DB, task *model.Task) error {
	if len(task.Bids) > 0 {
		if err := insertNew(tx, &task.Bids); err != nil {
			return err
		}
	}
	if len(task.Votes) > 0 {
		if err := insertNew(tx, &task.Votes); err != nil {
			return err
		}
	}
	if len(task.Ratings) > 0 {
		if err := insertNew(tx, &task.Ratings); err != nil {
			return err
		}
	}
	if len(task.DeletedRatings) > 0 {
		if err := insertNew(tx, &task.DeletedRatings); err != nil {
			return err
		}

		ids := make([]string, 0, len(task.DeletedRatings))
		for _, d := range task.DeletedRatings {
			ids = append(ids, d.ID)
		}
		if err := tx.Where("task_id = ? AND id IN ?", task.ID, ids).Delete(&model.Rating{}).Error; err != nil {
			return storageError(err)
		}
	}

	return nil
}

// insertNew skips rows whose primary key is already stored.
func insertNew(tx *gorm.DB, rows interface{}) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
		return storageError(err)
	}
	return nil
}

// DeleteTask removes the task and its children. Ledger entries stay.
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&model.Bid{}, &model.Vote{}, &model.Rating{}, &model.DeletedRating{}} {
			if err := tx.Where("task_id = ?", id).Delete(child).Error; err != nil {
				return storageError(err)
			}
		}

		res := tx.Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return storageError(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrTaskNotFound, id)
		}
		return nil
	})
}

func (r *TaskRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Bids", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq asc")
		}).
		Preload("Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("at asc")
		}).
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Order("at asc")
		}).
		Preload("DeletedRatings", func(db *gorm.DB) *gorm.DB {
			return db.Order("deleted_at asc")
		})
}

func storageError(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
}
