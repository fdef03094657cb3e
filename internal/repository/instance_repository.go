package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

type InstanceRepository struct {
	db *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// ListForContractBetween returns a contract's instances with a scheduled
// start in [from, toExclusive), oldest first.
func (r *InstanceRepository) ListForContractBetween(
	ctx context.Context,
	contractID uuid.UUID,
	from, toExclusive time.Time,
) ([]model.JobInstance, error) {
	var instances []model.JobInstance
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND scheduled_start >= ? AND scheduled_start < ?", contractID, from, toExclusive).
		Order("scheduled_start ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// ListWithTasks loads instances plus their task rows for roster export.
func (r *InstanceRepository) ListWithTasks(
	ctx context.Context,
	contractID uuid.UUID,
	from, toExclusive time.Time,
) ([]model.JobInstance, error) {
	var instances []model.JobInstance
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("contract_id = ? AND scheduled_start >= ? AND scheduled_start < ?", contractID, from, toExclusive).
		Order("scheduled_start ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// CreateBatch persists generated instances and their task rows in one
// transaction. IDs must be assigned by the caller.
func (r *InstanceRepository) CreateBatch(ctx context.Context, instances []model.JobInstance) error {
	if len(instances) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range instances {
			if err := tx.Create(&instances[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
