package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// GetContract loads a contract with its schedule days (position order) and
// its eligible staff pool (rotation order, active employees only).
func (r *ContractRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.RecurringContract, error) {
	var contract model.RecurringContract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", id).
		Order("position ASC").
		Find(&contract.ScheduleDays).Error; err != nil {
		return nil, err
	}

	pool, err := r.loadStaffPool(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.StaffPool = pool

	return &contract, nil
}

func (r *ContractRepository) loadStaffPool(ctx context.Context, contractID uuid.UUID) ([]uuid.UUID, error) {
	var links []model.ContractStaff
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("position ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.EmployeeID)
	}

	var active []model.Employee
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&active).Error; err != nil {
		return nil, err
	}
	activeSet := make(map[uuid.UUID]struct{}, len(active))
	for _, emp := range active {
		activeSet[emp.ID] = struct{}{}
	}

	pool := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := activeSet[id]; ok {
			pool = append(pool, id)
		}
	}
	return pool, nil
}

// ListActiveContractIDs returns contracts whose horizon can still produce
// instances as of the given date.
func (r *ContractRepository) ListActiveContractIDs(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.RecurringContract{}).
		Where("end_date IS NULL OR end_date >= ?", asOf).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ContractRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListEmployees resolves employee records by id, for roster display.
func (r *ContractRepository) ListEmployees(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Employee, error) {
	result := make(map[uuid.UUID]model.Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var employees []model.Employee
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&employees).Error; err != nil {
		return nil, err
	}
	for _, emp := range employees {
		result[emp.ID] = emp
	}
	return result, nil
}

// TouchUpdatedAt records that a generation run visited the contract.
func (r *ContractRepository) TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.RecurringContract{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}
