package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
)

// LeaveLimitRepository department leave quota data access
type LeaveLimitRepository interface {
	ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentLeaveLimit, error)
	Get(ctx context.Context, departmentID, leaveType string) (*model.DepartmentLeaveLimit, error)
	GetByID(ctx context.Context, id string) (*model.DepartmentLeaveLimit, error)
	// Upsert inserts or replaces the quota for (department, leave type).
	Upsert(ctx context.Context, limit *model.DepartmentLeaveLimit) error
	Delete(ctx context.Context, id string) error
}

type leaveLimitRepo struct {
	db *gorm.DB
}

// NewLeaveLimitRepo creates a LeaveLimitRepository.
func NewLeaveLimitRepo(db *gorm.DB) LeaveLimitRepository {
	return &leaveLimitRepo{db: db}
}

func (r *leaveLimitRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentLeaveLimit, error) {
	var limits []model.DepartmentLeaveLimit
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("leave_type ASC").
		Find(&limits).Error
	return limits, err
}

func (r *leaveLimitRepo) Get(ctx context.Context, departmentID, leaveType string) (*model.DepartmentLeaveLimit, error) {
	var l model.DepartmentLeaveLimit
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND leave_type = ?", departmentID, leaveType).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveLimitRepo) GetByID(ctx context.Context, id string) (*model.DepartmentLeaveLimit, error) {
	var l model.DepartmentLeaveLimit
	err := r.db.WithContext(ctx).Where("limit_id = ?", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveLimitRepo) Upsert(ctx context.Context, limit *model.DepartmentLeaveLimit) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "department_id"}, {Name: "leave_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"annual_limit": limit.AnnualLimit,
				"updated_by":   limit.UpdatedBy,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).
		Create(limit).Error
}

func (r *leaveLimitRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("limit_id = ?", id).
		Delete(&model.DepartmentLeaveLimit{}).Error
}
