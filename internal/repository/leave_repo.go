package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// LeaveFilter list filters; zero values are ignored.
// From/To select leaves that overlap the range.
type LeaveFilter struct {
	ProfileID    string
	DepartmentID string
	Status       string
	LeaveType    string
	From         *time.Time
	To           *time.Time
}

// LeaveRangeQuery selects leaves overlapping [From, To].
type LeaveRangeQuery struct {
	ProfileIDs   []string
	DepartmentID string
	Statuses     []string
	From         time.Time
	To           time.Time
}

// LeaveRepository leave data access
type LeaveRepository interface {
	Create(ctx context.Context, l *model.Leave) error
	GetByID(ctx context.Context, id string) (*model.Leave, error)
	// Update writes status and decision fields guarded by the version column.
	Update(ctx context.Context, l *model.Leave) error
	List(ctx context.Context, filter LeaveFilter, offset, limit int) ([]model.Leave, int64, error)
	// FindOverlapping returns the profile's pending or approved leaves intersecting [start, end].
	FindOverlapping(ctx context.Context, profileID string, start, end time.Time) ([]model.Leave, error)
	ListRange(ctx context.Context, q LeaveRangeQuery) ([]model.Leave, error)
	CountPending(ctx context.Context, filter LeaveFilter) (int64, error)
}

type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo creates a LeaveRepository.
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, l *model.Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*model.Leave, error) {
	var l model.Leave
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Approver").
		Where("leave_id = ?", id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveRepo) Update(ctx context.Context, l *model.Leave) error {
	oldVersion := l.Version
	result := r.db.WithContext(ctx).
		Model(&model.Leave{}).
		Where("leave_id = ? AND version = ?", l.LeaveID, oldVersion).
		Updates(map[string]interface{}{
			"status":        l.Status,
			"approver_id":   l.ApproverID,
			"decided_at":    l.DecidedAt,
			"decision_note": l.DecisionNote,
			"updated_by":    l.UpdatedBy,
			"updated_at":    gorm.Expr("NOW()"),
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	l.Version = oldVersion + 1
	return nil
}

func (r *leaveRepo) applyFilter(db *gorm.DB, filter LeaveFilter) *gorm.DB {
	if filter.ProfileID != "" {
		db = db.Where("profile_id = ?", filter.ProfileID)
	}
	if filter.DepartmentID != "" {
		db = db.Where("profile_id IN (?)",
			r.db.Model(&model.Profile{}).Select("profile_id").Where("department_id = ?", filter.DepartmentID))
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		db = db.Where("leave_type = ?", filter.LeaveType)
	}
	if filter.From != nil {
		db = db.Where("end_date >= ?", workday.FormatDate(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("start_date <= ?", workday.FormatDate(*filter.To))
	}
	return db
}

func (r *leaveRepo) List(ctx context.Context, filter LeaveFilter, offset, limit int) ([]model.Leave, int64, error) {
	var leaves []model.Leave
	var total int64

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Leave{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Profile").Preload("Approver").
		Offset(offset).Limit(limit).
		Order("start_date DESC, created_at DESC").
		Find(&leaves).Error; err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

func (r *leaveRepo) FindOverlapping(ctx context.Context, profileID string, start, end time.Time) ([]model.Leave, error) {
	var leaves []model.Leave
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			profileID,
			[]string{model.LeavePending, model.LeaveApproved},
			workday.FormatDate(end), workday.FormatDate(start)).
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) ListRange(ctx context.Context, q LeaveRangeQuery) ([]model.Leave, error) {
	var leaves []model.Leave
	db := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", workday.FormatDate(q.To), workday.FormatDate(q.From))
	if len(q.ProfileIDs) > 0 {
		db = db.Where("profile_id IN ?", q.ProfileIDs)
	}
	if q.DepartmentID != "" {
		db = db.Where("profile_id IN (?)",
			r.db.Model(&model.Profile{}).Select("profile_id").Where("department_id = ?", q.DepartmentID))
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	err := db.Preload("Profile").Order("start_date ASC").Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) CountPending(ctx context.Context, filter LeaveFilter) (int64, error) {
	var count int64
	filter.Status = model.LeavePending
	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.Leave{}), filter).Count(&count).Error
	return count, err
}
