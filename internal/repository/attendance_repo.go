package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// AttendanceFilter list filters; zero values are ignored.
type AttendanceFilter struct {
	ProfileID    string
	DepartmentID string
	Status       string
	From         *time.Time
	To           *time.Time
}

// AttendanceRepository attendance data access.
// Dates are calendar dates as produced by workday.DateOf.
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	GetByProfileDate(ctx context.Context, profileID string, date time.Time) (*model.Attendance, error)
	Update(ctx context.Context, a *model.Attendance) error
	Delete(ctx context.Context, id string) error
	ListByProfile(ctx context.Context, profileID string, from, to time.Time) ([]model.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter, offset, limit int) ([]model.Attendance, int64, error)
	// ListRange returns rows of the given profiles within [from, to].
	ListRange(ctx context.Context, profileIDs []string, from, to time.Time) ([]model.Attendance, error)
	// CountByStatus counts rows per status on one date, optionally for one department.
	CountByStatus(ctx context.Context, date time.Time, departmentID string) (map[string]int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetByProfileDate(ctx context.Context, profileID string, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND work_date = ?", profileID, workday.FormatDate(date)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("attendance_id = ?", id).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) ListByProfile(ctx context.Context, profileID string, from, to time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND work_date BETWEEN ? AND ?",
			profileID, workday.FormatDate(from), workday.FormatDate(to)).
		Order("work_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) List(ctx context.Context, filter AttendanceFilter, offset, limit int) ([]model.Attendance, int64, error) {
	var rows []model.Attendance
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Attendance{})

	if filter.ProfileID != "" {
		db = db.Where("attendance.profile_id = ?", filter.ProfileID)
	}
	if filter.DepartmentID != "" {
		db = db.Where("attendance.profile_id IN (?)",
			r.db.Model(&model.Profile{}).Select("profile_id").Where("department_id = ?", filter.DepartmentID))
	}
	if filter.Status != "" {
		db = db.Where("attendance.status = ?", filter.Status)
	}
	if filter.From != nil {
		db = db.Where("attendance.work_date >= ?", workday.FormatDate(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("attendance.work_date <= ?", workday.FormatDate(*filter.To))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Profile").
		Offset(offset).Limit(limit).
		Order("attendance.work_date DESC, attendance.check_in_at ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *attendanceRepo) ListRange(ctx context.Context, profileIDs []string, from, to time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	if len(profileIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("profile_id IN ? AND work_date BETWEEN ? AND ?",
			profileIDs, workday.FormatDate(from), workday.FormatDate(to)).
		Order("work_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *attendanceRepo) CountByStatus(ctx context.Context, date time.Time, departmentID string) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount

	db := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Select("status, COUNT(*) AS count").
		Where("work_date = ?", workday.FormatDate(date))
	if departmentID != "" {
		db = db.Where("profile_id IN (?)",
			r.db.Model(&model.Profile{}).Select("profile_id").Where("department_id = ?", departmentID))
	}
	if err := db.Group("status").Scan(&counts).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(counts))
	for _, c := range counts {
		result[c.Status] = c.Count
	}
	return result, nil
}
