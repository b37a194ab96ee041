package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository.
type Repository struct {
	db *gorm.DB

	Profile        ProfileRepository
	Department     DepartmentRepository
	Attendance     AttendanceRepository
	Leave          LeaveRepository
	LeaveLimit     LeaveLimitRepository
	SystemSetting  SystemSettingRepository
	OfficeLocation OfficeLocationRepository
}

// NewRepository builds the aggregate over one connection pool.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		Profile:        NewProfileRepo(db),
		Department:     NewDepartmentRepo(db),
		Attendance:     NewAttendanceRepo(db),
		Leave:          NewLeaveRepo(db),
		LeaveLimit:     NewLeaveLimitRepo(db),
		SystemSetting:  NewSystemSettingRepo(db),
		OfficeLocation: NewOfficeLocationRepo(db),
	}
}

// BeginTx starts a transaction. It returns a nil tx when the aggregate has no
// database, which is the case for unit tests built on mocks.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate whose repositories run inside tx.
// A nil tx returns r unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
