package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
)

// ProfileFilter list filters; zero values are ignored.
type ProfileFilter struct {
	DepartmentID string
	Role         string
	Keyword      string
	IsActive     *bool
}

// ProfileRepository profile data access
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetByEmployeeCode(ctx context.Context, code string) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	UpdatePassword(ctx context.Context, id, hash string, mustChange bool) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]model.Profile, int64, error)
	// ListActive returns active profiles, optionally of one department, ordered by name.
	ListActive(ctx context.Context, departmentID string) ([]model.Profile, error)
	CountActive(ctx context.Context, departmentID string) (int64, error)
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo creates a ProfileRepository.
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("profile_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("lower(email) = ?", strings.ToLower(email)).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetByEmployeeCode(ctx context.Context, code string) (*model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).
		Where("employee_code = ?", code).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, p *model.Profile) error {
	oldVersion := p.Version
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("profile_id = ? AND version = ?", p.ProfileID, oldVersion).
		Updates(map[string]interface{}{
			"full_name":       p.FullName,
			"email":           p.Email,
			"employee_code":   p.EmployeeCode,
			"role":            p.Role,
			"department_id":   p.DepartmentID,
			"phone":           p.Phone,
			"designation":     p.Designation,
			"avatar_url":      p.AvatarURL,
			"work_start_time": p.WorkStartTime,
			"work_end_time":   p.WorkEndTime,
			"work_days":       p.WorkDays,
			"joined_on":       p.JoinedOn,
			"is_active":       p.IsActive,
			"updated_by":      p.UpdatedBy,
			"updated_at":      gorm.Expr("NOW()"),
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version = oldVersion + 1
	return nil
}

func (r *profileRepo) UpdatePassword(ctx context.Context, id, hash string, mustChange bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("profile_id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":        hash,
			"must_change_password": mustChange,
			"updated_at":           gorm.Expr("NOW()"),
		}).Error
}

func (r *profileRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("profile_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *profileRepo) List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Profile{})

	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Where("lower(full_name) LIKE ? OR lower(email) LIKE ? OR lower(employee_code) LIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Department").
		Offset(offset).Limit(limit).
		Order("full_name ASC").
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

func (r *profileRepo) ListActive(ctx context.Context, departmentID string) ([]model.Profile, error) {
	var profiles []model.Profile
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	err := db.Preload("Department").Order("full_name ASC").Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) CountActive(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Profile{}).Where("is_active = ?", true)
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	err := db.Count(&count).Error
	return count, err
}
