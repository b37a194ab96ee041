package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
)

// OfficeLocationRepository office location data access
type OfficeLocationRepository interface {
	Create(ctx context.Context, loc *model.OfficeLocation) error
	GetByID(ctx context.Context, id string) (*model.OfficeLocation, error)
	List(ctx context.Context, includeInactive bool) ([]model.OfficeLocation, error)
	Update(ctx context.Context, loc *model.OfficeLocation) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type officeLocationRepo struct {
	db *gorm.DB
}

// NewOfficeLocationRepo creates an OfficeLocationRepository.
func NewOfficeLocationRepo(db *gorm.DB) OfficeLocationRepository {
	return &officeLocationRepo{db: db}
}

func (r *officeLocationRepo) Create(ctx context.Context, loc *model.OfficeLocation) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *officeLocationRepo) GetByID(ctx context.Context, id string) (*model.OfficeLocation, error) {
	var loc model.OfficeLocation
	err := r.db.WithContext(ctx).
		Where("location_id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *officeLocationRepo) List(ctx context.Context, includeInactive bool) ([]model.OfficeLocation, error) {
	var locations []model.OfficeLocation
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *officeLocationRepo) Update(ctx context.Context, loc *model.OfficeLocation) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

func (r *officeLocationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.OfficeLocation{}).
		Where("location_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
