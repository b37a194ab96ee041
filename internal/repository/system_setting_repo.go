package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
)

// SystemSettingRepository settings data access
type SystemSettingRepository interface {
	List(ctx context.Context) ([]model.SystemSetting, error)
	Get(ctx context.Context, key string) (*model.SystemSetting, error)
	Upsert(ctx context.Context, s *model.SystemSetting) error
}

type systemSettingRepo struct {
	db *gorm.DB
}

// NewSystemSettingRepo creates a SystemSettingRepository.
func NewSystemSettingRepo(db *gorm.DB) SystemSettingRepository {
	return &systemSettingRepo{db: db}
}

func (r *systemSettingRepo) List(ctx context.Context) ([]model.SystemSetting, error) {
	var settings []model.SystemSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *systemSettingRepo) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	var s model.SystemSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *systemSettingRepo) Upsert(ctx context.Context, s *model.SystemSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":       s.Value,
				"description": s.Description,
				"updated_by":  s.UpdatedBy,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).
		Create(s).Error
}
