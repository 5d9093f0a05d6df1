package repository

import (
	"context"
	"fmt"

	"innovation-portal-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormSettingRepository struct {
	db *gorm.DB
}

func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

func (r *GormSettingRepository) Get(ctx context.Context, key string) (*models.PortalSetting, error) {
	var setting models.PortalSetting
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return nil, translate(err)
	}
	return &setting, nil
}

func (r *GormSettingRepository) Put(ctx context.Context, setting *models.PortalSetting) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"bool_value", "updated_by", "updated_at"}),
	}).Create(setting).Error; err != nil {
		return fmt.Errorf("save setting %s: %w", setting.Key, err)
	}
	return nil
}
