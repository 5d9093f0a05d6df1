package repository

import (
	"context"

	"innovation-portal-api/models"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
