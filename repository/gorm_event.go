package repository

import (
	"context"
	"fmt"

	"innovation-portal-api/models"

	"gorm.io/gorm"
)

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, event *models.ReviewStageEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("append stage event for idea %d: %w", event.IdeaID, err)
	}
	return nil
}

func (r *GormEventRepository) ListForIdea(ctx context.Context, ideaID uint) ([]models.ReviewStageEvent, error) {
	var events []models.ReviewStageEvent
	if err := r.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("occurred_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list stage events for idea %d: %w", ideaID, err)
	}
	return events, nil
}
