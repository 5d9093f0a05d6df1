package repository

import (
	"context"
	"fmt"
	"time"

	"innovation-portal-api/models"

	"gorm.io/gorm"
)

type GormIdeaRepository struct {
	db *gorm.DB
}

func NewGormIdeaRepository(db *gorm.DB) *GormIdeaRepository {
	return &GormIdeaRepository{db: db}
}

func (r *GormIdeaRepository) Get(ctx context.Context, id uint) (*models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&idea).Error; err != nil {
		return nil, translate(err)
	}
	return &idea, nil
}

func (r *GormIdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Create(idea).Error; err != nil {
		return fmt.Errorf("create idea: %w", err)
	}
	return nil
}

func (r *GormIdeaRepository) UpdateStatus(ctx context.Context, id uint, status models.IdeaStatus, submittedAt *time.Time) error {
	fields := map[string]interface{}{"status": status}
	if submittedAt != nil {
		fields["submitted_at"] = *submittedAt
	}
	result := r.db.WithContext(ctx).Model(&models.Idea{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update status of idea %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormIdeaRepository) MarkSubmitted(ctx context.Context, id uint, submittedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Idea{}).
		Where("id = ? AND status = ? AND deleted_at IS NULL", id, models.IdeaStatusDraft).
		Updates(map[string]interface{}{
			"status":       models.IdeaStatusSubmitted,
			"submitted_at": submittedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("submit idea %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *GormIdeaRepository) List(ctx context.Context, filter IdeaListFilter) ([]models.Idea, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&models.Idea{}).
		Where("deleted_at IS NULL").
		Where("(status <> ? OR user_id = ?)", models.IdeaStatusDraft, filter.DraftOwnerID)
	if filter.OwnerID != nil {
		q = q.Where("user_id = ?", *filter.OwnerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Idea
	if err := q.Order("submitted_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
