package repository

import (
	"context"
	"fmt"

	"innovation-portal-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormScoreRepository struct {
	db *gorm.DB
}

func NewGormScoreRepository(db *gorm.DB) *GormScoreRepository {
	return &GormScoreRepository{db: db}
}

// Upsert inserts the score or updates score, comment and updated_at of the
// existing (idea, evaluator) row, then reloads the stored row.
func (r *GormScoreRepository) Upsert(ctx context.Context, score *models.IdeaScore) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idea_id"}, {Name: "evaluator_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
	}).Create(score).Error; err != nil {
		return fmt.Errorf("upsert score for idea %d: %w", score.IdeaID, err)
	}

	var stored models.IdeaScore
	if err := db.Where("idea_id = ? AND evaluator_id = ?", score.IdeaID, score.EvaluatorID).
		First(&stored).Error; err != nil {
		return fmt.Errorf("reload score for idea %d: %w", score.IdeaID, translate(err))
	}
	*score = stored
	return nil
}

func (r *GormScoreRepository) ListForIdea(ctx context.Context, ideaID uint) ([]models.IdeaScore, error) {
	var scores []models.IdeaScore
	if err := r.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("created_at ASC, id ASC").
		Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("list scores for idea %d: %w", ideaID, err)
	}
	return scores, nil
}

func (r *GormScoreRepository) ListForIdeas(ctx context.Context, ideaIDs []uint) ([]models.IdeaScore, error) {
	if len(ideaIDs) == 0 {
		return nil, nil
	}
	var scores []models.IdeaScore
	if err := r.db.WithContext(ctx).Where("idea_id IN ?", ideaIDs).Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}
