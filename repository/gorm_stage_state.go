package repository

import (
	"context"
	"fmt"

	"innovation-portal-api/models"

	"gorm.io/gorm"
)

type GormStageStateRepository struct {
	db *gorm.DB
}

func NewGormStageStateRepository(db *gorm.DB) *GormStageStateRepository {
	return &GormStageStateRepository{db: db}
}

func (r *GormStageStateRepository) Get(ctx context.Context, ideaID uint) (*models.IdeaStageState, error) {
	var state models.IdeaStageState
	if err := r.db.WithContext(ctx).Where("idea_id = ?", ideaID).First(&state).Error; err != nil {
		return nil, translate(err)
	}
	return &state, nil
}

func (r *GormStageStateRepository) GetMany(ctx context.Context, ideaIDs []uint) (map[uint]models.IdeaStageState, error) {
	result := make(map[uint]models.IdeaStageState, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return result, nil
	}
	var rows []models.IdeaStageState
	if err := r.db.WithContext(ctx).Where("idea_id IN ?", ideaIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load stage states: %w", err)
	}
	for _, row := range rows {
		result[row.IdeaID] = row
	}
	return result, nil
}

func (r *GormStageStateRepository) Create(ctx context.Context, state *models.IdeaStageState) error {
	if err := r.db.WithContext(ctx).Create(state).Error; err != nil {
		return translate(err)
	}
	return nil
}

// CompareAndSwap issues UPDATE ... WHERE idea_id = ? AND state_version = ?.
// Zero affected rows means another writer moved the state first.
func (r *GormStageStateRepository) CompareAndSwap(ctx context.Context, next *models.IdeaStageState, expectedVersion int) error {
	result := r.db.WithContext(ctx).Model(&models.IdeaStageState{}).
		Where("idea_id = ? AND state_version = ?", next.IdeaID, expectedVersion).
		Updates(map[string]interface{}{
			"current_stage_id": next.CurrentStageID,
			"state_version":    next.StateVersion,
			"terminal_outcome": next.TerminalOutcome,
			"updated_by":       next.UpdatedBy,
			"updated_at":       next.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update stage state for idea %d: %w", next.IdeaID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
