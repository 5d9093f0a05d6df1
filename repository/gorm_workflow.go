package repository

import (
	"context"
	"fmt"
	"time"

	"innovation-portal-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormWorkflowRepository struct {
	db *gorm.DB
}

func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

func (r *GormWorkflowRepository) FindActive(ctx context.Context) (*models.WorkflowWithStages, error) {
	var wf models.ReviewWorkflow
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("version DESC").First(&wf).Error; err != nil {
		return nil, translate(err)
	}
	return r.withStages(ctx, r.db, wf)
}

func (r *GormWorkflowRepository) FindByID(ctx context.Context, id uint) (*models.WorkflowWithStages, error) {
	var wf models.ReviewWorkflow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&wf).Error; err != nil {
		return nil, translate(err)
	}
	return r.withStages(ctx, r.db, wf)
}

func (r *GormWorkflowRepository) withStages(ctx context.Context, db *gorm.DB, wf models.ReviewWorkflow) (*models.WorkflowWithStages, error) {
	var stages []models.ReviewStage
	if err := db.WithContext(ctx).Where("workflow_id = ?", wf.ID).Order("position ASC").Find(&stages).Error; err != nil {
		return nil, fmt.Errorf("load stages for workflow %d: %w", wf.ID, err)
	}
	return &models.WorkflowWithStages{ReviewWorkflow: wf, Stages: stages}, nil
}

// CreateAndActivate runs deactivate-old, insert-new and insert-stages in one
// transaction. The active rows are locked first so concurrent activations
// serialize, and the unique version index rejects a duplicate next version.
func (r *GormWorkflowRepository) CreateAndActivate(ctx context.Context, stageNames []string, createdBy uint, activatedAt time.Time) (*models.WorkflowWithStages, error) {
	var created *models.WorkflowWithStages
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active []models.ReviewWorkflow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_active = ?", true).
			Find(&active).Error; err != nil {
			return fmt.Errorf("lock active workflow: %w", err)
		}

		var maxVersion int
		if err := tx.Model(&models.ReviewWorkflow{}).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return fmt.Errorf("read max workflow version: %w", err)
		}

		if len(active) > 0 {
			if err := tx.Model(&models.ReviewWorkflow{}).
				Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return fmt.Errorf("deactivate workflow: %w", err)
			}
		}

		activated := activatedAt
		wf := models.ReviewWorkflow{
			Version:     maxVersion + 1,
			IsActive:    true,
			CreatedBy:   createdBy,
			ActivatedAt: &activated,
			CreatedAt:   activatedAt,
		}
		if err := tx.Create(&wf).Error; err != nil {
			return fmt.Errorf("insert workflow: %w", translate(err))
		}

		stages := make([]models.ReviewStage, len(stageNames))
		for i, name := range stageNames {
			stages[i] = models.ReviewStage{WorkflowID: wf.ID, Name: name, Position: i + 1}
		}
		if len(stages) > 0 {
			if err := tx.Create(&stages).Error; err != nil {
				return fmt.Errorf("insert stages: %w", err)
			}
		}

		created = &models.WorkflowWithStages{ReviewWorkflow: wf, Stages: stages}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
