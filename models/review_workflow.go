package models

import "time"

// ReviewWorkflow is one immutable version of the ordered review stages.
type ReviewWorkflow struct {
	ID          uint       `gorm:"primaryKey;column:id" json:"id"`
	Version     int        `gorm:"column:version;not null;uniqueIndex" json:"version"`
	IsActive    bool       `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedBy   uint       `gorm:"column:created_by;not null" json:"created_by"`
	ActivatedAt *time.Time `gorm:"column:activated_at" json:"activated_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReviewWorkflow) TableName() string { return "review_workflows" }

// ReviewStage is one ordered step of a workflow version.
type ReviewStage struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"id"`
	WorkflowID uint   `gorm:"column:workflow_id;not null;uniqueIndex:idx_review_stage_position,priority:1" json:"workflow_id"`
	Name       string `gorm:"column:name;type:varchar(80);not null" json:"name"`
	Position   int    `gorm:"column:position;not null;uniqueIndex:idx_review_stage_position,priority:2" json:"position"`
}

func (ReviewStage) TableName() string { return "review_stages" }

// WorkflowWithStages is a workflow together with its stages ordered by position.
type WorkflowWithStages struct {
	ReviewWorkflow
	Stages []ReviewStage `json:"stages"`
}

// FirstStage returns the stage at position 1.
func (w *WorkflowWithStages) FirstStage() (ReviewStage, bool) {
	return w.StageAt(1)
}

// StageAt returns the stage at the given 1-based position.
func (w *WorkflowWithStages) StageAt(position int) (ReviewStage, bool) {
	for _, stage := range w.Stages {
		if stage.Position == position {
			return stage, true
		}
	}
	return ReviewStage{}, false
}

// StageByID returns the stage with the given id.
func (w *WorkflowWithStages) StageByID(id uint) (ReviewStage, bool) {
	for _, stage := range w.Stages {
		if stage.ID == id {
			return stage, true
		}
	}
	return ReviewStage{}, false
}

// StageName resolves a stage id to its name, or "" when unknown.
func (w *WorkflowWithStages) StageName(id uint) string {
	if stage, ok := w.StageByID(id); ok {
		return stage.Name
	}
	return ""
}
