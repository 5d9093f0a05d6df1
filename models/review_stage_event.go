package models

import "time"

// ReviewStageEvent is the append-only audit record of one accepted transition.
// FromStageID is nil for the entry event written when an idea is bound.
type ReviewStageEvent struct {
	ID               uint         `gorm:"primaryKey;column:id" json:"id"`
	IdeaID           uint         `gorm:"column:idea_id;not null;index:idx_review_stage_event_idea,priority:1" json:"idea_id"`
	WorkflowID       uint         `gorm:"column:workflow_id;not null" json:"workflow_id"`
	FromStageID      *uint        `gorm:"column:from_stage_id" json:"from_stage_id"`
	ToStageID        uint         `gorm:"column:to_stage_id;not null" json:"to_stage_id"`
	Action           ReviewAction `gorm:"column:action;type:varchar(32);not null" json:"action"`
	EvaluatorComment *string      `gorm:"column:evaluator_comment;type:text" json:"evaluator_comment"`
	ActorID          uint         `gorm:"column:actor_id;not null" json:"actor_id"`
	OccurredAt       time.Time    `gorm:"column:occurred_at;not null;index:idx_review_stage_event_idea,priority:2" json:"occurred_at"`
}

func (ReviewStageEvent) TableName() string { return "review_stage_events" }
