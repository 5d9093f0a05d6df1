package models

import "time"

const (
	MinScore         = 1
	MaxScore         = 5
	MaxScoreComment  = 500
	MaxEventComment  = 500
	MaxStageNameSize = 80
	MinWorkflowStage = 3
	MaxWorkflowStage = 7
)

// IdeaScore is one evaluator's score for an idea. (IdeaID, EvaluatorID) is unique.
type IdeaScore struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	IdeaID      uint      `gorm:"column:idea_id;not null;uniqueIndex:idx_idea_score_evaluator,priority:1" json:"idea_id"`
	EvaluatorID uint      `gorm:"column:evaluator_id;not null;uniqueIndex:idx_idea_score_evaluator,priority:2" json:"evaluator_id"`
	Score       int       `gorm:"column:score;not null" json:"score"`
	Comment     *string   `gorm:"column:comment;type:varchar(500)" json:"comment"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (IdeaScore) TableName() string { return "idea_scores" }
