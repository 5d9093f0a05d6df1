package models

import "time"

// IdeaStageState is an idea's current position in its bound workflow.
// StateVersion starts at 1 and grows by one per accepted transition.
type IdeaStageState struct {
	IdeaID          uint             `gorm:"primaryKey;autoIncrement:false;column:idea_id" json:"idea_id"`
	WorkflowID      uint             `gorm:"column:workflow_id;not null;index" json:"workflow_id"`
	CurrentStageID  uint             `gorm:"column:current_stage_id;not null" json:"current_stage_id"`
	StateVersion    int              `gorm:"column:state_version;not null" json:"state_version"`
	TerminalOutcome *TerminalOutcome `gorm:"column:terminal_outcome;type:varchar(16)" json:"terminal_outcome"`
	UpdatedBy       uint             `gorm:"column:updated_by;not null" json:"updated_by"`
	UpdatedAt       time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

func (IdeaStageState) TableName() string { return "idea_stage_states" }

// IsTerminal reports whether a final decision has been recorded.
func (s IdeaStageState) IsTerminal() bool {
	return s.TerminalOutcome != nil
}
