package models

import "time"

// IdeaStatus is the legacy status column kept alongside staged review.
type IdeaStatus string

const (
	IdeaStatusDraft       IdeaStatus = "draft"
	IdeaStatusSubmitted   IdeaStatus = "submitted"
	IdeaStatusUnderReview IdeaStatus = "under_review"
	IdeaStatusAccepted    IdeaStatus = "accepted"
	IdeaStatusRejected    IdeaStatus = "rejected"
)

// Idea represents an innovation idea owned by a submitter.
type Idea struct {
	ID          uint       `gorm:"primaryKey;column:id" json:"id"`
	UserID      uint       `gorm:"column:user_id;not null;index" json:"user_id"`
	Title       string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Category    *string    `gorm:"column:category;type:varchar(100)" json:"category,omitempty"`
	Status      IdeaStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Idea) TableName() string { return "ideas" }

// IsDraft reports whether the idea has not been submitted yet.
func (i Idea) IsDraft() bool {
	return i.Status == IdeaStatusDraft
}
