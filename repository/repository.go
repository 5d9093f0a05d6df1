// Package repository holds the persistence ports used by the review services
// together with a gorm implementation and an in-memory implementation.
package repository

import (
	"context"
	"errors"
	"time"

	"innovation-portal-api/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a conditional stage-state write
	// matched zero rows.
	ErrVersionConflict = errors.New("state version conflict")
	// ErrAlreadyExists is returned when inserting a row whose key is taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrStatusChanged is returned when a status write conditioned on the
	// current status matched zero rows.
	ErrStatusChanged = errors.New("status changed")
)

// WorkflowRepository stores versioned review workflows.
type WorkflowRepository interface {
	FindActive(ctx context.Context) (*models.WorkflowWithStages, error)
	FindByID(ctx context.Context, id uint) (*models.WorkflowWithStages, error)
	// CreateAndActivate writes the next workflow version and its stages and
	// makes it the only active workflow, atomically.
	CreateAndActivate(ctx context.Context, stageNames []string, createdBy uint, activatedAt time.Time) (*models.WorkflowWithStages, error)
}

// StageStateRepository stores one stage state row per idea.
type StageStateRepository interface {
	Get(ctx context.Context, ideaID uint) (*models.IdeaStageState, error)
	GetMany(ctx context.Context, ideaIDs []uint) (map[uint]models.IdeaStageState, error)
	Create(ctx context.Context, state *models.IdeaStageState) error
	// CompareAndSwap replaces the row only while its state_version still
	// equals expectedVersion; otherwise it returns ErrVersionConflict.
	CompareAndSwap(ctx context.Context, next *models.IdeaStageState, expectedVersion int) error
}

// EventRepository is the append-only stage event log.
type EventRepository interface {
	Append(ctx context.Context, event *models.ReviewStageEvent) error
	ListForIdea(ctx context.Context, ideaID uint) ([]models.ReviewStageEvent, error)
}

// ScoreRepository stores evaluator scores keyed by (idea, evaluator).
type ScoreRepository interface {
	Upsert(ctx context.Context, score *models.IdeaScore) error
	ListForIdea(ctx context.Context, ideaID uint) ([]models.IdeaScore, error)
	ListForIdeas(ctx context.Context, ideaIDs []uint) ([]models.IdeaScore, error)
}

// SettingRepository stores global portal settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.PortalSetting, error)
	Put(ctx context.Context, setting *models.PortalSetting) error
}

// IdeaListFilter narrows idea listings. Drafts are only returned when they
// belong to DraftOwnerID.
type IdeaListFilter struct {
	DraftOwnerID uint
	OwnerID      *uint
	Limit        int
	Offset       int
}

// IdeaRepository stores ideas. Soft-deleted ideas are reported as ErrNotFound.
type IdeaRepository interface {
	Get(ctx context.Context, id uint) (*models.Idea, error)
	Create(ctx context.Context, idea *models.Idea) error
	UpdateStatus(ctx context.Context, id uint, status models.IdeaStatus, submittedAt *time.Time) error
	// MarkSubmitted moves a draft to submitted. ErrStatusChanged when the
	// idea is no longer a draft.
	MarkSubmitted(ctx context.Context, id uint, submittedAt time.Time) error
	List(ctx context.Context, filter IdeaListFilter) ([]models.Idea, int64, error)
}

// UserRepository reads the user directory.
type UserRepository interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

// Store bundles every repository the services need.
type Store struct {
	Workflows WorkflowRepository
	States    StageStateRepository
	Events    EventRepository
	Scores    ScoreRepository
	Settings  SettingRepository
	Ideas     IdeaRepository
	Users     UserRepository

	// Ping checks connectivity of the backing store; nil when not applicable.
	Ping func(ctx context.Context) error
}
