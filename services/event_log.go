package services

import (
	"context"

	"innovation-portal-api/models"
	"innovation-portal-api/repository"
)

// EventLog is the append-only audit trail of stage transitions.
type EventLog struct {
	repo repository.EventRepository
}

func NewEventLog(repo repository.EventRepository) *EventLog {
	return &EventLog{repo: repo}
}

func (l *EventLog) Append(ctx context.Context, event *models.ReviewStageEvent) error {
	if err := l.repo.Append(ctx, event); err != nil {
		return storage("failed to append stage event", err)
	}
	return nil
}

// ListForIdea returns the idea's events, oldest first.
func (l *EventLog) ListForIdea(ctx context.Context, ideaID uint) ([]models.ReviewStageEvent, error) {
	events, err := l.repo.ListForIdea(ctx, ideaID)
	if err != nil {
		return nil, storage("failed to load stage events", err)
	}
	if events == nil {
		events = []models.ReviewStageEvent{}
	}
	return events, nil
}
