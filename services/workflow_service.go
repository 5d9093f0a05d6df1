package services

import (
	"context"
	"errors"
	"time"

	"innovation-portal-api/models"
	"innovation-portal-api/monitor"
	"innovation-portal-api/repository"

	"go.uber.org/zap"
)

// WorkflowService reads and activates review workflow versions.
type WorkflowService struct {
	repo    repository.WorkflowRepository
	metrics *monitor.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewWorkflowService(repo repository.WorkflowRepository, metrics *monitor.Metrics, logger *zap.Logger) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{repo: repo, metrics: metrics, logger: logger, now: utcNow}
}

// GetActive returns the active workflow, or nil when none is configured.
func (s *WorkflowService) GetActive(ctx context.Context) (*models.WorkflowWithStages, error) {
	wf, err := s.repo.FindActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("failed to load active workflow", err)
	}
	return wf, nil
}

// GetByID returns a specific workflow version, or nil when it does not exist.
func (s *WorkflowService) GetByID(ctx context.Context, id uint) (*models.WorkflowWithStages, error) {
	wf, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("failed to load workflow", err)
	}
	return wf, nil
}

// CreateAndActivate validates the stage names, then stores them as the next
// workflow version and makes it the only active one.
func (s *WorkflowService) CreateAndActivate(ctx context.Context, stageNames []string, createdBy uint) (*models.WorkflowWithStages, error) {
	names, err := ValidateWorkflowStages(stageNames)
	if err != nil {
		return nil, err
	}
	wf, err := s.repo.CreateAndActivate(ctx, names, createdBy, s.now())
	if err != nil {
		return nil, storage("failed to activate workflow", err)
	}
	s.metrics.ObserveActivation()
	s.logger.Info("review workflow activated",
		zap.Uint("workflow_id", wf.ID),
		zap.Int("version", wf.Version),
		zap.Int("stages", len(wf.Stages)),
		zap.Uint("created_by", createdBy),
	)
	return wf, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
