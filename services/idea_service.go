package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innovation-portal-api/models"
	"innovation-portal-api/repository"
	"innovation-portal-api/utils"

	"go.uber.org/zap"
)

const maxIdeaTitle = 200

// IdeaService owns the idea lifecycle ahead of staged review and the
// visibility-shaped idea reads.
type IdeaService struct {
	ideas     repository.IdeaRepository
	states    repository.StageStateRepository
	workflows repository.WorkflowRepository
	users     repository.UserRepository
	stages    *StageStateService
	scoring   *ScoringService
	settings  *SettingsService
	logger    *zap.Logger
	now       func() time.Time
}

func NewIdeaService(store *repository.Store, stages *StageStateService, scoring *ScoringService, settings *SettingsService, logger *zap.Logger) *IdeaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdeaService{
		ideas:     store.Ideas,
		states:    store.States,
		workflows: store.Workflows,
		users:     store.Users,
		stages:    stages,
		scoring:   scoring,
		settings:  settings,
		logger:    logger,
		now:       utcNow,
	}
}

// IdeaInput is the body of a new draft.
type IdeaInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// Create stores a new draft owned by ownerID.
func (s *IdeaService) Create(ctx context.Context, ownerID uint, in IdeaInput) (*models.Idea, error) {
	title := utils.SanitizeInput(in.Title)
	switch {
	case title == "":
		return nil, ValidationFailed(FieldError{Field: "title", Message: "is required"})
	case !utils.WithinLength(title, maxIdeaTitle):
		return nil, ValidationFailed(FieldError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", maxIdeaTitle)})
	}

	idea := &models.Idea{
		UserID:      ownerID,
		Title:       title,
		Description: utils.OptionalText(in.Description),
		Category:    utils.OptionalText(in.Category),
		Status:      models.IdeaStatusDraft,
	}
	if err := s.ideas.Create(ctx, idea); err != nil {
		return nil, storage("failed to create idea", err)
	}
	return idea, nil
}

// BindingOutcome reports the best-effort workflow binding done at submission.
type BindingOutcome struct {
	Bound      bool   `json:"bound"`
	WorkflowID uint   `json:"workflow_id,omitempty"`
	StageName  string `json:"stage_name,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// SubmitResult is the submitted idea and its binding outcome.
type SubmitResult struct {
	Idea    models.Idea    `json:"idea"`
	Binding BindingOutcome `json:"binding"`
}

// Submit moves the owner's draft to submitted, then tries to bind it to the
// active workflow. A failed binding never fails the submission.
func (s *IdeaService) Submit(ctx context.Context, viewer Viewer, ideaID uint) (*SubmitResult, error) {
	idea, err := s.ideas.Get(ctx, ideaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("idea not found")
	}
	if err != nil {
		return nil, storage("failed to load idea", err)
	}
	if idea.UserID != viewer.UserID {
		if idea.IsDraft() {
			return nil, notFound("idea not found")
		}
		return nil, forbidden("only the owner can submit this idea")
	}
	if !idea.IsDraft() {
		return nil, conflict("idea has already been submitted", nil)
	}

	submittedAt := s.now()
	switch err := s.ideas.MarkSubmitted(ctx, ideaID, submittedAt); {
	case errors.Is(err, repository.ErrStatusChanged):
		return nil, conflict("idea has already been submitted", err)
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("idea not found")
	case err != nil:
		return nil, storage("failed to submit idea", err)
	}
	idea.Status = models.IdeaStatusSubmitted
	idea.SubmittedAt = &submittedAt

	binding := s.bind(persistentContext(ctx), idea, viewer.UserID)
	return &SubmitResult{Idea: *idea, Binding: binding}, nil
}

func (s *IdeaService) bind(ctx context.Context, idea *models.Idea, actorID uint) BindingOutcome {
	state, err := s.stages.BindToActiveWorkflow(ctx, idea.ID, actorID)
	if err != nil {
		s.logger.Warn("idea submitted without staged review binding", zap.Uint("idea_id", idea.ID), zap.Error(err))
		return BindingOutcome{Reason: bindingReason(err)}
	}
	idea.Status = models.IdeaStatusUnderReview

	outcome := BindingOutcome{Bound: true, WorkflowID: state.WorkflowID}
	if wf, err := s.workflows.FindByID(ctx, state.WorkflowID); err == nil {
		outcome.StageName = wf.StageName(state.CurrentStageID)
	}
	return outcome
}

func bindingReason(err error) string {
	switch {
	case errors.Is(err, ErrNoActiveWorkflow):
		return "no active review workflow"
	case IsKind(err, KindConflict):
		return "already bound"
	}
	return "binding failed"
}

// GetVisible returns one idea shaped for the viewer. Other users' drafts
// are reported as not found.
func (s *IdeaService) GetVisible(ctx context.Context, viewer Viewer, ideaID uint) (*IdeaView, error) {
	idea, err := s.ideas.Get(ctx, ideaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("idea not found")
	}
	if err != nil {
		return nil, storage("failed to load idea", err)
	}
	if idea.IsDraft() && idea.UserID != viewer.UserID {
		return nil, notFound("idea not found")
	}
	views, err := s.shape(ctx, viewer, []models.Idea{*idea})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListOptions pages the idea listing. Mine restricts it to the viewer's ideas.
type ListOptions struct {
	Limit  int
	Offset int
	Mine   bool
}

// List returns the ideas visible to the viewer, newest submission first.
func (s *IdeaService) List(ctx context.Context, viewer Viewer, opts ListOptions) ([]IdeaView, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	filter := repository.IdeaListFilter{DraftOwnerID: viewer.UserID, Limit: opts.Limit, Offset: opts.Offset}
	if opts.Mine {
		owner := viewer.UserID
		filter.OwnerID = &owner
	}
	items, total, err := s.ideas.List(ctx, filter)
	if err != nil {
		return nil, 0, storage("failed to list ideas", err)
	}
	views, err := s.shape(ctx, viewer, items)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// shape attaches stage and score data and masks each idea on its own.
func (s *IdeaService) shape(ctx context.Context, viewer Viewer, items []models.Idea) ([]IdeaView, error) {
	views := make([]IdeaView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	blind, err := s.settings.BlindReviewEnabled(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(items))
	for i, idea := range items {
		ids[i] = idea.ID
	}
	states, err := s.states.GetMany(ctx, ids)
	if err != nil {
		return nil, storage("failed to load stage states", err)
	}
	aggregates, err := s.scoring.AggregateMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	workflows := make(map[uint]*models.WorkflowWithStages)
	names := newNameCache(s.users, s.logger)
	for _, idea := range items {
		var outcome *models.TerminalOutcome
		stageName := ""
		if state, ok := states[idea.ID]; ok {
			outcome = state.TerminalOutcome
			stageName = s.stageName(ctx, workflows, state)
		}

		mask := ShouldAnonymize(IdeaMaskInput{
			ViewerRole:         viewer.Role,
			ViewerID:           viewer.UserID,
			IdeaOwnerID:        idea.UserID,
			TerminalOutcome:    outcome,
			BlindReviewEnabled: blind,
		})
		submitter := ""
		if !mask {
			submitter = names.lookup(ctx, idea.UserID)
		}

		view := AnonymizeIdeaResponse(NewIdeaView(idea, submitter), mask)
		view.CurrentStageName = stageName
		view.TerminalOutcome = outcome
		agg := aggregates[idea.ID]
		view.AvgScore = agg.AvgScore
		view.ScoreCount = agg.ScoreCount
		views = append(views, view)
	}
	return views, nil
}

func (s *IdeaService) stageName(ctx context.Context, cache map[uint]*models.WorkflowWithStages, state models.IdeaStageState) string {
	wf, ok := cache[state.WorkflowID]
	if !ok {
		found, err := s.workflows.FindByID(ctx, state.WorkflowID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("workflow lookup failed", zap.Uint("workflow_id", state.WorkflowID), zap.Error(err))
		}
		wf = found
		cache[state.WorkflowID] = wf
	}
	if wf == nil {
		return ""
	}
	return wf.StageName(state.CurrentStageID)
}
