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

// StageStateService moves ideas through their bound review workflow.
type StageStateService struct {
	states    repository.StageStateRepository
	workflows repository.WorkflowRepository
	ideas     repository.IdeaRepository
	events    *EventLog
	notifier  DecisionNotifier
	metrics   *monitor.Metrics
	logger    *zap.Logger

	now func() time.Time
	// dispatch runs best-effort side work such as decision e-mails.
	dispatch func(func())
}

func NewStageStateService(store *repository.Store, notifier DecisionNotifier, metrics *monitor.Metrics, logger *zap.Logger) *StageStateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageStateService{
		states:    store.States,
		workflows: store.Workflows,
		ideas:     store.Ideas,
		events:    NewEventLog(store.Events),
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
		now:       utcNow,
		dispatch:  func(f func()) { go f() },
	}
}

// TransitionRequest asks for one action against a known state version.
type TransitionRequest struct {
	IdeaID               uint
	Action               models.ReviewAction
	ExpectedStateVersion int
	ActorID              uint
	Comment              *string
}

// TransitionResult is the committed state. AuditIncomplete is set when the
// state was written but its event could not be appended.
type TransitionResult struct {
	State           models.IdeaStageState    `json:"state"`
	Stage           models.ReviewStage       `json:"stage"`
	Event           *models.ReviewStageEvent `json:"event"`
	AuditIncomplete bool                     `json:"audit_incomplete"`
}

// Transition applies req to the idea's stage state. The write is conditioned
// on the stored version still equalling req.ExpectedStateVersion.
func (s *StageStateService) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	action := string(req.Action)

	current, err := s.states.Get(ctx, req.IdeaID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.ObserveTransition(action, "not_found")
		return nil, notFound("idea has not entered staged review")
	}
	if err != nil {
		s.metrics.ObserveTransition(action, "error")
		return nil, storage("failed to load stage state", err)
	}

	if current.StateVersion != req.ExpectedStateVersion {
		s.metrics.ObserveTransition(action, "conflict")
		return nil, conflict(StaleStateMessage, repository.ErrVersionConflict)
	}
	if current.IsTerminal() {
		s.metrics.ObserveTransition(action, "rejected")
		return nil, invalidTransition("review already closed")
	}

	workflow, err := s.workflows.FindByID(ctx, current.WorkflowID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.ObserveTransition(action, "error")
		return nil, storage("bound workflow is missing", err)
	}
	if err != nil {
		s.metrics.ObserveTransition(action, "error")
		return nil, storage("failed to load bound workflow", err)
	}

	target, err := ResolveTransition(workflow, current.CurrentStageID, req.Action)
	if err != nil {
		s.metrics.ObserveTransition(action, "rejected")
		return nil, err
	}

	next := models.IdeaStageState{
		IdeaID:          current.IdeaID,
		WorkflowID:      current.WorkflowID,
		CurrentStageID:  target.ID,
		StateVersion:    req.ExpectedStateVersion + 1,
		TerminalOutcome: req.Action.Outcome(),
		UpdatedBy:       req.ActorID,
		UpdatedAt:       s.now(),
	}
	if err := s.states.CompareAndSwap(ctx, &next, req.ExpectedStateVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.metrics.ObserveTransition(action, "conflict")
			return nil, conflict(StaleStateMessage, err)
		}
		s.metrics.ObserveTransition(action, "error")
		return nil, storage("failed to update stage state", err)
	}

	fromStageID := current.CurrentStageID
	event := &models.ReviewStageEvent{
		IdeaID:           next.IdeaID,
		WorkflowID:       next.WorkflowID,
		FromStageID:      &fromStageID,
		ToStageID:        target.ID,
		Action:           req.Action,
		EvaluatorComment: req.Comment,
		ActorID:          req.ActorID,
		OccurredAt:       next.UpdatedAt,
	}
	result := &TransitionResult{State: next, Stage: target, Event: event}
	if err := s.events.Append(ctx, event); err != nil {
		result.Event = nil
		result.AuditIncomplete = true
		s.metrics.ObserveAuditFailure()
		s.logger.Warn("stage state committed but event append failed",
			zap.Uint("idea_id", next.IdeaID),
			zap.Int("state_version", next.StateVersion),
			zap.String("action", action),
			zap.Error(err),
		)
	}

	s.metrics.ObserveTransition(action, "ok")
	s.logger.Info("stage transition",
		zap.Uint("idea_id", next.IdeaID),
		zap.String("action", action),
		zap.Uint("from_stage_id", fromStageID),
		zap.Uint("to_stage_id", target.ID),
		zap.Int("state_version", next.StateVersion),
		zap.Uint("actor_id", req.ActorID),
	)

	if next.TerminalOutcome != nil {
		s.closeIdea(ctx, next.IdeaID, *next.TerminalOutcome)
	}
	return result, nil
}

// closeIdea mirrors a decision onto the legacy status column and notifies
// the owner. Both steps are best-effort.
func (s *StageStateService) closeIdea(ctx context.Context, ideaID uint, outcome models.TerminalOutcome) {
	status := models.IdeaStatusAccepted
	if outcome == models.OutcomeRejected {
		status = models.IdeaStatusRejected
	}
	if err := s.ideas.UpdateStatus(ctx, ideaID, status, nil); err != nil {
		s.logger.Warn("failed to mirror decision onto idea status", zap.Uint("idea_id", ideaID), zap.Error(err))
	}
	if s.notifier == nil {
		return
	}

	bg := persistentContext(ctx)
	s.dispatch(func() {
		idea, err := s.ideas.Get(bg, ideaID)
		if err == nil {
			err = s.notifier.NotifyDecision(bg, *idea, outcome)
		}
		if err != nil {
			s.metrics.ObserveNotification("error")
			s.logger.Warn("decision notification failed", zap.Uint("idea_id", ideaID), zap.Error(err))
			return
		}
		s.metrics.ObserveNotification("sent")
	})
}

// BindToActiveWorkflow places a submitted idea at the first stage of the
// active workflow and records the entry event.
func (s *StageStateService) BindToActiveWorkflow(ctx context.Context, ideaID, actorID uint) (*models.IdeaStageState, error) {
	workflow, err := s.workflows.FindActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.ObserveBinding("no_workflow")
		return nil, &ServiceError{Kind: KindNotFound, Message: "no active review workflow", Err: ErrNoActiveWorkflow}
	}
	if err != nil {
		s.metrics.ObserveBinding("error")
		return nil, storage("failed to load active workflow", err)
	}
	first, ok := workflow.FirstStage()
	if !ok {
		s.metrics.ObserveBinding("no_workflow")
		return nil, &ServiceError{Kind: KindNotFound, Message: "active review workflow has no stages", Err: ErrNoActiveWorkflow}
	}

	state := &models.IdeaStageState{
		IdeaID:         ideaID,
		WorkflowID:     workflow.ID,
		CurrentStageID: first.ID,
		StateVersion:   1,
		UpdatedBy:      actorID,
		UpdatedAt:      s.now(),
	}
	if err := s.states.Create(ctx, state); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.metrics.ObserveBinding("already_bound")
			return nil, conflict("idea is already bound to a workflow", err)
		}
		s.metrics.ObserveBinding("error")
		return nil, storage("failed to create stage state", err)
	}

	entry := &models.ReviewStageEvent{
		IdeaID:     ideaID,
		WorkflowID: workflow.ID,
		ToStageID:  first.ID,
		Action:     models.ActionAdvance,
		ActorID:    actorID,
		OccurredAt: state.UpdatedAt,
	}
	if err := s.events.Append(ctx, entry); err != nil {
		s.metrics.ObserveAuditFailure()
		s.logger.Warn("idea bound but entry event append failed", zap.Uint("idea_id", ideaID), zap.Error(err))
	}
	if err := s.ideas.UpdateStatus(ctx, ideaID, models.IdeaStatusUnderReview, nil); err != nil {
		s.logger.Warn("failed to mirror under_review onto idea status", zap.Uint("idea_id", ideaID), zap.Error(err))
	}

	s.metrics.ObserveBinding("bound")
	s.logger.Info("idea bound to review workflow",
		zap.Uint("idea_id", ideaID),
		zap.Uint("workflow_id", workflow.ID),
		zap.Int("workflow_version", workflow.Version),
		zap.Uint("stage_id", first.ID),
	)
	return state, nil
}

// StageDetail is the reviewer tooling view of one idea.
type StageDetail struct {
	IdeaID           uint                       `json:"idea_id"`
	State            *models.IdeaStageState     `json:"state"`
	Workflow         *models.WorkflowWithStages `json:"workflow"`
	CurrentStageName string                     `json:"current_stage_name,omitempty"`
	Events           []models.ReviewStageEvent  `json:"events"`
	AllowedActions   []models.ReviewAction      `json:"allowed_actions"`
}

// GetStageDetail returns the full state, bound workflow and event log.
func (s *StageStateService) GetStageDetail(ctx context.Context, ideaID uint) (*StageDetail, error) {
	if _, err := s.loadIdea(ctx, ideaID); err != nil {
		return nil, err
	}
	detail := &StageDetail{
		IdeaID:         ideaID,
		Events:         []models.ReviewStageEvent{},
		AllowedActions: []models.ReviewAction{},
	}

	state, workflow, err := s.loadState(ctx, ideaID)
	if err != nil || state == nil {
		return detail, err
	}
	events, err := s.events.ListForIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	detail.State = state
	detail.Workflow = workflow
	detail.Events = events
	if workflow != nil {
		detail.CurrentStageName = workflow.StageName(state.CurrentStageID)
		if !state.IsTerminal() {
			for _, action := range models.ReviewActions {
				if _, err := ResolveTransition(workflow, state.CurrentStageID, action); err == nil {
					detail.AllowedActions = append(detail.AllowedActions, action)
				}
			}
		}
	}
	return detail, nil
}

// GetProgress returns the role-shaped progress timeline. Reviewers may read
// any visible idea; other callers only their own.
func (s *StageStateService) GetProgress(ctx context.Context, viewer Viewer, ideaID uint) (*ProgressView, error) {
	idea, err := s.loadIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if err := authorizeIdeaRead(viewer, idea); err != nil {
		return nil, err
	}

	state, workflow, err := s.loadState(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	var events []models.ReviewStageEvent
	if state != nil {
		if events, err = s.events.ListForIdea(ctx, ideaID); err != nil {
			return nil, err
		}
	}
	view := ShapeProgress(ideaID, viewer.Role, state, workflow, events)
	return &view, nil
}

func (s *StageStateService) loadIdea(ctx context.Context, ideaID uint) (*models.Idea, error) {
	idea, err := s.ideas.Get(ctx, ideaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("idea not found")
	}
	if err != nil {
		return nil, storage("failed to load idea", err)
	}
	return idea, nil
}

// loadState returns nil state for ideas outside staged review.
func (s *StageStateService) loadState(ctx context.Context, ideaID uint) (*models.IdeaStageState, *models.WorkflowWithStages, error) {
	state, err := s.states.Get(ctx, ideaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, storage("failed to load stage state", err)
	}
	workflow, err := s.workflows.FindByID(ctx, state.WorkflowID)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("stage state references a missing workflow", zap.Uint("idea_id", ideaID), zap.Uint("workflow_id", state.WorkflowID))
		return state, nil, nil
	}
	if err != nil {
		return nil, nil, storage("failed to load bound workflow", err)
	}
	return state, workflow, nil
}

// authorizeIdeaRead hides other users' drafts and limits non-reviewers to
// their own ideas.
func authorizeIdeaRead(viewer Viewer, idea *models.Idea) error {
	owner := viewer.UserID != 0 && viewer.UserID == idea.UserID
	if idea.IsDraft() && !owner {
		return notFound("idea not found")
	}
	if owner || viewer.IsReviewer() {
		return nil
	}
	return forbidden("only the idea owner or a reviewer may view this")
}

// persistentContext keeps request values but drops cancellation, for writes
// and notifications that must finish after the client goes away.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
