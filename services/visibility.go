package services

import (
	"time"

	"innovation-portal-api/models"
)

const (
	// AnonymousUserID replaces masked submitter and evaluator ids.
	AnonymousUserID uint = 0

	AnonymousSubmitterName = "Anonymous Submitter"
	AnonymousEvaluatorName = "Anonymous Evaluator"
)

// Viewer is the authenticated caller. Role is empty when the directory
// holds an unknown role string.
type Viewer struct {
	UserID uint
	Role   models.Role
}

func (v Viewer) IsReviewer() bool {
	return v.Role.IsReviewer()
}

// IdeaMaskInput carries everything needed to decide submitter masking for
// one idea.
type IdeaMaskInput struct {
	ViewerRole         models.Role
	ViewerID           uint
	IdeaOwnerID        uint
	TerminalOutcome    *models.TerminalOutcome
	BlindReviewEnabled bool
}

// ShouldAnonymize reports whether the idea's submitter must be hidden from
// the viewer. Admins, the owner and decided ideas are exempt.
func ShouldAnonymize(in IdeaMaskInput) bool {
	switch {
	case !in.BlindReviewEnabled:
		return false
	case in.ViewerRole == models.RoleAdmin:
		return false
	case in.ViewerID != 0 && in.ViewerID == in.IdeaOwnerID:
		return false
	case in.TerminalOutcome != nil:
		return false
	}
	return true
}

// IdeaView is the idea representation returned to callers.
type IdeaView struct {
	ID            uint              `json:"id"`
	UserID        uint              `json:"user_id"`
	SubmitterName string            `json:"submitter_name,omitempty"`
	IsAnonymized  bool              `json:"is_anonymized"`
	Title         string            `json:"title"`
	Description   *string           `json:"description,omitempty"`
	Category      *string           `json:"category,omitempty"`
	Status        models.IdeaStatus `json:"status"`
	SubmittedAt   *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	CurrentStageName string                  `json:"current_stage_name,omitempty"`
	TerminalOutcome  *models.TerminalOutcome `json:"terminal_outcome,omitempty"`
	AvgScore         *float64                `json:"avg_score"`
	ScoreCount       int                     `json:"score_count"`
}

func NewIdeaView(idea models.Idea, submitterName string) IdeaView {
	return IdeaView{
		ID:            idea.ID,
		UserID:        idea.UserID,
		SubmitterName: submitterName,
		Title:         idea.Title,
		Description:   idea.Description,
		Category:      idea.Category,
		Status:        idea.Status,
		SubmittedAt:   idea.SubmittedAt,
		CreatedAt:     idea.CreatedAt,
		UpdatedAt:     idea.UpdatedAt,
	}
}

// AnonymizeIdeaResponse hides the submitter identity when mask is set and
// returns the view untouched otherwise.
func AnonymizeIdeaResponse(view IdeaView, mask bool) IdeaView {
	if !mask {
		return view
	}
	view.UserID = AnonymousUserID
	view.SubmitterName = AnonymousSubmitterName
	view.IsAnonymized = true
	return view
}

// ScoreEntry is one evaluator score as shown to callers.
type ScoreEntry struct {
	ID            uint      `json:"id"`
	IdeaID        uint      `json:"idea_id"`
	EvaluatorID   uint      `json:"evaluator_id"`
	EvaluatorName string    `json:"evaluator_name,omitempty"`
	IsAnonymized  bool      `json:"is_anonymized"`
	Score         int       `json:"score"`
	Comment       *string   `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewScoreEntry(score models.IdeaScore, evaluatorName string) ScoreEntry {
	return ScoreEntry{
		ID:            score.ID,
		IdeaID:        score.IdeaID,
		EvaluatorID:   score.EvaluatorID,
		EvaluatorName: evaluatorName,
		Score:         score.Score,
		Comment:       score.Comment,
		CreatedAt:     score.CreatedAt,
		UpdatedAt:     score.UpdatedAt,
	}
}

// ShouldAnonymizeEvaluator reports whether an evaluator's identity must be
// hidden. Admins and the evaluator themself are exempt. A terminal outcome
// does not lift evaluator masking.
func ShouldAnonymizeEvaluator(viewerRole models.Role, viewerID, evaluatorID uint, blindReviewEnabled bool) bool {
	switch {
	case !blindReviewEnabled:
		return false
	case viewerRole == models.RoleAdmin:
		return false
	case viewerID != 0 && viewerID == evaluatorID:
		return false
	}
	return true
}

// AnonymizeScoreEntry replaces the evaluator identity and keeps the score,
// comment and timestamps as they are.
func AnonymizeScoreEntry(entry ScoreEntry) ScoreEntry {
	entry.EvaluatorID = AnonymousUserID
	entry.EvaluatorName = AnonymousEvaluatorName
	entry.IsAnonymized = true
	return entry
}

const (
	ProgressDetailFull    = "full"
	ProgressDetailSummary = "summary"
)

// ProgressEvent is one timeline entry. Summary views carry only the
// destination stage name and the timestamp.
type ProgressEvent struct {
	ID            *uint                `json:"id,omitempty"`
	Action        *models.ReviewAction `json:"action,omitempty"`
	FromStageID   *uint                `json:"from_stage_id,omitempty"`
	FromStageName *string              `json:"from_stage_name,omitempty"`
	ToStageID     *uint                `json:"to_stage_id,omitempty"`
	ToStageName   string               `json:"to_stage_name"`
	ActorID       *uint                `json:"actor_id,omitempty"`
	Comment       *string              `json:"evaluator_comment,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// ProgressView is an idea's review progress shaped for one viewer.
type ProgressView struct {
	IdeaID           uint                    `json:"idea_id"`
	Detail           string                  `json:"detail"`
	InReview         bool                    `json:"in_review"`
	CurrentStageName string                  `json:"current_stage_name,omitempty"`
	StageCount       int                     `json:"stage_count,omitempty"`
	WorkflowID       *uint                   `json:"workflow_id,omitempty"`
	CurrentStageID   *uint                   `json:"current_stage_id,omitempty"`
	StateVersion     *int                    `json:"state_version,omitempty"`
	TerminalOutcome  *models.TerminalOutcome `json:"terminal_outcome,omitempty"`
	UpdatedAt        *time.Time              `json:"updated_at,omitempty"`
	Events           []ProgressEvent         `json:"events"`
}

// ShapeProgress builds the timeline view for role. Reviewers always get full
// detail; submitters get the summary until the review closes. state and
// workflow are nil for ideas that never entered staged review.
func ShapeProgress(ideaID uint, role models.Role, state *models.IdeaStageState, workflow *models.WorkflowWithStages, events []models.ReviewStageEvent) ProgressView {
	full := false
	switch role {
	case models.RoleAdmin, models.RoleEvaluator:
		full = true
	case models.RoleSubmitter:
		full = state != nil && state.IsTerminal()
	default:
		full = false
	}

	view := ProgressView{IdeaID: ideaID, Detail: ProgressDetailSummary, Events: []ProgressEvent{}}
	if full {
		view.Detail = ProgressDetailFull
	}
	if state == nil {
		return view
	}

	view.InReview = true
	stageName := func(id uint) string {
		if workflow == nil {
			return ""
		}
		return workflow.StageName(id)
	}
	view.CurrentStageName = stageName(state.CurrentStageID)
	if workflow != nil {
		view.StageCount = len(workflow.Stages)
	}

	if full {
		workflowID, stageID, version, updatedAt := state.WorkflowID, state.CurrentStageID, state.StateVersion, state.UpdatedAt
		view.WorkflowID = &workflowID
		view.CurrentStageID = &stageID
		view.StateVersion = &version
		view.TerminalOutcome = state.TerminalOutcome
		view.UpdatedAt = &updatedAt
	}

	for _, event := range events {
		entry := ProgressEvent{ToStageName: stageName(event.ToStageID), OccurredAt: event.OccurredAt}
		if full {
			id, action, toID, actorID := event.ID, event.Action, event.ToStageID, event.ActorID
			entry.ID = &id
			entry.Action = &action
			entry.ToStageID = &toID
			entry.ActorID = &actorID
			entry.Comment = event.EvaluatorComment
			if event.FromStageID != nil {
				fromID := *event.FromStageID
				fromName := stageName(fromID)
				entry.FromStageID = &fromID
				entry.FromStageName = &fromName
			}
		}
		view.Events = append(view.Events, entry)
	}
	return view
}
