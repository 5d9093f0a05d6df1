package services

import (
	"context"
	"errors"
	"math"
	"time"

	"innovation-portal-api/models"
	"innovation-portal-api/monitor"
	"innovation-portal-api/repository"

	"go.uber.org/zap"
)

// ScoreAggregate is the average and count of an idea's scores. AvgScore is
// nil when there are no scores.
type ScoreAggregate struct {
	AvgScore   *float64 `json:"avg_score"`
	ScoreCount int      `json:"score_count"`
}

// computeAggregate rounds the mean to one decimal place.
func computeAggregate(scores []int) ScoreAggregate {
	if len(scores) == 0 {
		return ScoreAggregate{}
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	avg := math.Round(float64(sum)/float64(len(scores))*10) / 10
	return ScoreAggregate{AvgScore: &avg, ScoreCount: len(scores)}
}

// ScoringService stores evaluator scores and gates who may score.
type ScoringService struct {
	ideas    repository.IdeaRepository
	states   repository.StageStateRepository
	scores   repository.ScoreRepository
	users    repository.UserRepository
	settings *SettingsService
	metrics  *monitor.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewScoringService(store *repository.Store, settings *SettingsService, metrics *monitor.Metrics, logger *zap.Logger) *ScoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		ideas:    store.Ideas,
		states:   store.States,
		scores:   store.Scores,
		users:    store.Users,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
		now:      utcNow,
	}
}

// CheckEligibility fails closed. Ideas with a stage state are scorable until
// terminal; ideas without one only while their status is under_review.
func (s *ScoringService) CheckEligibility(ctx context.Context, ideaID uint) error {
	idea, err := s.ideas.Get(ctx, ideaID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("idea not found")
	}
	if err != nil {
		return storage("failed to load idea", err)
	}

	state, err := s.states.Get(ctx, ideaID)
	switch {
	case err == nil:
		if state.IsTerminal() {
			return forbidden("review is closed for this idea")
		}
		return nil
	case errors.Is(err, repository.ErrNotFound):
		if idea.Status == models.IdeaStatusUnderReview {
			return nil
		}
		return &ServiceError{Kind: KindNotUnderReview, Message: "idea is not under review"}
	default:
		return storage("failed to load stage state", err)
	}
}

// Upsert inserts or replaces the evaluator's score for the idea. Callers
// check eligibility first.
func (s *ScoringService) Upsert(ctx context.Context, ideaID, evaluatorID uint, score int, comment *string) (*models.IdeaScore, error) {
	now := s.now()
	row := &models.IdeaScore{
		IdeaID:      ideaID,
		EvaluatorID: evaluatorID,
		Score:       score,
		Comment:     comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.scores.Upsert(ctx, row); err != nil {
		return nil, storage("failed to save score", err)
	}
	s.metrics.ObserveScoreUpsert()
	s.logger.Info("idea scored", zap.Uint("idea_id", ideaID), zap.Uint("evaluator_id", evaluatorID), zap.Int("score", score))
	return row, nil
}

// Submit checks eligibility and stores the score, returning the caller's own
// entry and the new aggregate.
func (s *ScoringService) Submit(ctx context.Context, ideaID, evaluatorID uint, score int, comment *string) (*ScoreEntry, ScoreAggregate, error) {
	if err := s.CheckEligibility(ctx, ideaID); err != nil {
		return nil, ScoreAggregate{}, err
	}
	row, err := s.Upsert(ctx, ideaID, evaluatorID, score, comment)
	if err != nil {
		return nil, ScoreAggregate{}, err
	}
	agg, err := s.Aggregate(ctx, ideaID)
	if err != nil {
		return nil, ScoreAggregate{}, err
	}
	entry := NewScoreEntry(*row, "")
	return &entry, agg, nil
}

// ListForIdea returns the idea's scores ordered by creation time.
func (s *ScoringService) ListForIdea(ctx context.Context, ideaID uint) ([]models.IdeaScore, error) {
	rows, err := s.scores.ListForIdea(ctx, ideaID)
	if err != nil {
		return nil, storage("failed to load scores", err)
	}
	return rows, nil
}

func (s *ScoringService) Aggregate(ctx context.Context, ideaID uint) (ScoreAggregate, error) {
	rows, err := s.ListForIdea(ctx, ideaID)
	if err != nil {
		return ScoreAggregate{}, err
	}
	values := make([]int, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Score)
	}
	return computeAggregate(values), nil
}

// AggregateMany computes aggregates for several ideas in one query. Ideas
// without scores map to the empty aggregate.
func (s *ScoringService) AggregateMany(ctx context.Context, ideaIDs []uint) (map[uint]ScoreAggregate, error) {
	result := make(map[uint]ScoreAggregate, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return result, nil
	}
	rows, err := s.scores.ListForIdeas(ctx, ideaIDs)
	if err != nil {
		return nil, storage("failed to load scores", err)
	}
	grouped := make(map[uint][]int, len(ideaIDs))
	for _, row := range rows {
		grouped[row.IdeaID] = append(grouped[row.IdeaID], row.Score)
	}
	for _, id := range ideaIDs {
		result[id] = computeAggregate(grouped[id])
	}
	return result, nil
}

// IdeaScores is the score listing of one idea as shown to a viewer.
type IdeaScores struct {
	IdeaID    uint           `json:"idea_id"`
	Scores    []ScoreEntry   `json:"scores"`
	Aggregate ScoreAggregate `json:"aggregate"`
}

// ListVisible returns the idea's scores with evaluator identities masked
// per entry for the viewer. Reviewers and the idea owner may read scores.
func (s *ScoringService) ListVisible(ctx context.Context, viewer Viewer, ideaID uint) (*IdeaScores, error) {
	idea, err := s.ideas.Get(ctx, ideaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("idea not found")
	}
	if err != nil {
		return nil, storage("failed to load idea", err)
	}
	if err := authorizeIdeaRead(viewer, idea); err != nil {
		return nil, err
	}

	blind, err := s.settings.BlindReviewEnabled(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.ListForIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	names := newNameCache(s.users, s.logger)
	out := &IdeaScores{IdeaID: ideaID, Scores: make([]ScoreEntry, 0, len(rows))}
	values := make([]int, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Score)
		if ShouldAnonymizeEvaluator(viewer.Role, viewer.UserID, row.EvaluatorID, blind) {
			out.Scores = append(out.Scores, AnonymizeScoreEntry(NewScoreEntry(row, "")))
			continue
		}
		out.Scores = append(out.Scores, NewScoreEntry(row, names.lookup(ctx, row.EvaluatorID)))
	}
	out.Aggregate = computeAggregate(values)
	return out, nil
}

// nameCache resolves display names once per request.
type nameCache struct {
	users  repository.UserRepository
	logger *zap.Logger
	names  map[uint]string
}

func newNameCache(users repository.UserRepository, logger *zap.Logger) *nameCache {
	return &nameCache{users: users, logger: logger, names: make(map[uint]string)}
}

func (c *nameCache) lookup(ctx context.Context, userID uint) string {
	if name, ok := c.names[userID]; ok {
		return name
	}
	name := ""
	user, err := c.users.Get(ctx, userID)
	switch {
	case err == nil:
		name = user.DisplayName
	case !errors.Is(err, repository.ErrNotFound):
		c.logger.Warn("user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.names[userID] = name
	return name
}
