package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"innovation-portal-api/models"
	"innovation-portal-api/monitor"
	"innovation-portal-api/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	adminID      uint = 1
	evaluatorAID uint = 2
	evaluatorBID uint = 3
	submitterID  uint = 10
	otherUserID  uint = 11
)

var (
	adminViewer     = Viewer{UserID: adminID, Role: models.RoleAdmin}
	evaluatorAView  = Viewer{UserID: evaluatorAID, Role: models.RoleEvaluator}
	evaluatorBView  = Viewer{UserID: evaluatorBID, Role: models.RoleEvaluator}
	submitterViewer = Viewer{UserID: submitterID, Role: models.RoleSubmitter}
	otherViewer     = Viewer{UserID: otherUserID, Role: models.RoleSubmitter}
)

// stepClock advances one second per reading so event order is stable.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// toggledEvents fails appends while fail is set.
type toggledEvents struct {
	repository.EventRepository
	mu   sync.Mutex
	fail bool
}

func (e *toggledEvents) setFail(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail = fail
}

func (e *toggledEvents) Append(ctx context.Context, event *models.ReviewStageEvent) error {
	e.mu.Lock()
	fail := e.fail
	e.mu.Unlock()
	if fail {
		return errors.New("event store unavailable")
	}
	return e.EventRepository.Append(ctx, event)
}

type decision struct {
	ideaID  uint
	outcome models.TerminalOutcome
}

type recordingNotifier struct {
	mu        sync.Mutex
	decisions []decision
}

func (n *recordingNotifier) NotifyDecision(_ context.Context, idea models.Idea, outcome models.TerminalOutcome) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, decision{ideaID: idea.ID, outcome: outcome})
	return nil
}

type testEnv struct {
	mem      *repository.MemoryStore
	store    *repository.Store
	events   *toggledEvents
	notifier *recordingNotifier

	workflows *WorkflowService
	settings  *SettingsService
	stages    *StageStateService
	scoring   *ScoringService
	ideas     *IdeaService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := repository.NewMemoryStore()
	for _, user := range []models.User{
		{UserID: adminID, Email: "admin@example.com", DisplayName: "Ada Admin", RoleName: "admin"},
		{UserID: evaluatorAID, Email: "eva@example.com", DisplayName: "Eva A", RoleName: "evaluator"},
		{UserID: evaluatorBID, Email: "evan@example.com", DisplayName: "Evan B", RoleName: "evaluator"},
		{UserID: submitterID, Email: "sam@example.com", DisplayName: "Sam Submitter", RoleName: "submitter"},
		{UserID: otherUserID, Email: "olive@example.com", DisplayName: "Olive Other", RoleName: "submitter"},
	} {
		mem.PutUser(user)
	}

	store := mem.Store()
	events := &toggledEvents{EventRepository: store.Events}
	store.Events = events

	clock := &stepClock{cur: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	metrics := monitor.NewMetrics(prometheus.NewRegistry())
	notifier := &recordingNotifier{}

	env := &testEnv{mem: mem, store: store, events: events, notifier: notifier}
	env.workflows = NewWorkflowService(store.Workflows, metrics, nil)
	env.workflows.now = clock.Now
	env.settings = NewSettingsService(store.Settings, nil)
	env.settings.now = clock.Now
	env.stages = NewStageStateService(store, notifier, metrics, nil)
	env.stages.now = clock.Now
	env.stages.dispatch = func(f func()) { f() }
	env.scoring = NewScoringService(store, env.settings, metrics, nil)
	env.scoring.now = clock.Now
	env.ideas = NewIdeaService(store, env.stages, env.scoring, env.settings, nil)
	env.ideas.now = clock.Now
	return env
}

func (e *testEnv) activate(t *testing.T, names ...string) *models.WorkflowWithStages {
	t.Helper()
	wf, err := e.workflows.CreateAndActivate(context.Background(), names, adminID)
	require.NoError(t, err)
	return wf
}

func (e *testEnv) draft(t *testing.T, owner uint, title string) *models.Idea {
	t.Helper()
	idea, err := e.ideas.Create(context.Background(), owner, IdeaInput{Title: title})
	require.NoError(t, err)
	return idea
}

// submitted creates and submits an idea, requiring it to be bound.
func (e *testEnv) submitted(t *testing.T, owner uint, title string) *models.Idea {
	t.Helper()
	idea := e.draft(t, owner, title)
	res, err := e.ideas.Submit(context.Background(), Viewer{UserID: owner, Role: models.RoleSubmitter}, idea.ID)
	require.NoError(t, err)
	require.True(t, res.Binding.Bound)
	return &res.Idea
}

func (e *testEnv) transition(ideaID uint, action models.ReviewAction, expected int) (*TransitionResult, error) {
	return e.stages.Transition(context.Background(), TransitionRequest{
		IdeaID:               ideaID,
		Action:               action,
		ExpectedStateVersion: expected,
		ActorID:              evaluatorAID,
	})
}

func (e *testEnv) state(t *testing.T, ideaID uint) *models.IdeaStageState {
	t.Helper()
	state, err := e.store.States.Get(context.Background(), ideaID)
	require.NoError(t, err)
	return state
}

func (e *testEnv) eventsFor(t *testing.T, ideaID uint) []models.ReviewStageEvent {
	t.Helper()
	events, err := e.store.Events.ListForIdea(context.Background(), ideaID)
	require.NoError(t, err)
	return events
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
