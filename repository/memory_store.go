package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"innovation-portal-api/models"
)

// MemoryStore keeps every table in process memory behind a single mutex.
// It backs tests and the DB_DRIVER=memory development mode.
type MemoryStore struct {
	mu sync.RWMutex

	nextID    uint
	workflows map[uint]models.ReviewWorkflow
	stages    map[uint][]models.ReviewStage
	states    map[uint]models.IdeaStageState
	events    []models.ReviewStageEvent
	scores    map[scoreKey]models.IdeaScore
	settings  map[string]models.PortalSetting
	ideas     map[uint]models.Idea
	users     map[uint]models.User
}

type scoreKey struct {
	ideaID      uint
	evaluatorID uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workflows: make(map[uint]models.ReviewWorkflow),
		stages:    make(map[uint][]models.ReviewStage),
		states:    make(map[uint]models.IdeaStageState),
		scores:    make(map[scoreKey]models.IdeaScore),
		settings:  make(map[string]models.PortalSetting),
		ideas:     make(map[uint]models.Idea),
		users:     make(map[uint]models.User),
	}
}

// Store exposes the memory tables through the repository ports.
func (m *MemoryStore) Store() *Store {
	return &Store{
		Workflows: memoryWorkflows{m},
		States:    memoryStates{m},
		Events:    memoryEvents{m},
		Scores:    memoryScores{m},
		Settings:  memorySettings{m},
		Ideas:     memoryIdeas{m},
		Users:     memoryUsers{m},
	}
}

// PutUser seeds the user directory.
func (m *MemoryStore) PutUser(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.UserID] = user
}

// ActiveWorkflowCount reports how many workflows are flagged active.
func (m *MemoryStore) ActiveWorkflowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, wf := range m.workflows {
		if wf.IsActive {
			count++
		}
	}
	return count
}

func (m *MemoryStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *MemoryStore) workflowWithStages(wf models.ReviewWorkflow) *models.WorkflowWithStages {
	stages := make([]models.ReviewStage, len(m.stages[wf.ID]))
	copy(stages, m.stages[wf.ID])
	sort.Slice(stages, func(i, j int) bool { return stages[i].Position < stages[j].Position })
	return &models.WorkflowWithStages{ReviewWorkflow: wf, Stages: stages}
}

type memoryWorkflows struct{ m *MemoryStore }

func (r memoryWorkflows) FindActive(_ context.Context) (*models.WorkflowWithStages, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var found *models.ReviewWorkflow
	for _, wf := range r.m.workflows {
		if !wf.IsActive {
			continue
		}
		if found == nil || wf.Version > found.Version {
			candidate := wf
			found = &candidate
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return r.m.workflowWithStages(*found), nil
}

func (r memoryWorkflows) FindByID(_ context.Context, id uint) (*models.WorkflowWithStages, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	wf, ok := r.m.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.m.workflowWithStages(wf), nil
}

func (r memoryWorkflows) CreateAndActivate(_ context.Context, stageNames []string, createdBy uint, activatedAt time.Time) (*models.WorkflowWithStages, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	maxVersion := 0
	for id, wf := range r.m.workflows {
		if wf.Version > maxVersion {
			maxVersion = wf.Version
		}
		if wf.IsActive {
			wf.IsActive = false
			r.m.workflows[id] = wf
		}
	}

	activated := activatedAt
	wf := models.ReviewWorkflow{
		ID:          r.m.id(),
		Version:     maxVersion + 1,
		IsActive:    true,
		CreatedBy:   createdBy,
		ActivatedAt: &activated,
		CreatedAt:   activatedAt,
	}
	stages := make([]models.ReviewStage, len(stageNames))
	for i, name := range stageNames {
		stages[i] = models.ReviewStage{ID: r.m.id(), WorkflowID: wf.ID, Name: name, Position: i + 1}
	}
	r.m.workflows[wf.ID] = wf
	r.m.stages[wf.ID] = stages
	return r.m.workflowWithStages(wf), nil
}

type memoryStates struct{ m *MemoryStore }

func (r memoryStates) Get(_ context.Context, ideaID uint) (*models.IdeaStageState, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	state, ok := r.m.states[ideaID]
	if !ok {
		return nil, ErrNotFound
	}
	return &state, nil
}

func (r memoryStates) GetMany(_ context.Context, ideaIDs []uint) (map[uint]models.IdeaStageState, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	result := make(map[uint]models.IdeaStageState, len(ideaIDs))
	for _, id := range ideaIDs {
		if state, ok := r.m.states[id]; ok {
			result[id] = state
		}
	}
	return result, nil
}

func (r memoryStates) Create(_ context.Context, state *models.IdeaStageState) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.states[state.IdeaID]; exists {
		return ErrAlreadyExists
	}
	r.m.states[state.IdeaID] = *state
	return nil
}

func (r memoryStates) CompareAndSwap(_ context.Context, next *models.IdeaStageState, expectedVersion int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.states[next.IdeaID]
	if !ok || current.StateVersion != expectedVersion {
		return ErrVersionConflict
	}
	r.m.states[next.IdeaID] = *next
	return nil
}

type memoryEvents struct{ m *MemoryStore }

func (r memoryEvents) Append(_ context.Context, event *models.ReviewStageEvent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	event.ID = r.m.id()
	r.m.events = append(r.m.events, *event)
	return nil
}

func (r memoryEvents) ListForIdea(_ context.Context, ideaID uint) ([]models.ReviewStageEvent, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var result []models.ReviewStageEvent
	for _, event := range r.m.events {
		if event.IdeaID == ideaID {
			result = append(result, event)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].OccurredAt.Equal(result[j].OccurredAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].OccurredAt.Before(result[j].OccurredAt)
	})
	return result, nil
}

type memoryScores struct{ m *MemoryStore }

func (r memoryScores) Upsert(_ context.Context, score *models.IdeaScore) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := scoreKey{ideaID: score.IdeaID, evaluatorID: score.EvaluatorID}
	if existing, ok := r.m.scores[key]; ok {
		existing.Score = score.Score
		existing.Comment = score.Comment
		existing.UpdatedAt = score.UpdatedAt
		r.m.scores[key] = existing
		*score = existing
		return nil
	}
	score.ID = r.m.id()
	r.m.scores[key] = *score
	return nil
}

func (r memoryScores) ListForIdea(_ context.Context, ideaID uint) ([]models.IdeaScore, error) {
	return r.list(func(s models.IdeaScore) bool { return s.IdeaID == ideaID }), nil
}

func (r memoryScores) ListForIdeas(_ context.Context, ideaIDs []uint) ([]models.IdeaScore, error) {
	wanted := make(map[uint]struct{}, len(ideaIDs))
	for _, id := range ideaIDs {
		wanted[id] = struct{}{}
	}
	return r.list(func(s models.IdeaScore) bool {
		_, ok := wanted[s.IdeaID]
		return ok
	}), nil
}

func (r memoryScores) list(keep func(models.IdeaScore) bool) []models.IdeaScore {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var result []models.IdeaScore
	for _, score := range r.m.scores {
		if keep(score) {
			result = append(result, score)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

type memorySettings struct{ m *MemoryStore }

func (r memorySettings) Get(_ context.Context, key string) (*models.PortalSetting, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	setting, ok := r.m.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &setting, nil
}

func (r memorySettings) Put(_ context.Context, setting *models.PortalSetting) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.settings[setting.Key] = *setting
	return nil
}

type memoryIdeas struct{ m *MemoryStore }

func (r memoryIdeas) Get(_ context.Context, id uint) (*models.Idea, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	idea, ok := r.m.ideas[id]
	if !ok || idea.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return &idea, nil
}

func (r memoryIdeas) Create(_ context.Context, idea *models.Idea) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if idea.ID == 0 {
		idea.ID = r.m.id()
	} else if _, exists := r.m.ideas[idea.ID]; exists {
		return ErrAlreadyExists
	} else if idea.ID > r.m.nextID {
		r.m.nextID = idea.ID
	}
	now := time.Now().UTC()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	r.m.ideas[idea.ID] = *idea
	return nil
}

func (r memoryIdeas) UpdateStatus(_ context.Context, id uint, status models.IdeaStatus, submittedAt *time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	idea, ok := r.m.ideas[id]
	if !ok || idea.DeletedAt != nil {
		return ErrNotFound
	}
	idea.Status = status
	if submittedAt != nil {
		at := *submittedAt
		idea.SubmittedAt = &at
	}
	idea.UpdatedAt = time.Now().UTC()
	r.m.ideas[id] = idea
	return nil
}

func (r memoryIdeas) MarkSubmitted(_ context.Context, id uint, submittedAt time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	idea, ok := r.m.ideas[id]
	if !ok || idea.DeletedAt != nil {
		return ErrNotFound
	}
	if !idea.IsDraft() {
		return ErrStatusChanged
	}
	at := submittedAt
	idea.Status = models.IdeaStatusSubmitted
	idea.SubmittedAt = &at
	idea.UpdatedAt = time.Now().UTC()
	r.m.ideas[id] = idea
	return nil
}

func (r memoryIdeas) List(_ context.Context, filter IdeaListFilter) ([]models.Idea, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var matched []models.Idea
	for _, idea := range r.m.ideas {
		if idea.DeletedAt != nil {
			continue
		}
		if idea.IsDraft() && idea.UserID != filter.DraftOwnerID {
			continue
		}
		if filter.OwnerID != nil && idea.UserID != *filter.OwnerID {
			continue
		}
		matched = append(matched, idea)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Idea{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Get(_ context.Context, id uint) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	user, ok := r.m.users[id]
	if !ok || user.DeleteAt != nil {
		return nil, ErrNotFound
	}
	return &user, nil
}
