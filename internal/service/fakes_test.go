package service

import (
	"context"
	"fmt"
	"sync"

	"linguaclash/internal/cache"
	"linguaclash/internal/model"
)

// cloneSession keeps fake storage value-semantic so tests observe only
// what the services persisted.
func cloneSession(s *model.GameSession) *model.GameSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Players = append([]model.Player(nil), s.Players...)
	c.Questions = append([]model.QuestionRef(nil), s.Questions...)
	return &c
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.GameSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.GameSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *model.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.Code]; ok {
		return fmt.Errorf("duplicate session code %s", session.Code)
	}
	r.sessions[session.Code] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) GetByCode(ctx context.Context, code string) (*model.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSession(r.sessions[code]), nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *model.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.Code]; !ok {
		return fmt.Errorf("session %s does not exist", session.Code)
	}
	r.sessions[session.Code] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) Exists(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[code]
	return ok, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	merges   map[string]bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]*model.Profile),
		merges:   make(map[string]bool),
	}
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	c := *p
	c.Badges = append([]string(nil), p.Badges...)
	return &c, nil
}

func (r *fakeProfileRepo) ApplyMerge(ctx context.Context, sessionCode, userID string, delta model.ProfileDelta) (*model.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledgerID := sessionCode + ":" + userID
	if r.merges[ledgerID] {
		p := r.profiles[userID]
		if p == nil {
			return nil, false, nil
		}
		c := *p
		return &c, false, nil
	}
	r.merges[ledgerID] = true

	p, ok := r.profiles[userID]
	if !ok {
		p = &model.Profile{UserID: userID}
		r.profiles[userID] = p
	}
	p.Points += delta.Points
	p.GamesPlayed += delta.GamesPlayed
	p.Wins += delta.Wins

	c := *p
	c.Badges = append([]string(nil), p.Badges...)
	return &c, true, nil
}

func (r *fakeProfileRepo) AddBadges(ctx context.Context, userID string, badges []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = &model.Profile{UserID: userID}
		r.profiles[userID] = p
	}
	for _, b := range badges {
		if !p.HasBadge(b) {
			p.Badges = append(p.Badges, b)
		}
	}
	return nil
}

type fakeCurriculumRepo struct {
	modules []*model.CurriculumModule
}

func (r *fakeCurriculumRepo) Create(ctx context.Context, module *model.CurriculumModule) error {
	r.modules = append(r.modules, module)
	return nil
}

func (r *fakeCurriculumRepo) GetByID(ctx context.Context, id string) (*model.CurriculumModule, error) {
	for _, m := range r.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeCurriculumRepo) GetAll(ctx context.Context) ([]*model.CurriculumModule, error) {
	return r.modules, nil
}

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.GameSession
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: make(map[string]*model.GameSession)}
}

func (c *fakeSessionCache) Set(ctx context.Context, session *model.GameSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.Code] = cloneSession(session)
	return nil
}

func (c *fakeSessionCache) Get(ctx context.Context, code string) (*model.GameSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSession(c.sessions[code]), nil
}

func (c *fakeSessionCache) Delete(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, code)
	return nil
}

type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]map[string]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[string]map[string]int)}
}

func (l *fakeLeaderboard) UpdateScore(ctx context.Context, sessionCode, playerID string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.scores[sessionCode] == nil {
		l.scores[sessionCode] = make(map[string]int)
	}
	l.scores[sessionCode][playerID] = score
	return nil
}

func (l *fakeLeaderboard) GetTop(ctx context.Context, sessionCode string, limit int) ([]cache.LeaderboardEntry, error) {
	return nil, nil
}

func (l *fakeLeaderboard) GetRank(ctx context.Context, sessionCode, playerID string) (int64, error) {
	return -1, nil
}

// testEnv wires the services against in-memory fakes.
type testEnv struct {
	sessionRepo *fakeSessionRepo
	profileRepo *fakeProfileRepo
	curriculum  *fakeCurriculumRepo
	cache       *fakeSessionCache
	leaderboard *fakeLeaderboard
	sessionSvc  *SessionService
	answerSvc   *AnswerService
	resultsSvc  *ResultsService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sessionRepo: newFakeSessionRepo(),
		profileRepo: newFakeProfileRepo(),
		curriculum:  &fakeCurriculumRepo{},
		cache:       newFakeSessionCache(),
		leaderboard: newFakeLeaderboard(),
	}

	locks := NewKeyedMutex()
	env.resultsSvc = NewResultsService(env.profileRepo)
	env.sessionSvc = NewSessionService(env.sessionRepo, env.curriculum, env.cache, env.leaderboard, locks)
	env.answerSvc = NewAnswerService(env.sessionRepo, env.curriculum, env.cache, env.leaderboard, env.resultsSvc, locks)
	return env
}

// seedCurriculum installs modules with enough multiple-choice questions
// for a full game. Every question's correct answer is option 0.
func (env *testEnv) seedCurriculum(questionsPerModule, moduleCount int) {
	for m := 0; m < moduleCount; m++ {
		module := &model.CurriculumModule{
			ID:       fmt.Sprintf("module-%d", m),
			Title:    fmt.Sprintf("Module %d", m),
			Language: "es",
		}
		for q := 0; q < questionsPerModule; q++ {
			module.Questions = append(module.Questions, model.BankQuestion{
				Prompt:      fmt.Sprintf("question %d", q),
				Options:     []string{"right", "wrong", "wrong", "wrong"},
				AnswerIndex: 0,
				Type:        model.QuestionTypeMultipleChoice,
			})
		}
		env.curriculum.Create(context.Background(), module)
	}
}
