package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	mathrand "math/rand"
	"time"

	"linguaclash/internal/cache"
	"linguaclash/internal/model"
	"linguaclash/internal/repository"
)

// SessionService handles game session lifecycle: create, join, start, read
type SessionService struct {
	sessionRepo    repository.SessionRepo
	curriculumRepo repository.CurriculumRepo
	sessionCache   cache.SessionCache
	leaderboard    cache.LeaderboardCache
	locks          *KeyedMutex
	broadcaster    Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepo,
	curriculumRepo repository.CurriculumRepo,
	sessionCache cache.SessionCache,
	leaderboard cache.LeaderboardCache,
	locks *KeyedMutex,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		curriculumRepo: curriculumRepo,
		sessionCache:   sessionCache,
		leaderboard:    leaderboard,
		locks:          locks,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateSession creates a new waiting session with the host as sole player
func (s *SessionService) CreateSession(ctx context.Context, hostID, hostName, language string) (*model.GameSession, error) {
	code, err := s.generateSessionCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session code: %w", err)
	}

	session := &model.GameSession{
		Code:   code,
		HostID: hostID,
		Status: model.SessionWaiting,
		Players: []model.Player{{
			ID:       hostID,
			Name:     hostName,
			Language: language,
			JoinedAt: time.Now(),
		}},
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.writeThrough(ctx, session)
	if err := s.leaderboard.UpdateScore(ctx, code, hostID, 0); err != nil {
		log.Printf("leaderboard init failed for session %s: %v", code, err)
	}

	return session, nil
}

// JoinSession admits a player into a waiting session. Joining again with
// the same user id returns the session unchanged, so reconnects are safe.
func (s *SessionService) JoinSession(ctx context.Context, code, userID, userName, language string) (*model.GameSession, error) {
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	session, err := s.sessionRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.FindPlayer(userID) != nil {
		return session, nil
	}

	if session.Status != model.SessionWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(session.Players) >= model.MaxPlayers {
		return nil, ErrSessionFull
	}

	session.Players = append(session.Players, model.Player{
		ID:       userID,
		Name:     userName,
		Language: language,
		JoinedAt: time.Now(),
	})

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.writeThrough(ctx, session)
	if err := s.leaderboard.UpdateScore(ctx, code, userID, 0); err != nil {
		log.Printf("leaderboard init failed for session %s: %v", code, err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(code, "session_update", session)
	}

	return session, nil
}

// StartSession deals the question set and opens play. Only the host may
// start, and only from the waiting state.
func (s *SessionService) StartSession(ctx context.Context, code, requesterID string) (*model.GameSession, error) {
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	session, err := s.sessionRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.HostID != requesterID {
		return nil, ErrNotHost
	}
	if session.Status != model.SessionWaiting {
		return nil, ErrAlreadyStarted
	}

	questions, err := s.drawQuestions(ctx, model.QuestionsPerGame)
	if err != nil {
		return nil, err
	}

	session.Status = model.SessionInProgress
	session.Questions = questions
	session.CurrentQuestionIndex = 0
	for i := range session.Players {
		session.Players[i].ProgressIndex = 0
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.writeThrough(ctx, session)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(code, "game_started", session)
	}

	return session, nil
}

// GetSession returns a snapshot for client polling, preferring the Redis
// copy over MongoDB.
func (s *SessionService) GetSession(ctx context.Context, code string) (*model.GameSession, error) {
	session, err := s.sessionCache.Get(ctx, code)
	if err != nil {
		log.Printf("session cache read failed for %s: %v", code, err)
	}
	if session != nil {
		return session, nil
	}

	session, err = s.sessionRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// drawQuestions selects n distinct multiple-choice questions uniformly at
// random across the whole curriculum.
func (s *SessionService) drawQuestions(ctx context.Context, n int) ([]model.QuestionRef, error) {
	modules, err := s.curriculumRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load curriculum: %w", err)
	}

	var eligible []model.QuestionRef
	for _, m := range modules {
		for i, q := range m.Questions {
			if q.Type == model.QuestionTypeMultipleChoice {
				eligible = append(eligible, model.QuestionRef{ModuleID: m.ID, Index: i})
			}
		}
	}

	if len(eligible) < n {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughQuestions, len(eligible), n)
	}

	mathrand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	return eligible[:n], nil
}

// writeThrough refreshes the Redis snapshot; the MongoDB record is the
// source of truth, so a cache failure is only logged.
func (s *SessionService) writeThrough(ctx context.Context, session *model.GameSession) {
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("session cache write failed for %s: %v", session.Code, err)
	}
}

// generateSessionCode creates a 6-char code, collision-checked against the store
func (s *SessionService) generateSessionCode(ctx context.Context) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		exists, err := s.sessionRepo.Exists(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if !exists {
			return codeStr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique session code")
}
