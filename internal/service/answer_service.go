package service

import (
	"context"
	"fmt"
	"log"

	"linguaclash/internal/cache"
	"linguaclash/internal/model"
	"linguaclash/internal/repository"
)

// Scoring constants: every correct answer earns the base, answering
// within 10s earns up to maxTimeBonus extra, and a running streak of 2+
// correct answers earns the flat streak bonus.
const (
	basePoints     = 10
	maxTimeBonusMs = 10000
	streakBonus    = 5
	minStreakRun   = 2
)

// AnswerService validates and scores submitted answers and advances the
// shared question pointer once every player has answered.
type AnswerService struct {
	sessionRepo    repository.SessionRepo
	curriculumRepo repository.CurriculumRepo
	sessionCache   cache.SessionCache
	leaderboard    cache.LeaderboardCache
	resultsSvc     *ResultsService
	locks          *KeyedMutex
	broadcaster    Broadcaster
}

// NewAnswerService creates a new answer service
func NewAnswerService(
	sessionRepo repository.SessionRepo,
	curriculumRepo repository.CurriculumRepo,
	sessionCache cache.SessionCache,
	leaderboard cache.LeaderboardCache,
	resultsSvc *ResultsService,
	locks *KeyedMutex,
) *AnswerService {
	return &AnswerService{
		sessionRepo:    sessionRepo,
		curriculumRepo: curriculumRepo,
		sessionCache:   sessionCache,
		leaderboard:    leaderboard,
		resultsSvc:     resultsSvc,
		locks:          locks,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AnswerService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SubmitAnswer records one player's answer to the current question.
// A duplicate submission for a question the player has already answered
// returns the session unchanged; clients may deliver at-least-once.
func (s *AnswerService) SubmitAnswer(ctx context.Context, code, userID, questionID string, answerIndex, timeTakenMs int) (*model.GameSession, error) {
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	session, err := s.sessionRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	player := session.FindPlayer(userID)
	if player == nil {
		return nil, ErrPlayerNotInSession
	}

	current := session.CurrentQuestionIndex
	if current >= len(session.Questions) || session.Questions[current].ID() != questionID {
		return nil, ErrQuestionMismatch
	}

	// Already answered this question: absorb the duplicate.
	if player.ProgressIndex > current {
		return session, nil
	}

	correct, err := s.isCorrect(ctx, session.Questions[current], answerIndex)
	if err != nil {
		return nil, err
	}

	if correct {
		points := basePoints + timeBonus(timeTakenMs)
		if player.Streak >= minStreakRun {
			points += streakBonus
		}
		player.Score += points
		player.Streak++
	} else {
		player.Streak = 0
	}
	player.ProgressIndex = current + 1

	if err := s.leaderboard.UpdateScore(ctx, code, userID, player.Score); err != nil {
		log.Printf("leaderboard update failed for session %s: %v", code, err)
	}

	finished := false
	if session.AllAnswered(current) {
		if current == len(session.Questions)-1 {
			session.Status = model.SessionFinished
			finished = true
		} else {
			session.CurrentQuestionIndex = current + 1
		}
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("session cache write failed for %s: %v", code, err)
	}

	if finished {
		// The submission that completes the last round pays for the
		// aggregation; each per-player merge is idempotent, so a failed
		// finalize can be retried without double-awarding.
		if err := s.resultsSvc.Finalize(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to finalize results: %w", err)
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToSession(code, "game_finished", session)
		}
	} else if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(code, "session_update", session)
	}

	return session, nil
}

// isCorrect resolves the answer against the curriculum. A question the
// session references but the bank cannot produce is a configuration
// error, not a wrong answer.
func (s *AnswerService) isCorrect(ctx context.Context, ref model.QuestionRef, answerIndex int) (bool, error) {
	module, err := s.curriculumRepo.GetByID(ctx, ref.ModuleID)
	if err != nil {
		return false, fmt.Errorf("failed to load module %s: %w", ref.ModuleID, err)
	}
	if module == nil || ref.Index < 0 || ref.Index >= len(module.Questions) {
		return false, fmt.Errorf("question bank has no question %s", ref.ID())
	}
	return module.Questions[ref.Index].AnswerIndex == answerIndex, nil
}

func timeBonus(timeTakenMs int) int {
	bonus := (maxTimeBonusMs / 1000) - timeTakenMs/1000
	if bonus < 0 {
		return 0
	}
	return bonus
}
