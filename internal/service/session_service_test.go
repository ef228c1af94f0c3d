package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"linguaclash/internal/model"
)

func TestCreateSession(t *testing.T) {
	env := newTestEnv()

	session, err := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if len(session.Code) != 6 {
		t.Fatalf("expected 6-char code, got %q", session.Code)
	}
	if session.Status != model.SessionWaiting {
		t.Fatalf("expected waiting status, got %q", session.Status)
	}
	if session.HostID != "u_host" {
		t.Fatalf("expected host u_host, got %q", session.HostID)
	}
	if len(session.Players) != 1 {
		t.Fatalf("expected host as sole player, got %d players", len(session.Players))
	}
	host := session.Players[0]
	if host.ID != "u_host" || host.Name != "Ana" || host.Language != "es" {
		t.Fatalf("unexpected host player %+v", host)
	}
	if host.Score != 0 || host.ProgressIndex != 0 || host.Streak != 0 {
		t.Fatalf("expected zeroed counters, got %+v", host)
	}
	if len(session.Questions) != 0 {
		t.Fatalf("expected no questions before start, got %d", len(session.Questions))
	}
}

func TestCreateSessionCodesAreUnique(t *testing.T) {
	env := newTestEnv()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := env.sessionSvc.CreateSession(context.Background(), fmt.Sprintf("u_%d", i), "Host", "es")
		if err != nil {
			t.Fatalf("create session %d: %v", i, err)
		}
		if seen[session.Code] {
			t.Fatalf("duplicate code %s", session.Code)
		}
		seen[session.Code] = true
	}
}

func TestJoinSession(t *testing.T) {
	env := newTestEnv()
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")

	joined, err := env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")
	if err != nil {
		t.Fatalf("join session: %v", err)
	}

	if len(joined.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(joined.Players))
	}
	p := joined.Players[1]
	if p.ID != "u_bob" || p.Name != "Bob" || p.Language != "en" {
		t.Fatalf("unexpected joined player %+v", p)
	}
	if p.Score != 0 || p.ProgressIndex != 0 || p.Streak != 0 {
		t.Fatalf("expected zeroed counters, got %+v", p)
	}
}

func TestJoinSessionIdempotent(t *testing.T) {
	env := newTestEnv()
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	first, err := env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")
	if err != nil {
		t.Fatalf("join session: %v", err)
	}

	second, err := env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")
	if err != nil {
		t.Fatalf("rejoin session: %v", err)
	}
	if len(second.Players) != len(first.Players) {
		t.Fatalf("rejoin changed player count: %d vs %d", len(second.Players), len(first.Players))
	}
}

func TestJoinSessionNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.sessionSvc.JoinSession(context.Background(), "ZZZZZZ", "u_bob", "Bob", "en")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestJoinSessionAlreadyStarted(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(5, 2)
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	if _, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_host"); err != nil {
		t.Fatalf("start session: %v", err)
	}

	_, err := env.sessionSvc.JoinSession(context.Background(), session.Code, "u_late", "Late", "en")
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestJoinSessionAfterStartIsIdempotentForKnownPlayer(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(5, 2)
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")
	env.sessionSvc.StartSession(context.Background(), session.Code, "u_host")

	// Reconnecting client re-sends join after the game started
	rejoined, err := env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")
	if err != nil {
		t.Fatalf("rejoin after start: %v", err)
	}
	if rejoined.Status != model.SessionInProgress {
		t.Fatalf("expected in_progress, got %q", rejoined.Status)
	}
	if len(rejoined.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(rejoined.Players))
	}
}

func TestJoinSessionFull(t *testing.T) {
	env := newTestEnv()
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")

	for i := 1; i < model.MaxPlayers; i++ {
		if _, err := env.sessionSvc.JoinSession(context.Background(), session.Code, fmt.Sprintf("u_%d", i), fmt.Sprintf("P%d", i), "en"); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	_, err := env.sessionSvc.JoinSession(context.Background(), session.Code, "u_eleventh", "Nope", "en")
	if !errors.Is(err, ErrSessionFull) {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}
}

func TestStartSessionDealsQuestions(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(4, 3) // 12 eligible questions
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")

	started, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_host")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	if started.Status != model.SessionInProgress {
		t.Fatalf("expected in_progress, got %q", started.Status)
	}
	if len(started.Questions) != model.QuestionsPerGame {
		t.Fatalf("expected %d questions, got %d", model.QuestionsPerGame, len(started.Questions))
	}
	if started.CurrentQuestionIndex != 0 {
		t.Fatalf("expected question index 0, got %d", started.CurrentQuestionIndex)
	}

	// No duplicates in the draw
	seen := make(map[string]bool)
	for _, q := range started.Questions {
		if seen[q.ID()] {
			t.Fatalf("duplicate question %s in draw", q.ID())
		}
		seen[q.ID()] = true
	}

	for _, p := range started.Players {
		if p.ProgressIndex != 0 {
			t.Fatalf("expected progress reset for %s, got %d", p.ID, p.ProgressIndex)
		}
	}
}

func TestStartSessionSkipsIneligibleQuestions(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(5, 1)
	env.curriculum.Create(context.Background(), &model.CurriculumModule{
		ID: "essays",
		Questions: []model.BankQuestion{
			{Prompt: "Describe your day.", Type: model.QuestionTypeFreeText},
		},
	})
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")

	started, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_host")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	for _, q := range started.Questions {
		if q.ModuleID == "essays" {
			t.Fatalf("free-text question drawn into game: %s", q.ID())
		}
	}
}

func TestStartSessionNotHost(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(5, 2)
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	env.sessionSvc.JoinSession(context.Background(), session.Code, "u_bob", "Bob", "en")

	_, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_bob")
	if !errors.Is(err, ErrNotHost) {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}

	// Session must be untouched
	stored, _ := env.sessionRepo.GetByCode(context.Background(), session.Code)
	if stored.Status != model.SessionWaiting {
		t.Fatalf("expected waiting after rejected start, got %q", stored.Status)
	}
	if len(stored.Questions) != 0 {
		t.Fatalf("expected no questions after rejected start, got %d", len(stored.Questions))
	}
}

func TestStartSessionAlreadyStarted(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(5, 2)
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")
	if _, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_host"); err != nil {
		t.Fatalf("start session: %v", err)
	}

	_, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_host")
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestStartSessionNotEnoughQuestions(t *testing.T) {
	env := newTestEnv()
	env.seedCurriculum(model.QuestionsPerGame-1, 1)
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")

	_, err := env.sessionSvc.StartSession(context.Background(), session.Code, "u_host")
	if !errors.Is(err, ErrNotEnoughQuestions) {
		t.Fatalf("expected ErrNotEnoughQuestions, got %v", err)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.sessionSvc.GetSession(context.Background(), "ZZZZZZ")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGetSessionReturnsSnapshot(t *testing.T) {
	env := newTestEnv()
	session, _ := env.sessionSvc.CreateSession(context.Background(), "u_host", "Ana", "es")

	got, err := env.sessionSvc.GetSession(context.Background(), session.Code)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Code != session.Code || len(got.Players) != 1 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}
