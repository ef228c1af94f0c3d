package model

import (
	"fmt"
	"time"
)

type SessionStatus string

const (
	SessionWaiting    SessionStatus = "waiting"
	SessionInProgress SessionStatus = "in_progress"
	SessionFinished   SessionStatus = "finished"
)

// MaxPlayers caps how many players a single session admits.
const MaxPlayers = 10

// QuestionsPerGame is how many questions are dealt at start.
const QuestionsPerGame = 5

// QuestionRef points into the external curriculum; the session never
// carries question text or answer keys.
type QuestionRef struct {
	ModuleID string `json:"moduleId" bson:"moduleId"`
	Index    int    `json:"index" bson:"index"`
}

// ID is the wire identifier clients echo back when submitting answers.
func (q QuestionRef) ID() string {
	return fmt.Sprintf("%s:%d", q.ModuleID, q.Index)
}

// Player is a participant embedded in a session
type Player struct {
	ID            string    `json:"id" bson:"id"`
	Name          string    `json:"name" bson:"name"`
	Language      string    `json:"language" bson:"language"`
	Score         int       `json:"score" bson:"score"`
	ProgressIndex int       `json:"progressIndex" bson:"progressIndex"`
	Streak        int       `json:"streak" bson:"streak"`
	JoinedAt      time.Time `json:"joinedAt" bson:"joinedAt"`
}

// GameSession is the shared state of one multiplayer game, keyed by a
// short human-shareable code. Players are kept in join order.
type GameSession struct {
	Code                 string        `json:"code" bson:"code"`
	HostID               string        `json:"hostId" bson:"hostId"`
	Status               SessionStatus `json:"status" bson:"status"`
	Players              []Player      `json:"players" bson:"players"`
	Questions            []QuestionRef `json:"questions" bson:"questions"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex" bson:"currentQuestionIndex"`
	CreatedAt            time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// FindPlayer returns a pointer into Players, or nil if the id is unknown.
func (s *GameSession) FindPlayer(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// AllAnswered reports whether every player has answered the question at
// the given index.
func (s *GameSession) AllAnswered(index int) bool {
	for i := range s.Players {
		if s.Players[i].ProgressIndex <= index {
			return false
		}
	}
	return true
}
