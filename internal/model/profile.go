package model

import "time"

// Badge identifiers awarded by the results aggregator.
const (
	BadgeFirstWin           = "first-win"
	BadgeMultiplayerMaestro = "multiplayer-maestro"
)

// MaestroGamesPlayed is the gamesPlayed threshold for the maestro badge.
const MaestroGamesPlayed = 10

// Profile is a player's durable cross-session record
type Profile struct {
	UserID      string    `json:"userId" bson:"_id"`
	Points      int       `json:"points" bson:"points"`
	GamesPlayed int       `json:"gamesPlayed" bson:"gamesPlayed"`
	Wins        int       `json:"wins" bson:"wins"`
	Badges      []string  `json:"badges" bson:"badges"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasBadge reports whether the profile already holds the given badge.
func (p *Profile) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// ProfileDelta is the additive part of a finished-game merge.
type ProfileDelta struct {
	Points      int
	GamesPlayed int
	Wins        int
}
