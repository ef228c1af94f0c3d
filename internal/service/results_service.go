package service

import (
	"context"
	"fmt"

	"linguaclash/internal/model"
	"linguaclash/internal/repository"
)

// ResultsService folds a finished session into durable player profiles.
type ResultsService struct {
	profileRepo repository.ProfileRepo
}

// NewResultsService creates a new results service
func NewResultsService(profileRepo repository.ProfileRepo) *ResultsService {
	return &ResultsService{
		profileRepo: profileRepo,
	}
}

// Winner returns the player with the highest score. Ties go to the
// earliest joiner, which is the first match in the join-ordered slice.
func (s *ResultsService) Winner(session *model.GameSession) *model.Player {
	if len(session.Players) == 0 {
		return nil
	}
	winner := &session.Players[0]
	for i := range session.Players[1:] {
		if session.Players[i+1].Score > winner.Score {
			winner = &session.Players[i+1]
		}
	}
	return winner
}

// Finalize merges every player's session result into their profile. Each
// merge is tagged with (session code, user id) in the store, so a retry
// after a partial failure never double-awards points or badges.
func (s *ResultsService) Finalize(ctx context.Context, session *model.GameSession) error {
	winner := s.Winner(session)

	for i := range session.Players {
		player := &session.Players[i]
		won := winner != nil && winner.ID == player.ID

		delta := model.ProfileDelta{
			Points:      player.Score,
			GamesPlayed: 1,
		}
		if won {
			delta.Wins = 1
		}

		profile, applied, err := s.profileRepo.ApplyMerge(ctx, session.Code, player.ID, delta)
		if err != nil {
			return fmt.Errorf("failed to merge profile for %s: %w", player.ID, err)
		}
		if !applied {
			continue
		}

		var badges []string
		if won && !profile.HasBadge(model.BadgeFirstWin) {
			badges = append(badges, model.BadgeFirstWin)
		}
		if profile.GamesPlayed >= model.MaestroGamesPlayed && !profile.HasBadge(model.BadgeMultiplayerMaestro) {
			badges = append(badges, model.BadgeMultiplayerMaestro)
		}
		if err := s.profileRepo.AddBadges(ctx, player.ID, badges); err != nil {
			return fmt.Errorf("failed to award badges for %s: %w", player.ID, err)
		}
	}

	return nil
}

// GetProfile returns a player's durable profile.
func (s *ResultsService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
