package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for per-session standings
type LeaderboardCache interface {
	UpdateScore(ctx context.Context, sessionCode, playerID string, score int) error
	GetTop(ctx context.Context, sessionCode string, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, sessionCode, playerID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(sessionCode string) string {
	return fmt.Sprintf("session:%s:lb", sessionCode)
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, sessionCode, playerID string, score int) error {
	return c.client.ZAdd(ctx, c.key(sessionCode), redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, sessionCode string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(sessionCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			PlayerID: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, sessionCode, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(sessionCode), playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
