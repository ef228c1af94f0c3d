package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"linguaclash/internal/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps a write-through JSON snapshot of each game session
// in Redis so polling reads don't hit MongoDB.
type SessionCache interface {
	Set(ctx context.Context, session *model.GameSession) error
	Get(ctx context.Context, code string) (*model.GameSession, error)
	Delete(ctx context.Context, code string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour, // Snapshots expire after 24h
	}
}

func (c *sessionCache) key(code string) string {
	return fmt.Sprintf("session:%s", code)
}

func (c *sessionCache) Set(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.Code), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, code string) (*model.GameSession, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
