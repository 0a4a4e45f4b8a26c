package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

const sessionKeyPrefix = "gomoku:session:"

func sessionKey(gameID string) string {
	return sessionKeyPrefix + gameID
}

// SessionStore keeps live game snapshots as JSON under
// gomoku:session:<gameID>.
type SessionStore struct {
	cache *RedisCache
}

func NewSessionStore(cache *RedisCache) *SessionStore {
	return &SessionStore{cache: cache}
}

func (s *SessionStore) SaveSnapshot(ctx context.Context, snap *domain.SessionSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(snap.GameID), data, ttl); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", snap.GameID, err)
	}
	return nil
}

func (s *SessionStore) LoadSnapshot(ctx context.Context, gameID string) (*domain.SessionSnapshot, error) {
	raw, err := s.cache.Get(ctx, sessionKey(gameID))
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", gameID, err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", gameID, err)
	}
	return &snap, nil
}

func (s *SessionStore) DeleteSnapshot(ctx context.Context, gameID string) error {
	return s.cache.Del(ctx, sessionKey(gameID))
}
