package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/pkg/uid"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "gomoku:session:abc", sessionKey("abc"))
}

// TestSessionStore_RoundTrip runs against TEST_REDIS_ADDR and skips when
// it is unset.
func TestSessionStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	store := NewSessionStore(NewRedisCache(client))
	ctx := context.Background()

	snap := &domain.SessionSnapshot{
		GameID:        uid.GenerateGameID(),
		Username:      "alice",
		HumanColor:    domain.Black,
		Difficulty:    "easy",
		Board:         domain.NewBoard().Ints(),
		CurrentPlayer: domain.Black,
		Status:        domain.StatusActive,
		Moves:         []domain.Move{{Row: 7, Col: 7}},
	}

	require.NoError(t, store.SaveSnapshot(ctx, snap, time.Minute))

	got, err := store.LoadSnapshot(ctx, snap.GameID)
	require.NoError(t, err)
	assert.Equal(t, snap.Moves, got.Moves)
	assert.Equal(t, snap.Board, got.Board)

	ttl, err := client.TTL(ctx, sessionKey(snap.GameID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.DeleteSnapshot(ctx, snap.GameID))
	_, err = store.LoadSnapshot(ctx, snap.GameID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
