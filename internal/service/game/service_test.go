package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
)

type memoryRepo struct {
	mu      sync.Mutex
	records []*domain.GameRecord
}

func (r *memoryRepo) SaveGame(_ context.Context, record *domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRepo) saved() []*domain.GameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.GameRecord(nil), r.records...)
}

func newTestManager() (*SessionManager, *memoryRepo, *MemorySnapshotStore) {
	repo := &memoryRepo{}
	store := NewMemorySnapshotStore()
	return NewSessionManager(repo, store, bot.DefaultSettings(), time.Hour, nil), repo, store
}

func placeRow(g *domain.Game, p domain.PlayerID, row int, cols ...int) {
	for _, c := range cols {
		m := domain.Move{Row: row, Col: c}
		g.Board.Place(m, p)
		g.Moves = append(g.Moves, m)
		g.MoveCount++
	}
}

func TestCreateSession_HumanBlack(t *testing.T) {
	sm, _, store := newTestManager()
	ctx := context.Background()

	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)

	require.NoError(t, err)
	assert.Equal(t, domain.Black, gs.Game.CurrentPlayer)
	assert.Equal(t, 0, gs.Game.Board.StoneCount())
	assert.Equal(t, domain.White, gs.BotColor())

	got, ok := sm.Get(gs.GameID)
	require.True(t, ok)
	assert.Same(t, gs, got)

	snap, err := store.LoadSnapshot(ctx, gs.GameID)
	require.NoError(t, err)
	assert.Equal(t, "alice", snap.Username)
}

func TestCreateSession_BotOpensAtCentre(t *testing.T) {
	sm, _, _ := newTestManager()

	gs, err := sm.CreateSession(context.Background(), "bob", domain.White, bot.DifficultyEasy)

	require.NoError(t, err)
	assert.Equal(t, domain.Black, gs.Game.Board.At(7, 7))
	assert.Equal(t, domain.White, gs.Game.CurrentPlayer)
	assert.Equal(t, 1, gs.Game.MoveCount)
}

func TestCreateSession_InvalidColour(t *testing.T) {
	sm, _, _ := newTestManager()

	_, err := sm.CreateSession(context.Background(), "carol", domain.Empty, bot.DifficultyEasy)

	assert.ErrorIs(t, err, domain.ErrInvalidPlayer)
	assert.Zero(t, sm.ActiveCount())
}

func TestHandleMove_BotReplies(t *testing.T) {
	sm, _, store := newTestManager()
	ctx := context.Background()
	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)

	outcome, err := gs.HandleMove(ctx, domain.Move{Row: 7, Col: 7})

	require.NoError(t, err)
	require.NotNil(t, outcome.BotMove)
	require.NotNil(t, outcome.BotResult)
	assert.Equal(t, domain.StatusActive, outcome.Status)
	assert.Equal(t, domain.Black, outcome.NextTurn)
	assert.Equal(t, int(domain.White), outcome.Board[outcome.BotMove.Row][outcome.BotMove.Col])
	assert.Equal(t, 2, gs.Game.Board.StoneCount())
	assert.Len(t, gs.aiMoves, 1)

	snap, err := store.LoadSnapshot(ctx, gs.GameID)
	require.NoError(t, err)
	assert.Len(t, snap.Moves, 2)
}

func TestHandleMove_Rejections(t *testing.T) {
	sm, _, _ := newTestManager()
	ctx := context.Background()
	gs, err := sm.CreateSession(ctx, "bob", domain.White, bot.DifficultyEasy)
	require.NoError(t, err)

	_, err = gs.HandleMove(ctx, domain.Move{Row: 7, Col: 7})
	assert.ErrorIs(t, err, domain.ErrCellOccupied)

	_, err = gs.HandleMove(ctx, domain.Move{Row: -1, Col: 3})
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = gs.HandleMove(cancelled, domain.Move{Row: 0, Col: 0})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, gs.Game.MoveCount)
}

func TestHandleMove_HumanWins(t *testing.T) {
	sm, repo, store := newTestManager()
	ctx := context.Background()
	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	placeRow(gs.Game, domain.Black, 7, 3, 4, 5, 6)
	placeRow(gs.Game, domain.White, 8, 3, 4, 5, 6)

	outcome, err := gs.HandleMove(ctx, domain.Move{Row: 7, Col: 7})
	require.NoError(t, err)
	sm.Wait()

	assert.Nil(t, outcome.BotMove)
	assert.Equal(t, domain.StatusWon, outcome.Status)
	assert.Equal(t, domain.Black, outcome.Winner)

	records := repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].WinnerUsername)
	assert.Equal(t, "five_in_a_row", records[0].Reason)
	assert.Equal(t, 9, records[0].TotalMoves)

	_, err = store.LoadSnapshot(ctx, gs.GameID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = gs.HandleMove(ctx, domain.Move{Row: 0, Col: 0})
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestHandleMove_BotWins(t *testing.T) {
	sm, repo, _ := newTestManager()
	ctx := context.Background()
	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	placeRow(gs.Game, domain.White, 7, 3, 4, 5, 6)
	placeRow(gs.Game, domain.Black, 10, 3, 5, 7, 9)

	outcome, err := gs.HandleMove(ctx, domain.Move{Row: 0, Col: 0})
	require.NoError(t, err)
	sm.Wait()

	require.NotNil(t, outcome.BotMove)
	assert.Contains(t, []domain.Move{{Row: 7, Col: 2}, {Row: 7, Col: 7}}, *outcome.BotMove)
	assert.Equal(t, domain.StatusWon, outcome.Status)
	assert.Equal(t, domain.White, outcome.Winner)

	records := repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, domain.BotUsername, records[0].WinnerUsername)
	require.Len(t, records[0].AIMoves, 1)
	assert.Equal(t, *outcome.BotMove, records[0].AIMoves[0].Move)
}

func TestResign(t *testing.T) {
	sm, repo, _ := newTestManager()
	ctx := context.Background()
	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)

	require.NoError(t, gs.Resign(ctx))
	sm.Wait()

	state := gs.State()
	assert.Equal(t, domain.StatusResigned, state.Status)
	assert.Equal(t, domain.White, state.Winner)
	assert.ErrorIs(t, gs.Resign(ctx), domain.ErrGameOver)
	assert.Equal(t, "resigned", gs.FinishReason())

	records := repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, "resigned", records[0].Reason)
}

func TestResume_FromSnapshot(t *testing.T) {
	sm, _, store := newTestManager()
	ctx := context.Background()
	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	_, err = gs.HandleMove(ctx, domain.Move{Row: 7, Col: 7})
	require.NoError(t, err)

	// a fresh process sharing the same store
	other := NewSessionManager(nil, store, bot.DefaultSettings(), time.Hour, nil)
	resumed, err := other.Resume(ctx, gs.GameID)

	require.NoError(t, err)
	assert.Equal(t, gs.Game.Board, resumed.Game.Board)
	assert.Equal(t, gs.Game.Moves, resumed.Game.Moves)
	assert.Equal(t, domain.Black, resumed.Game.CurrentPlayer)
	assert.Equal(t, bot.DifficultyEasy, resumed.Difficulty)

	again, err := other.Resume(ctx, gs.GameID)
	require.NoError(t, err)
	assert.Same(t, resumed, again)

	_, err = other.Resume(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRemove(t *testing.T) {
	sm, _, _ := newTestManager()
	gs, err := sm.CreateSession(context.Background(), "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)

	require.NoError(t, sm.Remove(gs.GameID))
	assert.ErrorIs(t, sm.Remove(gs.GameID), domain.ErrSessionNotFound)
}

func TestCleanupOldSessions(t *testing.T) {
	sm, _, _ := newTestManager()
	ctx := context.Background()

	finished, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	require.NoError(t, finished.Resign(ctx))
	finished.FinishedAt = time.Now().Add(-2 * time.Hour)

	stale, err := sm.CreateSession(ctx, "bob", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)
	stale.LastMoveAt = stale.CreatedAt

	fresh, err := sm.CreateSession(ctx, "carol", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	sm.Wait()

	removed := sm.CleanupOldSessions(time.Hour, 24*time.Hour)

	assert.Equal(t, 2, removed)
	_, ok := sm.Get(fresh.GameID)
	assert.True(t, ok)
	assert.Equal(t, 1, sm.ActiveCount())
}

func TestMemorySnapshotStore_Expires(t *testing.T) {
	store := NewMemorySnapshotStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	snap := &domain.SessionSnapshot{GameID: "g1", Board: [][]int{{1, 0}}}
	require.NoError(t, store.SaveSnapshot(ctx, snap, time.Minute))
	snap.Board[0][0] = 2

	got, err := store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Board[0][0], "store must keep its own copy")

	now = now.Add(2 * time.Minute)
	_, err = store.LoadSnapshot(ctx, "g1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestActiveGames(t *testing.T) {
	sm, _, _ := newTestManager()
	ctx := context.Background()

	live, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	done, err := sm.CreateSession(ctx, "bob", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	require.NoError(t, done.Resign(ctx))
	sm.Wait()

	games := sm.ActiveGames()

	require.Len(t, games, 1)
	assert.Equal(t, live.GameID, games[0].GameID)
}

func TestCleanupOldSessions_KeepsLongRunningGame(t *testing.T) {
	sm, _, _ := newTestManager()
	ctx := context.Background()

	gs, err := sm.CreateSession(ctx, "alice", domain.Black, bot.DifficultyEasy)
	require.NoError(t, err)
	gs.CreatedAt = time.Now().Add(-48 * time.Hour)
	gs.LastMoveAt = gs.CreatedAt

	_, err = gs.HandleMove(ctx, domain.Move{Row: 7, Col: 7})
	require.NoError(t, err)

	removed := sm.CleanupOldSessions(time.Hour, 24*time.Hour)

	assert.Zero(t, removed)
	_, ok := sm.Get(gs.GameID)
	assert.True(t, ok)
}
