package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/metrics"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
	"github.com/dysencn/gomoku-naive/pkg/uid"
)

const saveTimeout = 10 * time.Second

type GameRepository interface {
	SaveGame(ctx context.Context, record *domain.GameRecord) error
}

// SnapshotStore keeps live games resumable across reconnects and restarts.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *domain.SessionSnapshot, ttl time.Duration) error
	LoadSnapshot(ctx context.Context, gameID string) (*domain.SessionSnapshot, error)
	DeleteSnapshot(ctx context.Context, gameID string) error
}

type GameSession struct {
	GameID     string
	Username   string
	HumanColor domain.PlayerID
	Difficulty bot.Difficulty
	Game       *domain.Game
	Reason     string
	CreatedAt  time.Time
	FinishedAt time.Time
	// LastMoveAt is when the human last played, or creation time.
	LastMoveAt time.Time

	aiMoves []domain.AIMoveRecord
	engine  *bot.Engine
	mu      sync.Mutex
	manager *SessionManager
}

// MoveOutcome is what one human move produced: the move itself, the
// engine's reply if the game went on, and the resulting state.
type MoveOutcome struct {
	HumanMove domain.Move
	BotMove   *domain.Move
	BotResult *bot.SearchResult
	Status    domain.GameStatus
	Winner    domain.PlayerID
	NextTurn  domain.PlayerID
	Board     [][]int
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex
	repo     GameRepository
	store    SnapshotStore
	base     bot.Settings
	ttl      time.Duration
	logger   *zap.SugaredLogger
	saves    sync.WaitGroup
}

func NewSessionManager(repo GameRepository, store SnapshotStore, base bot.Settings, ttl time.Duration, logger *zap.SugaredLogger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if store == nil {
		store = NewMemorySnapshotStore()
	}
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		repo:     repo,
		store:    store,
		base:     base.Normalize(),
		ttl:      ttl,
		logger:   logger,
	}
}

// CreateSession starts a game for username playing humanColor. When the
// engine plays Black it opens at the centre, since a search on an empty
// board has no candidates.
func (sm *SessionManager) CreateSession(ctx context.Context, username string, humanColor domain.PlayerID, difficulty bot.Difficulty) (*GameSession, error) {
	if !humanColor.IsPlayer() {
		return nil, domain.ErrInvalidPlayer
	}
	gs := sm.newSession(uid.GenerateGameID(), username, humanColor, difficulty)
	gs.Game = domain.NewGame()

	if humanColor == domain.White {
		center := domain.Move{Row: domain.Size / 2, Col: domain.Size / 2}
		if err := gs.Game.MakeMove(domain.Black, center); err != nil {
			return nil, err
		}
	}

	gs.saveSnapshot(ctx)

	sm.mu.Lock()
	sm.sessions[gs.GameID] = gs
	sm.mu.Unlock()

	sm.logger.Infof("[SESSION] Created session %s: %s (%s) vs %s (%s)",
		gs.GameID, username, humanColor, domain.BotUsername, difficulty)
	return gs, nil
}

func (sm *SessionManager) newSession(gameID, username string, humanColor domain.PlayerID, difficulty bot.Difficulty) *GameSession {
	now := time.Now()
	return &GameSession{
		GameID:     gameID,
		Username:   username,
		HumanColor: humanColor,
		Difficulty: difficulty,
		CreatedAt:  now,
		LastMoveAt: now,
		engine:     bot.NewEngine(difficulty.Apply(sm.base), bot.WithLogger(sm.logger)),
		manager:    sm,
	}
}

func (sm *SessionManager) Get(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

// Resume returns the live session, rebuilding it from its snapshot when
// this process does not hold it.
func (sm *SessionManager) Resume(ctx context.Context, gameID string) (*GameSession, error) {
	if gs, ok := sm.Get(gameID); ok {
		return gs, nil
	}

	snap, err := sm.store.LoadSnapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	board, err := domain.FromInts(snap.Board)
	if err != nil {
		return nil, err
	}

	gs := sm.newSession(snap.GameID, snap.Username, snap.HumanColor, bot.ParseDifficulty(snap.Difficulty))
	gs.CreatedAt = snap.CreatedAt
	if !snap.UpdatedAt.IsZero() {
		gs.LastMoveAt = snap.UpdatedAt
	}
	gs.Game = &domain.Game{
		Board:         *board,
		CurrentPlayer: snap.CurrentPlayer,
		Status:        snap.Status,
		Winner:        snap.Winner,
		MoveCount:     len(snap.Moves),
		Moves:         append([]domain.Move(nil), snap.Moves...),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if existing, ok := sm.sessions[gameID]; ok {
		return existing, nil
	}
	sm.sessions[gameID] = gs
	sm.logger.Infof("[SESSION] Resumed session %s from snapshot", gameID)
	return gs, nil
}

func (sm *SessionManager) Remove(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return domain.ErrSessionNotFound
	}
	sm.logger.Infof("[SESSION] Removing session %s", gameID)
	delete(sm.sessions, gameID)
	return nil
}

// CleanupOldSessions drops finished sessions older than finishedTTL and
// active ones without a human move for activeTTL. It returns how many it removed.
func (sm *SessionManager) CleanupOldSessions(finishedTTL, activeTTL time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	now := time.Now()
	for gameID, session := range sm.sessions {
		session.mu.Lock()
		var stale bool
		if session.Game.IsFinished() {
			stale = now.Sub(session.FinishedAt) > finishedTTL
		} else {
			stale = now.Sub(session.LastMoveAt) > activeTTL
		}
		session.mu.Unlock()

		if stale {
			delete(sm.sessions, gameID)
			count++
		}
	}

	if count > 0 {
		sm.logger.Infof("[SESSION] Memory cleanup: Removed %d stale game sessions", count)
	}
	return count
}

// ActiveGames snapshots every game still in progress.
func (sm *SessionManager) ActiveGames() []domain.SessionSnapshot {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, gs := range sm.sessions {
		sessions = append(sessions, gs)
	}
	sm.mu.RUnlock()

	games := make([]domain.SessionSnapshot, 0, len(sessions))
	for _, gs := range sessions {
		state := gs.State()
		if state.Status == domain.StatusActive {
			games = append(games, state)
		}
	}
	return games
}

func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Wait blocks until background history saves have finished.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

func (gs *GameSession) BotColor() domain.PlayerID {
	return gs.HumanColor.Opponent()
}

// HandleMove applies the human move and, if the game goes on, the
// engine's reply. The engine searches a copy of the board.
func (gs *GameSession) HandleMove(ctx context.Context, m domain.Move) (*MoveOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.Game.MakeMove(gs.HumanColor, m); err != nil {
		return nil, err
	}
	gs.LastMoveAt = time.Now()
	outcome := &MoveOutcome{HumanMove: m}

	if !gs.Game.IsFinished() {
		botMove, result, err := gs.playBot()
		if err != nil {
			return nil, err
		}
		outcome.BotMove = &botMove
		outcome.BotResult = result
	}

	if gs.Game.IsFinished() {
		gs.finish(ctx)
	} else {
		gs.saveSnapshot(ctx)
	}

	outcome.Status = gs.Game.Status
	outcome.Winner = gs.Game.Winner
	outcome.NextTurn = gs.Game.CurrentPlayer
	outcome.Board = gs.Game.Board.Ints()
	return outcome, nil
}

// playBot must be called with gs.mu held.
func (gs *GameSession) playBot() (domain.Move, *bot.SearchResult, error) {
	board := gs.Game.Board
	result := gs.engine.FindBestMove(&board, gs.BotColor())
	metrics.ObserveSearch(result)

	var move domain.Move
	if result != nil && result.Move != nil {
		move = *result.Move
	} else {
		var ok bool
		if move, ok = firstEmpty(&gs.Game.Board); !ok {
			return domain.Move{}, nil, fmt.Errorf("%w: no move available for bot", domain.ErrInvalidMove)
		}
		gs.manager.logger.Warnf("[BOT] No candidate in game %s, playing %s", gs.GameID, move)
	}

	if err := gs.Game.MakeMove(gs.BotColor(), move); err != nil {
		return domain.Move{}, nil, err
	}

	if result != nil {
		gs.aiMoves = append(gs.aiMoves, domain.AIMoveRecord{
			Ply:        gs.Game.MoveCount,
			Move:       move,
			Score:      result.Score,
			Nodes:      result.SearchNodes,
			Prunings:   result.PruningCount,
			DurationMs: result.SearchTime.Milliseconds(),
		})
	}
	return move, result, nil
}

func firstEmpty(b *domain.Board) (domain.Move, bool) {
	center := domain.Move{Row: domain.Size / 2, Col: domain.Size / 2}
	if b.IsEmpty(center.Row, center.Col) {
		return center, true
	}
	for row := 0; row < domain.Size; row++ {
		for col := 0; col < domain.Size; col++ {
			if b.IsEmpty(row, col) {
				return domain.Move{Row: row, Col: col}, true
			}
		}
	}
	return domain.Move{}, false
}

func (gs *GameSession) Resign(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.Game.Resign(gs.HumanColor); err != nil {
		return err
	}
	gs.finish(ctx)
	return nil
}

// State returns a consistent copy of the session for messages and tests.
func (gs *GameSession) State() domain.SessionSnapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		GameID:        gs.GameID,
		Username:      gs.Username,
		HumanColor:    gs.HumanColor,
		Difficulty:    string(gs.Difficulty),
		Board:         gs.Game.Board.Ints(),
		CurrentPlayer: gs.Game.CurrentPlayer,
		Status:        gs.Game.Status,
		Winner:        gs.Game.Winner,
		Moves:         append([]domain.Move(nil), gs.Game.Moves...),
		CreatedAt:     gs.CreatedAt,
		UpdatedAt:     time.Now(),
	}
}

func (gs *GameSession) saveSnapshot(ctx context.Context) {
	snap := gs.snapshotLocked()
	if err := gs.manager.store.SaveSnapshot(ctx, &snap, gs.manager.ttl); err != nil {
		gs.manager.logger.Warnf("[SESSION] Failed to save snapshot for %s: %v", gs.GameID, err)
	}
}

// finish must be called with gs.mu held once the game has ended.
func (gs *GameSession) finish(ctx context.Context) {
	gs.FinishedAt = time.Now()
	gs.Reason = finishReason(gs.Game.Status)
	metrics.ObserveGameFinished(gs.outcomeLabel())

	if err := gs.manager.store.DeleteSnapshot(ctx, gs.GameID); err != nil {
		gs.manager.logger.Warnf("[SESSION] Failed to delete snapshot for %s: %v", gs.GameID, err)
	}
	gs.saveGameAsync(gs.record())
}

// FinishReason is "five_in_a_row", "draw" or "resigned" once the game has
// ended, empty before.
func (gs *GameSession) FinishReason() string {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Reason
}

func finishReason(status domain.GameStatus) string {
	switch status {
	case domain.StatusWon:
		return "five_in_a_row"
	case domain.StatusDraw:
		return "draw"
	case domain.StatusResigned:
		return "resigned"
	}
	return ""
}

func (gs *GameSession) outcomeLabel() string {
	switch {
	case gs.Game.Status == domain.StatusDraw:
		return "draw"
	case gs.Game.Status == domain.StatusResigned:
		return "resigned"
	case gs.Game.Winner == gs.HumanColor:
		return "human_win"
	default:
		return "bot_win"
	}
}

// NameOf maps a colour to the player's name, "draw" for Empty. It only
// reads fields fixed at creation and needs no lock.
func (gs *GameSession) NameOf(p domain.PlayerID) string {
	switch p {
	case gs.HumanColor:
		return gs.Username
	case gs.BotColor():
		return domain.BotUsername
	}
	return "draw"
}

func (gs *GameSession) record() *domain.GameRecord {
	return &domain.GameRecord{
		GameID:         gs.GameID,
		Username:       gs.Username,
		HumanColor:     gs.HumanColor,
		Difficulty:     string(gs.Difficulty),
		Winner:         gs.Game.Winner,
		WinnerUsername: gs.NameOf(gs.Game.Winner),
		Status:         gs.Game.Status,
		Reason:         gs.Reason,
		TotalMoves:     gs.Game.MoveCount,
		Moves:          append([]domain.Move(nil), gs.Game.Moves...),
		Board:          gs.Game.Board.Ints(),
		AIMoves:        append([]domain.AIMoveRecord(nil), gs.aiMoves...),
		CreatedAt:      gs.CreatedAt,
		FinishedAt:     gs.FinishedAt,
	}
}

// Saves game data to database in background to avoid blocking game_over messages
func (gs *GameSession) saveGameAsync(record *domain.GameRecord) {
	sm := gs.manager
	if sm.repo == nil {
		return
	}
	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, record); err != nil {
			sm.logger.Errorf("[GAME] Error saving game %s: %v", record.GameID, err)
			return
		}
		sm.logger.Infof("[GAME] Game %s saved successfully", record.GameID)
	}()
}
