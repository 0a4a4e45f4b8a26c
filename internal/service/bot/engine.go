package bot

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
)

// LogEntry is a human readable search trace line. The engine only writes
// these; display and storage belong to the caller.
type LogEntry struct {
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Type      LogType   `json:"type"`
}

type SearchResult struct {
	Move         *domain.Move  `json:"move"`
	Score        float64       `json:"score"`
	SearchNodes  int64         `json:"searchNodes"`
	PruningCount int64         `json:"pruningCount"`
	SearchTime   time.Duration `json:"searchTime"`
	Logs         []LogEntry    `json:"logs"`
}

// Engine computes moves for one side at a time. It is not safe for
// concurrent use: counters and the log belong to the in-flight search.
type Engine struct {
	settings Settings
	eval     *evaluator
	logger   *zap.SugaredLogger

	nodes    int64
	prunings int64
	logs     []LogEntry
}

type Option func(*Engine)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEngine(settings Settings, opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(e)
	}
	e.Configure(settings)
	return e
}

// Configure replaces the settings used from the next search on.
func (e *Engine) Configure(settings Settings) {
	e.settings = settings.Normalize()
	e.eval = newEvaluator(e.settings)
}

func (e *Engine) Settings() Settings {
	return e.settings.Merge(Settings{})
}

// EvaluateBoard scores every line on the board for player minus the
// opponent's score scaled by the opponentThreat weight.
func (e *Engine) EvaluateBoard(b *domain.Board, player domain.PlayerID) float64 {
	return e.eval.evaluateBoard(b, player)
}

// QuickEvaluatePosition values placing player's stone at (row, col). The
// cell is restored before returning.
func (e *Engine) QuickEvaluatePosition(b *domain.Board, row, col int, player domain.PlayerID) float64 {
	return e.eval.quickEvaluatePosition(b, row, col, player)
}

// Candidates returns the ordered, truncated candidate moves for player.
func (e *Engine) Candidates(b *domain.Board, player domain.PlayerID) []domain.Move {
	return e.eval.generateCandidates(b, player, e.settings.SearchRange, e.settings.CandidateCount)
}

// FindBestMove searches settings.SearchDepth plies for player. It returns
// nil when there is nothing to search: no candidate near any stone, or the
// position is already decided. The board is left exactly as passed in.
func (e *Engine) FindBestMove(b *domain.Board, player domain.PlayerID) *SearchResult {
	start := time.Now()
	e.nodes = 1
	e.prunings = 0
	e.logs = nil

	if !player.IsPlayer() {
		return nil
	}
	if outcome := domain.CheckWinner(b); outcome.IsTerminal() {
		e.addLog(LogWarning, "position already decided (%s), nothing to search", outcome)
		return nil
	}

	candidates := e.Candidates(b, player)
	e.addLog(LogInfo, "generated %d candidate moves for %s", len(candidates), player)
	if len(candidates) == 0 {
		return nil
	}

	depth := e.settings.SearchDepth - 1
	opponent := player.Opponent()
	alpha, beta := math.Inf(-1), math.Inf(1)
	bestScore := math.Inf(-1)
	bestMove := candidates[0]

	for _, m := range candidates {
		score := withStone(b, m, player, func() float64 {
			return -e.alphaBeta(b, depth, -beta, -alpha, opponent)
		})
		e.addLog(LogInfo, "candidate %s score %.1f", m, score)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	elapsed := time.Since(start)
	e.addLog(LogSuccess, "best move %s score %.1f in %dms, nodes %d, prunings %d",
		bestMove, bestScore, elapsed.Milliseconds(), e.nodes, e.prunings)
	e.logger.Debugw("[BOT] search finished",
		"player", player.String(),
		"move", bestMove.String(),
		"score", bestScore,
		"nodes", e.nodes,
		"prunings", e.prunings,
		"elapsed", elapsed,
	)

	move := bestMove
	return &SearchResult{
		Move:         &move,
		Score:        bestScore,
		SearchNodes:  e.nodes,
		PruningCount: e.prunings,
		SearchTime:   elapsed,
		Logs:         e.logs,
	}
}

func (e *Engine) addLog(kind LogType, format string, args ...interface{}) {
	e.logs = append(e.logs, LogEntry{
		Seq:       len(e.logs) + 1,
		Timestamp: time.Now(),
		Message:   fmt.Sprintf(format, args...),
		Type:      kind,
	})
}
