package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
	"github.com/dysencn/gomoku-naive/internal/service/game"
)

var requestValidate = validator.New()

// AIService is the analysis surface the handlers need.
type AIService interface {
	SettingsFor(difficulty bot.Difficulty, override *bot.Settings) bot.Settings
	BestMove(b *domain.Board, player domain.PlayerID, settings bot.Settings) *bot.SearchResult
	Winner(b *domain.Board) domain.Outcome
	Shapes(b *domain.Board) game.ShapeReport
	Evaluate(b *domain.Board, player domain.PlayerID, settings bot.Settings) float64
}

type AIHandler struct {
	Service AIService
	logger  *zap.SugaredLogger
}

func NewAIHandler(svc AIService, logger *zap.SugaredLogger) *AIHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AIHandler{Service: svc, logger: logger}
}

type BoardRequest struct {
	Board [][]int `json:"board" validate:"required,len=15,dive,len=15,dive,min=0,max=2"`
}

func (r *BoardRequest) Validate() error {
	return requestValidate.Struct(r)
}

type MoveRequest struct {
	Board      [][]int          `json:"board" validate:"required,len=15,dive,len=15,dive,min=0,max=2"`
	Player     int              `json:"player" validate:"required,oneof=1 2"`
	Difficulty string           `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Settings   *SettingsRequest `json:"settings"`
}

func (r *MoveRequest) Validate() error {
	return requestValidate.Struct(r)
}

// SettingsRequest is a per-request engine override. Zero fields keep the
// difficulty's value; the caps keep one request from running an
// unbounded search.
type SettingsRequest struct {
	SearchDepth    int                `json:"searchDepth" validate:"max=8"`
	CandidateCount int                `json:"candidateCount" validate:"max=30"`
	SearchRange    int                `json:"searchRange" validate:"max=4"`
	PatternWeights map[string]float64 `json:"patternWeights"`
}

func (r *SettingsRequest) ToSettings() *bot.Settings {
	if r == nil {
		return nil
	}
	return &bot.Settings{
		SearchDepth:    r.SearchDepth,
		CandidateCount: r.CandidateCount,
		SearchRange:    r.SearchRange,
		PatternWeights: r.PatternWeights,
	}
}

type moveResponse struct {
	Move         *domain.Move   `json:"move"`
	Score        float64        `json:"score"`
	SearchNodes  int64          `json:"searchNodes"`
	PruningCount int64          `json:"pruningCount"`
	SearchTimeMs int64          `json:"searchTimeMs"`
	Logs         []bot.LogEntry `json:"logs"`
}

// bindBoard decodes and validates a request whose board must be a legal
// 15x15 snapshot. It writes the 400 itself and reports false on failure.
func bindBoard(c *gin.Context, req interface{ Validate() error }, cells func() [][]int) (*domain.Board, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return nil, false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	board, err := domain.FromInts(cells())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return board, true
}

// BestMove handles POST /api/ai/move. A board with nothing to search
// answers 200 with a null move.
func (h *AIHandler) BestMove(c *gin.Context) {
	var req MoveRequest
	board, ok := bindBoard(c, &req, func() [][]int { return req.Board })
	if !ok {
		return
	}

	settings := h.Service.SettingsFor(bot.ParseDifficulty(req.Difficulty), req.Settings.ToSettings())
	result := h.Service.BestMove(board, domain.PlayerID(req.Player), settings)
	if result == nil || result.Move == nil {
		c.JSON(http.StatusOK, gin.H{"move": nil})
		return
	}

	h.logger.Debugf("[AI] %s plays %s (score %.1f, %d nodes)",
		domain.PlayerID(req.Player), result.Move, result.Score, result.SearchNodes)
	c.JSON(http.StatusOK, moveResponse{
		Move:         result.Move,
		Score:        result.Score,
		SearchNodes:  result.SearchNodes,
		PruningCount: result.PruningCount,
		SearchTimeMs: result.SearchTime.Milliseconds(),
		Logs:         result.Logs,
	})
}

// Winner handles POST /api/ai/winner.
func (h *AIHandler) Winner(c *gin.Context) {
	var req BoardRequest
	board, ok := bindBoard(c, &req, func() [][]int { return req.Board })
	if !ok {
		return
	}

	outcome := h.Service.Winner(board)
	c.JSON(http.StatusOK, gin.H{
		"outcome":  outcome.String(),
		"winner":   int(outcome.Winner()),
		"terminal": outcome.IsTerminal(),
	})
}

// Shapes handles POST /api/ai/shapes.
func (h *AIHandler) Shapes(c *gin.Context) {
	var req BoardRequest
	board, ok := bindBoard(c, &req, func() [][]int { return req.Board })
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Service.Shapes(board))
}

// Evaluate handles POST /api/ai/evaluate: the static score for player.
func (h *AIHandler) Evaluate(c *gin.Context) {
	var req MoveRequest
	board, ok := bindBoard(c, &req, func() [][]int { return req.Board })
	if !ok {
		return
	}

	settings := h.Service.SettingsFor(bot.ParseDifficulty(req.Difficulty), req.Settings.ToSettings())
	c.JSON(http.StatusOK, gin.H{
		"player": req.Player,
		"score":  h.Service.Evaluate(board, domain.PlayerID(req.Player), settings),
	})
}
