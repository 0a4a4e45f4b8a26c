package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryRepository interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	GetRecentGames(ctx context.Context, username string, limit int) ([]domain.GameRecord, error)
}

type HistoryHandler struct {
	GameRepo HistoryRepository
	logger   *zap.SugaredLogger
}

func NewHistoryHandler(gameRepo HistoryRepository, logger *zap.SugaredLogger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &HistoryHandler{GameRepo: gameRepo, logger: logger}
}

type historyItem struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
	Result     string `json:"result"` // "win", "loss", "draw"
	EndReason  string `json:"endReason"`
	MovesCount int    `json:"movesCount"`
	CreatedAt  string `json:"createdAt"`
	FinishedAt string `json:"finishedAt"`
}

// resultFor reports the game from the human player's side.
func resultFor(g *domain.GameRecord) string {
	switch {
	case g.Winner == domain.Empty:
		return "draw"
	case g.Winner == g.HumanColor:
		return "win"
	default:
		return "loss"
	}
}

// GetHistory handles GET /api/history?username=&limit=.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.GameRepo.GetRecentGames(c.Request.Context(), c.Query("username"), limit)
	if err != nil {
		h.logger.Errorf("[HISTORY] Failed to fetch history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	history := make([]historyItem, 0, len(games))
	for i := range games {
		g := &games[i]
		history = append(history, historyItem{
			ID:         g.GameID,
			Username:   g.Username,
			Difficulty: g.Difficulty,
			Result:     resultFor(g),
			EndReason:  g.Reason,
			MovesCount: g.TotalMoves,
			CreatedAt:  g.CreatedAt.UTC().Format(timeLayout),
			FinishedAt: g.FinishedAt.UTC().Format(timeLayout),
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails handles GET /api/history/:id with the full move list and
// the engine's per-move statistics.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	game, err := h.GameRepo.GetGameByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrGameNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("[HISTORY] Failed to fetch game %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch game"})
		return
	}
	c.JSON(http.StatusOK, game)
}
