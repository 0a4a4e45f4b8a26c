package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

const timeLayout = time.RFC3339

type LiveGameLister interface {
	ActiveGames() []domain.SessionSnapshot
}

type WatchHandler struct {
	SessionManager LiveGameLister
}

func NewWatchHandler(sm LiveGameLister) *WatchHandler {
	return &WatchHandler{SessionManager: sm}
}

type liveGameResponse struct {
	GameID      string  `json:"gameId"`
	Username    string  `json:"username"`
	HumanColor  string  `json:"humanColor"`
	Difficulty  string  `json:"difficulty"`
	MoveCount   int     `json:"moveCount"`
	CurrentTurn int     `json:"currentTurn"`
	Board       [][]int `json:"board"`
	StartedAt   string  `json:"startedAt"`
}

// GetLiveGames returns every game in progress on this instance.
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	activeGames := h.SessionManager.ActiveGames()

	response := make([]liveGameResponse, 0, len(activeGames))
	for _, g := range activeGames {
		response = append(response, liveGameResponse{
			GameID:      g.GameID,
			Username:    g.Username,
			HumanColor:  g.HumanColor.String(),
			Difficulty:  g.Difficulty,
			MoveCount:   len(g.Moves),
			CurrentTurn: int(g.CurrentPlayer),
			Board:       g.Board,
			StartedAt:   g.CreatedAt.UTC().Format(timeLayout),
		})
	}

	c.JSON(http.StatusOK, response)
}
