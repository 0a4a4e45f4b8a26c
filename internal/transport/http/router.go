package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/transport/http/middleware"
)

// Handlers groups everything NewRouter mounts. A nil History leaves the
// history routes unregistered (no database configured).
type Handlers struct {
	AI        *AIHandler
	History   *HistoryHandler
	Watch     *WatchHandler
	WebSocket http.HandlerFunc
}

func NewRouter(h Handlers, allowedOrigins []string, logger *zap.SugaredLogger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	router.Use(middleware.CORSMiddleware(allowedOrigins, logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		ai := api.Group("/ai")
		ai.POST("/move", h.AI.BestMove)
		ai.POST("/winner", h.AI.Winner)
		ai.POST("/shapes", h.AI.Shapes)
		ai.POST("/evaluate", h.AI.Evaluate)

		if h.History != nil {
			api.GET("/history", h.History.GetHistory)
			api.GET("/history/:id", h.History.GetGameDetails)
		}
		if h.Watch != nil {
			api.GET("/watch", h.Watch.GetLiveGames)
		}
	}

	if h.WebSocket != nil {
		router.GET("/ws", gin.WrapF(h.WebSocket))
	}
	return router
}
