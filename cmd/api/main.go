package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dysencn/gomoku-naive/internal/config"
	"github.com/dysencn/gomoku-naive/internal/repository/postgres"
	"github.com/dysencn/gomoku-naive/internal/repository/redis"
	"github.com/dysencn/gomoku-naive/internal/service/cleanup"
	"github.com/dysencn/gomoku-naive/internal/service/game"
	transportHttp "github.com/dysencn/gomoku-naive/internal/transport/http"
	"github.com/dysencn/gomoku-naive/internal/transport/websocket"
	"github.com/dysencn/gomoku-naive/pkg/logging"
)

func main() {
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../.env")
	}

	cfg := config.LoadConfig()
	logger := logging.NewLogger(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()
	if envErr != nil {
		logger.Info("No .env file found")
	}
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Persistence. Without DATABASE_URL finished games are not kept.
	var (
		gameRepo       *postgres.GameRepo
		repo           game.GameRepository
		historyHandler *transportHttp.HistoryHandler
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			logger.Fatalf("Database unreachable: %v", err)
		}
		defer db.Close()

		logger.Info("Running database migrations...")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		logger.Info("Database migration completed successfully")

		gameRepo = postgres.NewGameRepo(db)
		repo = gameRepo
		historyHandler = transportHttp.NewHistoryHandler(gameRepo, logger)
	} else {
		logger.Warn("DATABASE_URL not set, game history is disabled")
	}

	// 2. Live snapshots in Redis, in memory when it is unreachable.
	var store game.SnapshotStore
	if err := redis.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, logger); err != nil {
		logger.Errorf("Failed to initialize Redis: %v", err)
	}
	defer redis.CloseRedis()
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		store = redis.NewSessionStore(redis.NewRedisCache(redis.RedisClient))
	}

	// 3. Services
	sessionManager := game.NewSessionManager(repo, store, cfg.Engine, cfg.SessionTTL, logger)
	gameService := game.NewService(cfg.Engine, logger)

	cleanupWorker := cleanup.NewWorker(sessionManager, logger)
	go cleanupWorker.Start(ctx)

	// 4. Transport
	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins, logger)
	wsHandler.DefaultDifficulty = cfg.DefaultDifficulty

	router := transportHttp.NewRouter(transportHttp.Handlers{
		AI:        transportHttp.NewAIHandler(gameService, logger),
		History:   historyHandler,
		Watch:     transportHttp.NewWatchHandler(sessionManager),
		WebSocket: wsHandler.HandleWebSocket,
	}, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	sessionManager.Wait()
	logger.Info("Server exited")
}
