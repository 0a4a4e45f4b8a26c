package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper is the part of the session manager the worker needs.
type SessionSweeper interface {
	CleanupOldSessions(finishedTTL, activeTTL time.Duration) int
}

type Worker struct {
	Sessions    SessionSweeper
	Interval    time.Duration
	FinishedTTL time.Duration
	ActiveTTL   time.Duration
	logger      *zap.SugaredLogger
}

func NewWorker(sessions SessionSweeper, logger *zap.SugaredLogger) *Worker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Worker{
		Sessions:    sessions,
		Interval:    10 * time.Minute,
		FinishedTTL: 1 * time.Hour,
		ActiveTTL:   24 * time.Hour,
		logger:      logger,
	}
}

// Start runs one sweep immediately and then one per Interval until ctx is
// cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup()
			}
		}
	}()
	w.logger.Info("[CLEANUP] Background worker started")
}

func (w *Worker) runCleanup() int {
	removed := w.Sessions.CleanupOldSessions(w.FinishedTTL, w.ActiveTTL)
	if removed > 0 {
		w.logger.Infof("[CLEANUP] Removed %d stale sessions", removed)
	}
	return removed
}
