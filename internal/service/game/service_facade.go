package game

import (
	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/metrics"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
)

// Service is the entry point for stateless analysis (facade). Each call
// gets its own engine, so concurrent requests never share search state.
type Service struct {
	base   bot.Settings
	logger *zap.SugaredLogger
}

func NewService(base bot.Settings, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{base: base.Normalize(), logger: logger}
}

// SettingsFor layers the difficulty preset and then the caller's override
// on top of the configured defaults.
func (s *Service) SettingsFor(difficulty bot.Difficulty, override *bot.Settings) bot.Settings {
	settings := difficulty.Apply(s.base)
	if override != nil {
		settings = settings.Merge(*override)
	}
	return settings.Normalize()
}

// BestMove searches a copy of b, so the caller's board is never touched.
// A nil result means there was nothing to search.
func (s *Service) BestMove(b *domain.Board, player domain.PlayerID, settings bot.Settings) *bot.SearchResult {
	board := *b
	engine := bot.NewEngine(settings, bot.WithLogger(s.logger))
	result := engine.FindBestMove(&board, player)
	metrics.ObserveSearch(result)
	return result
}

func (s *Service) Winner(b *domain.Board) domain.Outcome {
	return domain.CheckWinner(b)
}

// ShapeReport tallies both sides' shapes.
type ShapeReport struct {
	Black bot.ShapeCounts `json:"black"`
	White bot.ShapeCounts `json:"white"`
}

func (s *Service) Shapes(b *domain.Board) ShapeReport {
	return ShapeReport{
		Black: bot.CountShapes(b, domain.Black),
		White: bot.CountShapes(b, domain.White),
	}
}

// Evaluate returns the static evaluation for player under settings.
func (s *Service) Evaluate(b *domain.Board, player domain.PlayerID, settings bot.Settings) float64 {
	return bot.NewEngine(settings).EvaluateBoard(b, player)
}
