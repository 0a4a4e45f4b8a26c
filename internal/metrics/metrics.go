package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dysencn/gomoku-naive/internal/service/bot"
)

var (
	// searchTotal counts searches by result: "move" or "none"
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gomoku_search_total",
		Help: "Total engine searches by result",
	}, []string{"result"})

	searchNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gomoku_search_nodes",
		Help:    "Nodes visited per search",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10), // 10 to ~2.6M
	})

	searchPrunings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gomoku_search_prunings",
		Help:    "Alpha-beta cutoffs per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gomoku_search_duration_seconds",
		Help:    "Search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gomoku_games_finished_total",
		Help: "Finished games by outcome",
	}, []string{"outcome"})
)

// ObserveSearch records one FindBestMove call. A nil result counts as a
// search that produced no move.
func ObserveSearch(result *bot.SearchResult) {
	if result == nil || result.Move == nil {
		searchTotal.WithLabelValues("none").Inc()
		return
	}
	searchTotal.WithLabelValues("move").Inc()
	searchNodes.Observe(float64(result.SearchNodes))
	searchPrunings.Observe(float64(result.PruningCount))
	searchDuration.Observe(result.SearchTime.Seconds())
}

// ObserveGameFinished records the outcome label of a finished game, e.g.
// "human_win", "bot_win", "draw" or "resigned".
func ObserveGameFinished(outcome string) {
	gamesFinished.WithLabelValues(outcome).Inc()
}
