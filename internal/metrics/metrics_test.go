package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
)

func TestObserveSearch(t *testing.T) {
	moves := testutil.ToFloat64(searchTotal.WithLabelValues("move"))
	none := testutil.ToFloat64(searchTotal.WithLabelValues("none"))

	ObserveSearch(nil)
	ObserveSearch(&bot.SearchResult{
		Move:         &domain.Move{Row: 7, Col: 7},
		SearchNodes:  120,
		PruningCount: 8,
		SearchTime:   15 * time.Millisecond,
	})

	assert.Equal(t, moves+1, testutil.ToFloat64(searchTotal.WithLabelValues("move")))
	assert.Equal(t, none+1, testutil.ToFloat64(searchTotal.WithLabelValues("none")))
}

func TestObserveGameFinished(t *testing.T) {
	before := testutil.ToFloat64(gamesFinished.WithLabelValues("draw"))

	ObserveGameFinished("draw")

	assert.Equal(t, before+1, testutil.ToFloat64(gamesFinished.WithLabelValues("draw")))
}
