package bot

import "github.com/dysencn/gomoku-naive/internal/domain"

const (
	ownMoveFactor = 2.0
	blockDamping  = 0.8
)

// withStone places p at m, runs fn and restores the previous cell content
// on every return path.
func withStone[T any](b *domain.Board, m domain.Move, p domain.PlayerID, fn func() T) T {
	prev := b.At(m.Row, m.Col)
	b.Place(m, p)
	defer b.Place(m, prev)
	return fn()
}

type evaluator struct {
	weights weightTable
	threat  float64
	buf     []byte
}

func newEvaluator(s Settings) *evaluator {
	return &evaluator{
		weights: newWeightTable(s),
		threat:  s.Weight(WeightOpponentThreat),
		buf:     make([]byte, 0, domain.Size+2),
	}
}

func (ev *evaluator) sideScore(b *domain.Board, player domain.PlayerID) float64 {
	score := 0.0
	for _, line := range allLines() {
		ev.buf = encodeLine(b, line, player, ev.buf)
		score += scoreLine(ev.buf, &ev.weights)
	}
	return score
}

// evaluateBoard scores the whole board from player's point of view.
func (ev *evaluator) evaluateBoard(b *domain.Board, player domain.PlayerID) float64 {
	own := ev.sideScore(b, player)
	opp := ev.sideScore(b, player.Opponent())
	return own - opp*ev.threat
}

func (ev *evaluator) localScore(b *domain.Board, row, col int, player domain.PlayerID) float64 {
	score := 0.0
	for _, d := range domain.Directions {
		ev.buf = encodeLocal(b, row, col, d, player, ev.buf)
		score += scoreLine(ev.buf, &ev.weights)
	}
	return score
}

// quickEvaluatePosition values an empty cell for player: what the move
// builds, doubled, plus what it denies the opponent, damped.
func (ev *evaluator) quickEvaluatePosition(b *domain.Board, row, col int, player domain.PlayerID) float64 {
	m := domain.Move{Row: row, Col: col}
	attack := withStone(b, m, player, func() float64 {
		return ev.localScore(b, row, col, player)
	})
	opponent := player.Opponent()
	defence := withStone(b, m, opponent, func() float64 {
		return ev.localScore(b, row, col, opponent)
	})
	return attack*ownMoveFactor + defence*blockDamping
}
