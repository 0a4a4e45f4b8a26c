package bot

import (
	"math"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

// winScore is the terminal value before depth bias. Remaining depth is
// added so that faster wins and slower losses score better.
const winScore = 10000

// alphaBeta is a negamax search returning a score from player's point of
// view, where player is the side to move.
func (e *Engine) alphaBeta(b *domain.Board, depth int, alpha, beta float64, player domain.PlayerID) float64 {
	e.nodes++

	if depth == 0 {
		return e.leafScore(b, player)
	}

	opponent := player.Opponent()
	if domain.HasFive(b, opponent) {
		return -(winScore + float64(depth))
	}
	if domain.HasFive(b, player) {
		return winScore + float64(depth)
	}

	candidates := e.Candidates(b, player)
	if len(candidates) == 0 {
		return 0
	}

	best := math.Inf(-1)
	for _, m := range candidates {
		score := withStone(b, m, player, func() float64 {
			return -e.alphaBeta(b, depth-1, -beta, -alpha, opponent)
		})
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			e.prunings++
			break
		}
	}
	return best
}

// leafScore keeps static evaluations strictly inside (-winScore, winScore)
// so no leaf outranks a proven win.
func (e *Engine) leafScore(b *domain.Board, player domain.PlayerID) float64 {
	v := e.eval.evaluateBoard(b, player)
	return math.Max(-(winScore - 1), math.Min(winScore-1, v))
}
