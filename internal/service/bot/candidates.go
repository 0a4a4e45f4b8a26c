package bot

import (
	"sort"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

type candidate struct {
	move  domain.Move
	score float64
}

// hasNeighbor reports whether any stone lies within Chebyshev distance
// radius of (row, col).
func hasNeighbor(b *domain.Board, row, col, radius int) bool {
	for r := row - radius; r <= row+radius; r++ {
		for c := col - radius; c <= col+radius; c++ {
			if (r == row && c == col) || !domain.InBounds(r, c) {
				continue
			}
			if b.At(r, c) != domain.Empty {
				return true
			}
		}
	}
	return false
}

// generateCandidates returns up to limit empty cells near existing stones,
// best quick evaluation first. Ties keep row-major scan order.
func (ev *evaluator) generateCandidates(b *domain.Board, player domain.PlayerID, radius, limit int) []domain.Move {
	scored := make([]candidate, 0, 32)
	for row := 0; row < domain.Size; row++ {
		for col := 0; col < domain.Size; col++ {
			if b.At(row, col) != domain.Empty || !hasNeighbor(b, row, col, radius) {
				continue
			}
			scored = append(scored, candidate{
				move:  domain.Move{Row: row, Col: col},
				score: ev.quickEvaluatePosition(b, row, col, player),
			})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	moves := make([]domain.Move, len(scored))
	for i, c := range scored {
		moves[i] = c.move
	}
	return moves
}
