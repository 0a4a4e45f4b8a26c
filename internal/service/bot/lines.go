package bot

import (
	"sync"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

// Line alphabet. symNeutral replaces own stones already credited to a shape.
const (
	symOwn      = '1'
	symEmpty    = '0'
	symOther    = '2'
	symNeutral  = 'x'
	localRadius = 4
)

func symbolFor(cell, player domain.PlayerID) byte {
	switch cell {
	case player:
		return symOwn
	case domain.Empty:
		return symEmpty
	default:
		return symOther
	}
}

// encodeLocal encodes up to localRadius cells on each side of (row, col)
// along dir, clipped at the edges, with a boundary symbol at both ends.
func encodeLocal(b *domain.Board, row, col int, dir [2]int, player domain.PlayerID, buf []byte) []byte {
	buf = append(buf[:0], symOther)
	for i := -localRadius; i <= localRadius; i++ {
		r, c := row+dir[0]*i, col+dir[1]*i
		if !domain.InBounds(r, c) {
			continue
		}
		buf = append(buf, symbolFor(b[r][c], player))
	}
	return append(buf, symOther)
}

// encodeLine encodes a full board line with the same boundary padding.
func encodeLine(b *domain.Board, cells []domain.Move, player domain.PlayerID, buf []byte) []byte {
	buf = append(buf[:0], symOther)
	for _, m := range cells {
		buf = append(buf, symbolFor(b[m.Row][m.Col], player))
	}
	return append(buf, symOther)
}

var (
	boardLinesOnce sync.Once
	boardLines     [][]domain.Move
)

// allLines returns every row, column and diagonal that can hold five.
func allLines() [][]domain.Move {
	boardLinesOnce.Do(func() {
		boardLines = buildLines()
	})
	return boardLines
}

func buildLines() [][]domain.Move {
	lines := make([][]domain.Move, 0, 2*domain.Size+4*domain.Size)
	for row := 0; row < domain.Size; row++ {
		line := make([]domain.Move, 0, domain.Size)
		for col := 0; col < domain.Size; col++ {
			line = append(line, domain.Move{Row: row, Col: col})
		}
		lines = append(lines, line)
	}
	for col := 0; col < domain.Size; col++ {
		line := make([]domain.Move, 0, domain.Size)
		for row := 0; row < domain.Size; row++ {
			line = append(line, domain.Move{Row: row, Col: col})
		}
		lines = append(lines, line)
	}
	// "\" diagonals start on the top row or the left column.
	for col := 0; col < domain.Size; col++ {
		lines = appendDiagonal(lines, 0, col, 1, 1)
	}
	for row := 1; row < domain.Size; row++ {
		lines = appendDiagonal(lines, row, 0, 1, 1)
	}
	// "/" diagonals start on the top row or the right column.
	for col := 0; col < domain.Size; col++ {
		lines = appendDiagonal(lines, 0, col, 1, -1)
	}
	for row := 1; row < domain.Size; row++ {
		lines = appendDiagonal(lines, row, domain.Size-1, 1, -1)
	}
	return lines
}

func appendDiagonal(lines [][]domain.Move, row, col, dRow, dCol int) [][]domain.Move {
	var line []domain.Move
	for domain.InBounds(row, col) {
		line = append(line, domain.Move{Row: row, Col: col})
		row += dRow
		col += dCol
	}
	if len(line) < domain.WinLength {
		return lines
	}
	return append(lines, line)
}
