package domain

// Outcome of CheckWinner.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeBlack
	OutcomeWhite
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlack:
		return "black"
	case OutcomeWhite:
		return "white"
	case OutcomeDraw:
		return "draw"
	default:
		return "continue"
	}
}

// Winner returns the winning player, or Empty for draw/continue.
func (o Outcome) Winner() PlayerID {
	switch o {
	case OutcomeBlack:
		return Black
	case OutcomeWhite:
		return White
	default:
		return Empty
	}
}

func (o Outcome) IsTerminal() bool {
	return o != OutcomeContinue
}

// Directions are the four board axes: horizontal, vertical, "\" and "/".
var Directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// CountInDirection counts the player's stones walking from (row, col),
// exclusive, along (dRow, dCol).
func CountInDirection(b *Board, row, col, dRow, dCol int, player PlayerID) int {
	count := 0
	r, c := row+dRow, col+dCol
	for InBounds(r, c) && b[r][c] == player {
		count++
		r += dRow
		c += dCol
	}
	return count
}

// HasFive reports whether player has WinLength or more in a row anywhere.
// Overlines count as a win.
func HasFive(b *Board, player PlayerID) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] != player {
				continue
			}
			for _, d := range Directions {
				// only start counting at the first stone of a run
				if InBounds(row-d[0], col-d[1]) && b[row-d[0]][col-d[1]] == player {
					continue
				}
				if 1+CountInDirection(b, row, col, d[0], d[1], player) >= WinLength {
					return true
				}
			}
		}
	}
	return false
}

// IsWinningMove checks only the lines through m, for callers that just
// placed a stone there.
func IsWinningMove(b *Board, m Move, player PlayerID) bool {
	for _, d := range Directions {
		total := 1 +
			CountInDirection(b, m.Row, m.Col, d[0], d[1], player) +
			CountInDirection(b, m.Row, m.Col, -d[0], -d[1], player)
		if total >= WinLength {
			return true
		}
	}
	return false
}

// CheckWinner checks both players before declaring a draw on a full board.
func CheckWinner(b *Board) Outcome {
	if HasFive(b, Black) {
		return OutcomeBlack
	}
	if HasFive(b, White) {
		return OutcomeWhite
	}
	if b.IsFull() {
		return OutcomeDraw
	}
	return OutcomeContinue
}
