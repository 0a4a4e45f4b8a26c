package domain

import (
	"fmt"
	"strings"
)

// Board is the 15x15 grid indexed [row][col]. It is a plain array so it
// copies by value and compares with ==.
type Board [Size][Size]PlayerID

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

func NewBoard() *Board {
	return &Board{}
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func (m Move) IsValid() bool {
	return InBounds(m.Row, m.Col)
}

// At panics on out-of-range coordinates; callers check InBounds first.
func (b *Board) At(row, col int) PlayerID {
	return b[row][col]
}

func (b *Board) Place(m Move, player PlayerID) {
	b[m.Row][m.Col] = player
}

func (b *Board) Remove(m Move) {
	b[m.Row][m.Col] = Empty
}

func (b *Board) IsEmpty(row, col int) bool {
	return InBounds(row, col) && b[row][col] == Empty
}

func (b *Board) IsFull() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == Empty {
				return false
			}
		}
	}
	return true
}

func (b *Board) StoneCount() int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] != Empty {
				count++
			}
		}
	}
	return count
}

// Ints returns the [][]int snapshot format used on the wire.
func (b *Board) Ints() [][]int {
	out := make([][]int, Size)
	for row := range out {
		out[row] = make([]int, Size)
		for col := range out[row] {
			out[row][col] = int(b[row][col])
		}
	}
	return out
}

// FromInts builds a board from a wire snapshot, rejecting wrong dimensions
// and unknown cell values.
func FromInts(cells [][]int) (*Board, error) {
	if len(cells) != Size {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Size, len(cells))
	}
	b := NewBoard()
	for row, line := range cells {
		if len(line) != Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(line))
		}
		for col, v := range line {
			p := PlayerID(v)
			if p != Empty && !p.IsPlayer() {
				return nil, fmt.Errorf("%w: cell (%d,%d) = %d", ErrInvalidBoard, row, col, v)
			}
			b[row][col] = p
		}
	}
	return b, nil
}

// ParseBoard reads the text form: one row per line, '.' empty, 'X' black,
// 'O' white. Blank lines and spaces between cells are ignored.
func ParseBoard(text string) (*Board, error) {
	b := NewBoard()
	row := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
		if line == "" {
			continue
		}
		if row >= Size {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidBoard, Size)
		}
		if len(line) != Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(line))
		}
		for col := 0; col < Size; col++ {
			switch line[col] {
			case '.', '+', '-':
				b[row][col] = Empty
			case 'X', 'x', 'B', 'b':
				b[row][col] = Black
			case 'O', 'o', 'W', 'w':
				b[row][col] = White
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrInvalidBoard, line[col], row, col)
			}
		}
		row++
	}
	if row != Size {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Size, row)
	}
	return b, nil
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch b[row][col] {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
