package bot

import "github.com/dysencn/gomoku-naive/internal/domain"

// Shape is a tactical classification of a run of stones, strongest first.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeFive
	ShapeLiveFour
	ShapeDeadFour
	ShapeLiveThree
	ShapeDeadThree
	ShapeLiveTwo
	numShapes
)

var shapeNames = [numShapes]string{
	ShapeNone:      "none",
	ShapeFive:      WeightFive,
	ShapeLiveFour:  WeightLiveFour,
	ShapeDeadFour:  WeightDeadFour,
	ShapeLiveThree: WeightLiveThree,
	ShapeDeadThree: WeightDeadThree,
	ShapeLiveTwo:   WeightLiveTwo,
}

func (s Shape) String() string {
	if s < 0 || s >= numShapes {
		return "unknown"
	}
	return shapeNames[s]
}

type shapeRule struct {
	shape    Shape
	patterns []string
}

// shapeRules is applied in order; a match consumes its own stones so that
// weaker rules cannot credit them again.
var shapeRules = [...]shapeRule{
	{ShapeFive, []string{"11111"}},
	{ShapeLiveFour, []string{"011110"}},
	{ShapeDeadFour, []string{"211110", "011112", "10111", "11011", "11101"}},
	{ShapeLiveThree, []string{"001110", "011100", "010110", "011010"}},
	{ShapeDeadThree, []string{"211100", "001112", "211010", "010112", "210110", "011012", "2011102", "10011", "11001", "10101"}},
	{ShapeLiveTwo, []string{"00110", "01100", "01010", "010010"}},
}

type shapeTally [numShapes]int

type weightTable [numShapes]float64

func newWeightTable(s Settings) weightTable {
	var w weightTable
	for shape := ShapeFive; shape < numShapes; shape++ {
		w[shape] = s.Weight(shape.String())
	}
	return w
}

func matchAt(line []byte, pattern string, start int) bool {
	if start+len(pattern) > len(line) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if line[start+i] != pattern[i] {
			return false
		}
	}
	return true
}

// findFirst returns the leftmost match of any pattern; at equal positions
// the earlier pattern wins.
func findFirst(line []byte, patterns []string) (int, int, bool) {
	for i := 0; i < len(line); i++ {
		for _, p := range patterns {
			if matchAt(line, p, i) {
				return i, len(p), true
			}
		}
	}
	return 0, 0, false
}

// classifyLine tallies the shapes found in an encoded line. The line is
// used as scratch space and is left with consumed stones neutralised.
func classifyLine(line []byte, tally *shapeTally) {
	for _, rule := range shapeRules {
		for {
			start, n, ok := findFirst(line, rule.patterns)
			if !ok {
				break
			}
			tally[rule.shape]++
			for i := start; i < start+n; i++ {
				if line[i] == symOwn {
					line[i] = symNeutral
				}
			}
		}
	}
}

func scoreLine(line []byte, weights *weightTable) float64 {
	var tally shapeTally
	classifyLine(line, &tally)
	score := 0.0
	for shape := ShapeFive; shape < numShapes; shape++ {
		score += float64(tally[shape]) * weights[shape]
	}
	return score
}

// ClassifyStone walks out from the stone at (row, col) along dir and
// classifies the run it belongs to by length and blocked ends. The board
// edge and opponent stones both block.
func ClassifyStone(b *domain.Board, row, col int, dir [2]int) Shape {
	player := b.At(row, col)
	if !player.IsPlayer() {
		return ShapeNone
	}
	forward := domain.CountInDirection(b, row, col, dir[0], dir[1], player)
	backward := domain.CountInDirection(b, row, col, -dir[0], -dir[1], player)
	count := 1 + forward + backward

	blocked := 0
	if !b.IsEmpty(row+dir[0]*(forward+1), col+dir[1]*(forward+1)) {
		blocked++
	}
	if !b.IsEmpty(row-dir[0]*(backward+1), col-dir[1]*(backward+1)) {
		blocked++
	}
	return shapeFor(count, blocked)
}

func shapeFor(count, blocked int) Shape {
	if count >= domain.WinLength {
		return ShapeFive
	}
	if blocked >= 2 {
		return ShapeNone
	}
	switch count {
	case 4:
		if blocked == 0 {
			return ShapeLiveFour
		}
		return ShapeDeadFour
	case 3:
		if blocked == 0 {
			return ShapeLiveThree
		}
		return ShapeDeadThree
	case 2:
		if blocked == 0 {
			return ShapeLiveTwo
		}
	}
	return ShapeNone
}

// ShapeCounts is a full-board tally of one player's shapes.
type ShapeCounts struct {
	Five      int `json:"five"`
	LiveFour  int `json:"liveFour"`
	DeadFour  int `json:"deadFour"`
	LiveThree int `json:"liveThree"`
	DeadThree int `json:"deadThree"`
	LiveTwo   int `json:"liveTwo"`
}

func (c *ShapeCounts) add(s Shape) {
	switch s {
	case ShapeFive:
		c.Five++
	case ShapeLiveFour:
		c.LiveFour++
	case ShapeDeadFour:
		c.DeadFour++
	case ShapeLiveThree:
		c.LiveThree++
	case ShapeDeadThree:
		c.DeadThree++
	case ShapeLiveTwo:
		c.LiveTwo++
	}
}

// CountShapes classifies every run of the player's stones on the four
// axes. A run is counted once, at its first stone along the axis.
func CountShapes(b *domain.Board, player domain.PlayerID) ShapeCounts {
	var counts ShapeCounts
	for row := 0; row < domain.Size; row++ {
		for col := 0; col < domain.Size; col++ {
			if b.At(row, col) != player {
				continue
			}
			for _, d := range domain.Directions {
				pr, pc := row-d[0], col-d[1]
				if domain.InBounds(pr, pc) && b.At(pr, pc) == player {
					continue
				}
				counts.add(ClassifyStone(b, row, col, d))
			}
		}
	}
	return counts
}
