package domain

type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	Moves         []Move
}

// NewGame starts an empty board with Black to move.
func NewGame() *Game {
	return &Game{
		CurrentPlayer: Black,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

func (g *Game) MakeMove(player PlayerID, m Move) error {
	if g.Status != StatusActive {
		return ErrGameOver
	}
	if player != g.CurrentPlayer {
		return ErrNotYourTurn
	}
	if !m.IsValid() {
		return ErrOutOfBounds
	}
	if g.Board.At(m.Row, m.Col) != Empty {
		return ErrCellOccupied
	}

	g.Board.Place(m, player)
	g.MoveCount++
	g.Moves = append(g.Moves, m)

	if IsWinningMove(&g.Board, m, player) {
		g.Status = StatusWon
		g.Winner = player
		return nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return nil
	}

	g.CurrentPlayer = player.Opponent()
	return nil
}

// Resign ends the game in favour of the other side.
func (g *Game) Resign(player PlayerID) error {
	if g.Status != StatusActive {
		return ErrGameOver
	}
	g.Status = StatusResigned
	g.Winner = player.Opponent()
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Status != StatusActive
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.Moves) == 0 {
		return Move{}, false
	}
	return g.Moves[len(g.Moves)-1], true
}
