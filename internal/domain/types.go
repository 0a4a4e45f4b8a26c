package domain

const BotUsername = "BOT"

type PlayerID int

const (
	Empty PlayerID = 0
	Black PlayerID = 1
	White PlayerID = 2
)

const (
	Size      = 15
	WinLength = 5
)

func (p PlayerID) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Opponent returns the other side. Empty has no opponent and maps to itself.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (p PlayerID) IsPlayer() bool {
	return p == Black || p == White
}

// ParsePlayer accepts "black"/"white" as well as the 1/2 ids the UI sends.
func ParsePlayer(s string) (PlayerID, error) {
	switch s {
	case "black", "Black", "BLACK", "1", "X", "x":
		return Black, nil
	case "white", "White", "WHITE", "2", "O", "o":
		return White, nil
	}
	return Empty, ErrInvalidPlayer
}

// to represent the game status
type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusWon      GameStatus = "won"
	StatusDraw     GameStatus = "draw"
	StatusResigned GameStatus = "resigned"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove     Error = "invalid move"
	ErrCellOccupied    Error = "cell is occupied"
	ErrOutOfBounds     Error = "coordinates out of bounds"
	ErrGameOver        Error = "game is already over"
	ErrNotYourTurn     Error = "not your turn"
	ErrInvalidBoard    Error = "invalid board"
	ErrInvalidPlayer   Error = "invalid player"
	ErrSessionNotFound Error = "session not found"
	ErrGameNotFound    Error = "game not found"
)
