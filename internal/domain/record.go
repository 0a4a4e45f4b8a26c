package domain

import "time"

// GameRecord is a finished game as stored in history.
type GameRecord struct {
	GameID         string         `json:"id"`
	Username       string         `json:"username"`
	HumanColor     PlayerID       `json:"humanColor"`
	Difficulty     string         `json:"difficulty"`
	Winner         PlayerID       `json:"winner"`
	WinnerUsername string         `json:"winnerUsername"`
	Status         GameStatus     `json:"status"`
	Reason         string         `json:"reason"`
	TotalMoves     int            `json:"totalMoves"`
	Moves          []Move         `json:"moves"`
	Board          [][]int        `json:"board"`
	AIMoves        []AIMoveRecord `json:"aiMoves,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	FinishedAt     time.Time      `json:"finishedAt"`
}

// AIMoveRecord keeps the search statistics of one engine move.
type AIMoveRecord struct {
	Ply        int     `json:"ply"`
	Move       Move    `json:"move"`
	Score      float64 `json:"score"`
	Nodes      int64   `json:"nodes"`
	Prunings   int64   `json:"prunings"`
	DurationMs int64   `json:"durationMs"`
}

// SessionSnapshot is the resumable state of a live game.
type SessionSnapshot struct {
	GameID        string     `json:"gameId"`
	Username      string     `json:"username"`
	HumanColor    PlayerID   `json:"humanColor"`
	Difficulty    string     `json:"difficulty"`
	Board         [][]int    `json:"board"`
	CurrentPlayer PlayerID   `json:"currentPlayer"`
	Status        GameStatus `json:"status"`
	Winner        PlayerID   `json:"winner"`
	Moves         []Move     `json:"moves"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
