package domain

// Client message types.
const (
	MsgStartGame = "start_game"
	MsgMove      = "move"
	MsgResign    = "resign"
)

// Server message types.
const (
	MsgGameStart = "game_start"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"
)

type ClientMessage struct {
	Type       string `json:"type"`
	Username   string `json:"username,omitempty"`
	Color      string `json:"color,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// BotMoveInfo carries the engine's statistics for the move it played.
type BotMoveInfo struct {
	Move         Move     `json:"move"`
	Score        float64  `json:"score"`
	SearchNodes  int64    `json:"searchNodes"`
	PruningCount int64    `json:"pruningCount"`
	SearchTimeMs int64    `json:"searchTimeMs"`
	Logs         []string `json:"logs,omitempty"`
}

type ServerMessage struct {
	Type        string       `json:"type"`
	Message     string       `json:"message,omitempty"`
	GameID      string       `json:"gameId,omitempty"`
	Opponent    string       `json:"opponent,omitempty"`
	YourPlayer  int          `json:"yourPlayer,omitempty"`
	CurrentTurn int          `json:"currentTurn,omitempty"`
	HumanMove   *Move        `json:"humanMove,omitempty"`
	BotMove     *BotMoveInfo `json:"botMove,omitempty"`
	Board       [][]int      `json:"board,omitempty"`
	NextTurn    int          `json:"nextTurn,omitempty"`
	Winner      string       `json:"winner,omitempty"`
	Reason      string       `json:"reason,omitempty"`
}
