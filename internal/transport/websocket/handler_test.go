package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
	"github.com/dysencn/gomoku-naive/internal/service/game"
)

func newTestServer(t *testing.T) (*httptest.Server, *ConnectionManager) {
	t.Helper()
	sm := game.NewSessionManager(nil, nil, bot.DefaultSettings(), time.Hour, nil)
	cm := NewConnectionManager()
	h := NewHandler(cm, sm, []string{"http://localhost:5173"}, nil)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv, cm
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg domain.ClientMessage) domain.ServerMessage {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	return read(t, conn)
}

func read(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	var msg domain.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func stones(board [][]int) int {
	n := 0
	for _, row := range board {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

func TestPlayAndResign(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	start := send(t, conn, domain.ClientMessage{Type: domain.MsgStartGame, Username: "alice", Color: "black", Difficulty: "easy"})
	require.Equal(t, domain.MsgGameStart, start.Type, start.Message)
	assert.NotEmpty(t, start.GameID)
	assert.Equal(t, domain.BotUsername, start.Opponent)
	assert.Equal(t, 1, start.YourPlayer)
	assert.Equal(t, 1, start.CurrentTurn)
	assert.Zero(t, stones(start.Board))

	moved := send(t, conn, domain.ClientMessage{Type: domain.MsgMove, Row: 7, Col: 7})
	require.Equal(t, domain.MsgMoveMade, moved.Type, moved.Message)
	assert.Equal(t, &domain.Move{Row: 7, Col: 7}, moved.HumanMove)
	require.NotNil(t, moved.BotMove)
	assert.Positive(t, moved.BotMove.SearchNodes)
	assert.NotEmpty(t, moved.BotMove.Logs)
	assert.Equal(t, 1, moved.NextTurn)
	assert.Equal(t, 2, stones(moved.Board))

	occupied := send(t, conn, domain.ClientMessage{Type: domain.MsgMove, Row: 7, Col: 7})
	assert.Equal(t, domain.MsgError, occupied.Type)
	assert.Contains(t, occupied.Message, "occupied")

	over := send(t, conn, domain.ClientMessage{Type: domain.MsgResign})
	require.Equal(t, domain.MsgGameOver, over.Type, over.Message)
	assert.Equal(t, domain.BotUsername, over.Winner)
	assert.Equal(t, "resigned", over.Reason)

	late := send(t, conn, domain.ClientMessage{Type: domain.MsgMove, Row: 0, Col: 0})
	assert.Equal(t, domain.MsgError, late.Type)
}

func TestStartAsWhite(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	start := send(t, conn, domain.ClientMessage{Type: domain.MsgStartGame, Username: "bob", Color: "white"})

	require.Equal(t, domain.MsgGameStart, start.Type, start.Message)
	assert.Equal(t, 2, start.YourPlayer)
	assert.Equal(t, 2, start.CurrentTurn)
	assert.Equal(t, int(domain.Black), start.Board[7][7])
}

func TestReconnectResumesGame(t *testing.T) {
	srv, _ := newTestServer(t)
	first := dial(t, srv)
	start := send(t, first, domain.ClientMessage{Type: domain.MsgStartGame, Username: "carol", Difficulty: "easy"})
	require.Equal(t, domain.MsgGameStart, start.Type)
	moved := send(t, first, domain.ClientMessage{Type: domain.MsgMove, Row: 3, Col: 3})
	require.Equal(t, domain.MsgMoveMade, moved.Type)
	first.Close()

	second := dial(t, srv)
	resumed := send(t, second, domain.ClientMessage{Type: domain.MsgStartGame, GameID: start.GameID})

	require.Equal(t, domain.MsgGameStart, resumed.Type, resumed.Message)
	assert.Equal(t, start.GameID, resumed.GameID)
	assert.Equal(t, moved.Board, resumed.Board)

	missing := send(t, second, domain.ClientMessage{Type: domain.MsgStartGame, GameID: "nope"})
	assert.Equal(t, domain.MsgError, missing.Type)
	assert.Equal(t, "game not found", missing.Message)
}

func TestProtocolErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	noGame := send(t, conn, domain.ClientMessage{Type: domain.MsgMove, Row: 1, Col: 1})
	assert.Equal(t, domain.MsgError, noGame.Type)
	assert.Equal(t, "no game in progress", noGame.Message)

	unknown := send(t, conn, domain.ClientMessage{Type: "find_match"})
	assert.Equal(t, domain.MsgError, unknown.Type)

	badColour := send(t, conn, domain.ClientMessage{Type: domain.MsgStartGame, Color: "purple"})
	assert.Equal(t, domain.MsgError, badColour.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	garbage := read(t, conn)
	assert.Equal(t, domain.MsgError, garbage.Type)
	assert.Equal(t, "invalid message format", garbage.Message)
}

func TestRejectsUnknownOrigin(t *testing.T) {
	srv, _ := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConnectionsAreTracked(t *testing.T) {
	srv, cm := newTestServer(t)
	conn := dial(t, srv)

	send(t, conn, domain.ClientMessage{Type: "ping"})
	assert.Equal(t, 1, cm.Count())

	conn.Close()
	assert.Eventually(t, func() bool { return cm.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestMovesAreBoundToOwnGame(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := dial(t, srv)
	mallory := dial(t, srv)

	aliceStart := send(t, alice, domain.ClientMessage{Type: domain.MsgStartGame, Username: "alice", Difficulty: "easy"})
	require.Equal(t, domain.MsgGameStart, aliceStart.Type, aliceStart.Message)
	own := send(t, mallory, domain.ClientMessage{Type: domain.MsgStartGame, Username: "mallory", Difficulty: "easy"})
	require.Equal(t, domain.MsgGameStart, own.Type, own.Message)

	hijack := send(t, mallory, domain.ClientMessage{Type: domain.MsgMove, GameID: aliceStart.GameID, Row: 7, Col: 7})
	assert.Equal(t, domain.MsgError, hijack.Type)
	assert.Equal(t, "game does not belong to this connection", hijack.Message)

	resign := send(t, mallory, domain.ClientMessage{Type: domain.MsgResign, GameID: aliceStart.GameID})
	assert.Equal(t, domain.MsgError, resign.Type)

	// alice's game is untouched and still playable
	moved := send(t, alice, domain.ClientMessage{Type: domain.MsgMove, GameID: aliceStart.GameID, Row: 7, Col: 7})
	require.Equal(t, domain.MsgMoveMade, moved.Type, moved.Message)
	assert.Equal(t, 2, stones(moved.Board))

	mine := send(t, mallory, domain.ClientMessage{Type: domain.MsgMove, GameID: own.GameID, Row: 3, Col: 3})
	assert.Equal(t, domain.MsgMoveMade, mine.Type, mine.Message)
}
