package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
	"github.com/dysencn/gomoku-naive/internal/service/game"
	"github.com/dysencn/gomoku-naive/pkg/uid"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	guestName    = "guest"
)

// Sessions is what the socket handler needs from the game service.
type Sessions interface {
	CreateSession(ctx context.Context, username string, humanColor domain.PlayerID, difficulty bot.Difficulty) (*game.GameSession, error)
	Resume(ctx context.Context, gameID string) (*game.GameSession, error)
}

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager Sessions
	Upgrader       websocket.Upgrader

	// used when start_game names no difficulty
	DefaultDifficulty bot.Difficulty
	logger            *zap.SugaredLogger
}

// NewHandler creates a new WebSocket handler. Browsers must send one of
// allowedOrigins; clients without an Origin header are accepted.
func NewHandler(cm *ConnectionManager, sm Sessions, allowedOrigins []string, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &Handler{
		ConnManager:       cm,
		SessionManager:    sm,
		DefaultDifficulty: bot.DifficultyMedium,
		logger:            logger,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(r.Context(), conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	connID, err := uid.GenerateConnectionID()
	if err != nil {
		h.logger.Errorf("[WS] Failed to generate connection id: %v", err)
		conn.Close()
		return
	}
	client := h.ConnManager.AddConnection(connID, conn)
	h.logger.Infof("[WS] Connection %s opened", connID)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.RemoveConnection(connID)
		h.logger.Infof("[WS] Connection %s closed", connID)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger. WriteControl may run alongside WriteJSON.
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("[WS] Connection %s dropped: %v", connID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(client, "invalid message format")
			continue
		}
		h.processMessage(ctx, client, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(ctx context.Context, client *Client, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgStartGame:
		h.startGame(ctx, client, msg)

	case domain.MsgMove:
		gs, ok := h.currentGame(ctx, client, msg.GameID)
		if !ok {
			return
		}
		outcome, err := gs.HandleMove(ctx, domain.Move{Row: msg.Row, Col: msg.Col})
		if err != nil {
			h.sendError(client, err.Error())
			return
		}
		h.send(client, moveMadeMessage(gs, outcome))
		if outcome.Status != domain.StatusActive {
			h.send(client, gameOverMessage(gs, outcome.Winner, outcome.Board))
		}

	case domain.MsgResign:
		gs, ok := h.currentGame(ctx, client, msg.GameID)
		if !ok {
			return
		}
		if err := gs.Resign(ctx); err != nil {
			h.sendError(client, err.Error())
			return
		}
		state := gs.State()
		h.send(client, gameOverMessage(gs, state.Winner, state.Board))

	default:
		h.sendError(client, "unknown message type: "+msg.Type)
	}
}

// startGame creates a new game, or reattaches to msg.GameID when the
// client reconnects.
func (h *Handler) startGame(ctx context.Context, client *Client, msg domain.ClientMessage) {
	var (
		gs  *game.GameSession
		err error
	)
	if msg.GameID != "" {
		gs, err = h.SessionManager.Resume(ctx, msg.GameID)
	} else {
		color := domain.Black
		if msg.Color != "" {
			if color, err = domain.ParsePlayer(msg.Color); err != nil {
				h.sendError(client, err.Error())
				return
			}
		}
		username := strings.TrimSpace(msg.Username)
		if username == "" {
			username = guestName
		}
		difficulty := bot.ParseDifficulty(msg.Difficulty)
		if msg.Difficulty == "" && h.DefaultDifficulty != "" {
			difficulty = h.DefaultDifficulty
		}
		gs, err = h.SessionManager.CreateSession(ctx, username, color, difficulty)
	}
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			h.sendError(client, "game not found")
			return
		}
		h.sendError(client, err.Error())
		return
	}

	client.gameID = gs.GameID
	state := gs.State()
	h.send(client, domain.ServerMessage{
		Type:        domain.MsgGameStart,
		GameID:      gs.GameID,
		Opponent:    domain.BotUsername,
		YourPlayer:  int(gs.HumanColor),
		CurrentTurn: int(state.CurrentPlayer),
		Board:       state.Board,
	})
}

// currentGame returns the game bound to this connection by start_game.
// A message naming any other game is refused.
func (h *Handler) currentGame(ctx context.Context, client *Client, gameID string) (*game.GameSession, bool) {
	if client.gameID == "" {
		h.sendError(client, "no game in progress")
		return nil, false
	}
	if gameID != "" && gameID != client.gameID {
		h.sendError(client, "game does not belong to this connection")
		return nil, false
	}
	gs, err := h.SessionManager.Resume(ctx, client.gameID)
	if err != nil {
		h.sendError(client, "game not found")
		return nil, false
	}
	return gs, true
}

func moveMadeMessage(gs *game.GameSession, outcome *game.MoveOutcome) domain.ServerMessage {
	human := outcome.HumanMove
	msg := domain.ServerMessage{
		Type:      domain.MsgMoveMade,
		GameID:    gs.GameID,
		HumanMove: &human,
		Board:     outcome.Board,
	}
	if outcome.Status == domain.StatusActive {
		msg.NextTurn = int(outcome.NextTurn)
	}
	if outcome.BotMove != nil {
		info := &domain.BotMoveInfo{Move: *outcome.BotMove}
		if r := outcome.BotResult; r != nil {
			info.Score = r.Score
			info.SearchNodes = r.SearchNodes
			info.PruningCount = r.PruningCount
			info.SearchTimeMs = r.SearchTime.Milliseconds()
			for _, entry := range r.Logs {
				info.Logs = append(info.Logs, entry.Message)
			}
		}
		msg.BotMove = info
	}
	return msg
}

func gameOverMessage(gs *game.GameSession, winner domain.PlayerID, board [][]int) domain.ServerMessage {
	return domain.ServerMessage{
		Type:   domain.MsgGameOver,
		GameID: gs.GameID,
		Winner: gs.NameOf(winner),
		Reason: gs.FinishReason(),
		Board:  board,
	}
}

func (h *Handler) send(client *Client, msg domain.ServerMessage) {
	if err := client.send(msg); err != nil {
		h.logger.Warnf("[WS] Failed to send %s to %s: %v", msg.Type, client.ID, err)
	}
}

func (h *Handler) sendError(client *Client, message string) {
	h.send(client, domain.ServerMessage{Type: domain.MsgError, Message: message})
}
