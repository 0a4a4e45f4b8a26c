package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

const writeWait = 10 * time.Second

// Client is one socket plus the game it is currently playing.
type Client struct {
	ID   string
	conn *websocket.Conn

	// gorilla allows one concurrent writer per connection
	writeMu sync.Mutex

	gameID string
}

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
	}
}

// AddConnection registers conn under connID.
func (cm *ConnectionManager) AddConnection(connID string, conn *websocket.Conn) *Client {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	client := &Client{ID: connID, conn: conn}
	cm.clients[connID] = client
	return client
}

// RemoveConnection closes and forgets the connection.
func (cm *ConnectionManager) RemoveConnection(connID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if client, exists := cm.clients[connID]; exists {
		client.conn.Close()
		delete(cm.clients, connID)
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// SendMessage writes a JSON message to one connection. A connection that
// is already gone is ignored.
func (cm *ConnectionManager) SendMessage(connID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	client, exists := cm.clients[connID]
	cm.mu.RUnlock()

	if !exists {
		return nil
	}
	return client.send(message)
}

func (c *Client) send(message domain.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}
