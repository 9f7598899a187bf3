package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"swapmarket/pkg/logger"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID  string
	MatchID string
	Conn    *websocket.Conn
	Send    chan []byte
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				if client.MatchID != "" {
					if m.rooms[client.MatchID] == nil {
						m.rooms[client.MatchID] = make(map[string]*Client)
					}
					m.rooms[client.MatchID][client.UserID] = client
				}
				m.mutex.Unlock()
				logger.Debug("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				if client.MatchID != "" {
					if room, ok := m.rooms[client.MatchID]; ok {
						delete(room, client.UserID)
						if len(room) == 0 {
							delete(m.rooms, client.MatchID)
						}
					}
				}
				m.mutex.Unlock()
				logger.Debug("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser sends a message to a specific user
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok {
		select {
		case client.Send <- message:
		default:
		}
	}
}

// SendToMatchRoom fans a message out to every participant connected to the
// match's room.
func (m *Manager) SendToMatchRoom(matchID string, message []byte) {
	m.mutex.RLock()
	room := m.rooms[matchID]
	targets := make([]*Client, 0, len(room))
	for _, client := range room {
		targets = append(targets, client)
	}
	m.mutex.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- message:
		default:
		}
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read: %v", err)
			}
			break
		}

		logger.Debug("Received message from %s: %s", c.UserID, string(message))
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("websocket write: %v", err)
			return
		}
	}
}
