package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Message types
const (
	WSTypeNotification = "notification"
	WSTypeUnreadCount  = "unread_count"
	WSTypePing         = "ping"
	WSTypePong         = "pong"
	WSTypeError        = "error"
)

// WSClient is one authenticated websocket connection. A user may hold
// several at once (multiple tabs, devices).
type WSClient struct {
	ID         string
	UserID     string
	Conn       *websocket.Conn
	Send       chan []byte
	hub        *NotificationHub
	mu         sync.Mutex
	closedOnce sync.Once
}

// NotificationHub fans notifications out to live connections, keyed by user.
// Delivery is best-effort; the persisted notification row is the source of
// truth and clients reconcile through the list endpoint.
type NotificationHub struct {
	userConns  map[string]map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	outbound   chan *userMsg
	mu         sync.RWMutex
}

type userMsg struct {
	userID  string
	message []byte
}

// NewNotificationHub creates a new NotificationHub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		userConns:  make(map[string]map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		outbound:   make(chan *userMsg, 256),
	}
}

// Run starts the hub's main loop
func (h *NotificationHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*WSClient]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()
			observability.GetLogger().WithField("client_id", client.ID).
				Debug("websocket client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if userClients, ok := h.userConns[client.UserID]; ok {
				if _, ok := userClients[client]; ok {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.userConns, client.UserID)
					}
					close(client.Send)
				}
			}
			h.mu.Unlock()
			observability.GetLogger().WithField("client_id", client.ID).
				Debug("websocket client disconnected")

		case msg := <-h.outbound:
			h.mu.RLock()
			for client := range h.userConns[msg.userID] {
				select {
				case client.Send <- msg.message:
				default:
					// Client buffer full, close connection
					go func(c *WSClient) {
						h.unregister <- c
					}(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *NotificationHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *NotificationHub) Unregister(client *WSClient) {
	h.unregister <- client
}

// Publish sends a notification to every live connection of the recipient.
// Satisfies NotificationPublisher.
func (h *NotificationHub) Publish(userID string, n *models.Notification) {
	h.sendToUser(userID, WSMessage{Type: WSTypeNotification, Payload: n})
}

func (h *NotificationHub) sendToUser(userID string, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		observability.GetLogger().Errorf("failed to marshal websocket message: %v", err)
		return
	}

	h.outbound <- &userMsg{userID: userID, message: data}
}

// ClientCount returns the number of connected clients
func (h *NotificationHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.userConns {
		count += len(clients)
	}
	return count
}

// NewClient creates a client bound to this hub for an authenticated user
func (h *NotificationHub) NewClient(id, userID string, conn *websocket.Conn) *WSClient {
	return &WSClient{
		ID:     id,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		hub:    h,
	}
}

// Close closes the client connection
func (c *WSClient) Close() {
	c.closedOnce.Do(func() {
		c.hub.Unregister(c)
		c.Conn.Close()
	})
}

// WritePump pumps messages from the hub to the websocket connection
func (c *WSClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.mu.Lock()
			err := c.Conn.WriteMessage(websocket.TextMessage, message)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump pumps messages from the websocket connection to the hub
func (c *WSClient) ReadPump(onMessage func(client *WSClient, messageType int, data []byte)) {
	defer c.Close()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				observability.GetLogger().Warnf("websocket error: %v", err)
			}
			break
		}

		if onMessage != nil {
			onMessage(c, messageType, message)
		}
	}
}
