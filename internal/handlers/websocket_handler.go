package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now - can be restricted in production
		return true
	},
}

// WebSocketHandler handles the live notification stream
type WebSocketHandler struct {
	hub         *services.NotificationHub
	userService *services.UserService
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *services.NotificationHub, userService *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		userService: userService,
	}
}

// HandleConnection upgrades HTTP to WebSocket for an authenticated user.
// Browsers cannot set custom headers on websocket dials, so the API key is
// also accepted as an apiKey query parameter.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		apiKey = r.URL.Query().Get("apiKey")
	}
	if apiKey == "" {
		http.Error(w, "API key is required", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetByAPIKey(r.Context(), apiKey)
	if err != nil {
		http.Error(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		observability.GetLogger().Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := h.hub.NewClient(uuid.New().String(), user.ID, conn)
	h.hub.Register(client)

	// Start the write pump in a goroutine
	go client.WritePump()

	// Run the read pump (blocks until connection closes)
	client.ReadPump(h.handleMessage)
}

// handleMessage processes incoming WebSocket messages. Clients only send
// pings; everything else flows server to client.
func (h *WebSocketHandler) handleMessage(client *services.WSClient, messageType int, data []byte) {
	if messageType != websocket.TextMessage {
		return
	}

	var msg services.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	if msg.Type == services.WSTypePing {
		reply, err := json.Marshal(services.WSMessage{Type: services.WSTypePong})
		if err != nil {
			return
		}
		select {
		case client.Send <- reply:
		default:
		}
	}
}
