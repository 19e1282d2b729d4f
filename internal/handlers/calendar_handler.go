package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/planora/server/internal/middleware"
	"github.com/planora/server/internal/services"
)

// CalendarHandler handles the Outlook calendar connection endpoints
type CalendarHandler struct {
	calendarService *services.CalendarService

	// pending OAuth states, state -> (userID, issued-at)
	mu     sync.Mutex
	states map[string]pendingState
}

type pendingState struct {
	userID   string
	issuedAt time.Time
}

// NewCalendarHandler creates a new CalendarHandler. calendarService may be
// nil when the integration is not configured.
func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		states:          make(map[string]pendingState),
	}
}

// Connect starts the OAuth dance and returns the Microsoft consent URL
func (h *CalendarHandler) Connect(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.calendarService == nil {
		http.Error(w, "Calendar integration is not configured", http.StatusNotImplemented)
		return
	}

	url, state, err := h.calendarService.ConnectURL()
	if err != nil {
		http.Error(w, "Failed to start calendar connection", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.pruneStates()
	h.states[state] = pendingState{userID: user.ID, issuedAt: time.Now()}
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"authUrl": url})
}

// Callback completes the OAuth dance. Microsoft redirects here with the
// code and the state issued by Connect.
func (h *CalendarHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.calendarService == nil {
		http.Error(w, "Calendar integration is not configured", http.StatusNotImplemented)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		http.Error(w, "Missing state or code", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	pending, ok := h.states[state]
	delete(h.states, state)
	h.mu.Unlock()

	if !ok || time.Since(pending.issuedAt) > 10*time.Minute {
		http.Error(w, "Invalid or expired state", http.StatusBadRequest)
		return
	}

	if err := h.calendarService.HandleCallback(r.Context(), pending.userID, code); err != nil {
		http.Error(w, "Failed to complete calendar connection", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "connected"})
}

// Status reports whether the user's calendar is connected
func (h *CalendarHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.calendarService == nil {
		http.Error(w, "Calendar integration is not configured", http.StatusNotImplemented)
		return
	}

	status, err := h.calendarService.Status(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to get calendar status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// Disconnect removes the user's calendar connection
func (h *CalendarHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.calendarService == nil {
		http.Error(w, "Calendar integration is not configured", http.StatusNotImplemented)
		return
	}

	if err := h.calendarService.Disconnect(r.Context(), user.ID); err != nil {
		http.Error(w, "Failed to disconnect calendar", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pruneStates drops stale pending states. Caller holds the lock.
func (h *CalendarHandler) pruneStates() {
	for state, pending := range h.states {
		if time.Since(pending.issuedAt) > 10*time.Minute {
			delete(h.states, state)
		}
	}
}
