package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planora/server/internal/middleware"
	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/services"
)

// UserHandler handles account API endpoints
type UserHandler struct {
	userService *services.UserService
	metrics     *observability.BusinessMetrics
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, metrics *observability.BusinessMetrics) *UserHandler {
	return &UserHandler{
		userService: userService,
		metrics:     metrics,
	}
}

// Register creates a new inactive account and sends the verification email
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch err {
		case models.ErrUsernameExists:
			http.Error(w, "Username already registered", http.StatusConflict)
		case models.ErrEmailExists:
			http.Error(w, "Email already registered", http.StatusConflict)
		default:
			if _, ok := err.(models.UserError); ok {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to register", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user.ToResponse())
}

// VerifyEmail consumes a verification token and activates the account
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "Verification token required", http.StatusBadRequest)
		return
	}

	user, err := h.userService.VerifyEmail(r.Context(), token)
	if err != nil {
		switch err {
		case models.ErrTokenNotFound:
			http.Error(w, "Verification token not found", http.StatusNotFound)
		case models.ErrTokenExpired:
			http.Error(w, "Verification token has expired", http.StatusGone)
		case models.ErrTokenUsed:
			http.Error(w, "Verification token already used", http.StatusConflict)
		default:
			http.Error(w, "Failed to verify email", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.ToResponse())
}

// Login checks credentials and returns a fresh API key
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.userService.Login(r.Context(), &req)
	if h.metrics != nil {
		h.metrics.RecordAuthAttempt(r.Context(), "password", err == nil)
	}
	if err != nil {
		switch err {
		case models.ErrInvalidLogin:
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		case models.ErrAccountInactive:
			http.Error(w, "Account is not activated", http.StatusForbidden)
		default:
			http.Error(w, "Failed to log in", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Me returns the authenticated user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.ToResponse())
}

// Deactivate marks the authenticated account inactive
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.userService.Deactivate(r.Context(), user.ID); err != nil {
		http.Error(w, "Failed to deactivate account", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount permanently deletes the authenticated account and all its
// content
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), user.ID); err != nil {
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
