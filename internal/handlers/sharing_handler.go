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

// SharingHandler handles share grant and link-share API endpoints
type SharingHandler struct {
	sharingService *services.SharingService
	metrics        *observability.BusinessMetrics
}

// NewSharingHandler creates a new SharingHandler
func NewSharingHandler(sharingService *services.SharingService, metrics *observability.BusinessMetrics) *SharingHandler {
	return &SharingHandler{
		sharingService: sharingService,
		metrics:        metrics,
	}
}

// Share grants users access to a collection by username
func (h *SharingHandler) Share(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.sharingService.Share(r.Context(), user, &req)
	if err != nil {
		if err == models.ErrInvalidPermission {
			http.Error(w, "Permission must be 'view' or 'edit'", http.StatusBadRequest)
			return
		}
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to share collection", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		for range response.SharedWith {
			h.metrics.RecordShareGranted(r.Context(), response.Permission)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UnshareAll removes every grant from a collection
func (h *SharingHandler) UnshareAll(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if err := h.sharingService.UnshareAll(r.Context(), user.ID, collectionID); err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to unshare collection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSharedUsers lists the usernames a collection is shared with
func (h *SharingHandler) GetSharedUsers(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	usernames, err := h.sharingService.GetSharedUsers(r.Context(), user.ID, collectionID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to get shared users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SharedUsersResponse{SharedUsers: usernames})
}

// GetLinkSettings returns a collection's link-share settings
func (h *SharingHandler) GetLinkSettings(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	response, err := h.sharingService.GetLinkSettings(r.Context(), user.ID, collectionID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to get link settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateLinkSettings updates a collection's link-share flag and permission
func (h *SharingHandler) UpdateLinkSettings(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	var req models.LinkShareSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.sharingService.UpdateLinkSettings(r.Context(), user.ID, collectionID, &req)
	if err != nil {
		if err == models.ErrInvalidPermission {
			http.Error(w, "Permission must be 'view' or 'edit'", http.StatusBadRequest)
			return
		}
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to update link settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// AddToShared adds a link-shared collection to the caller's listings
func (h *SharingHandler) AddToShared(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := chi.URLParam(r, "token")
	collection, err := h.sharingService.AddToShared(r.Context(), user.ID, token)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to add collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}
