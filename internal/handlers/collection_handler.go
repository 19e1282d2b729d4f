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

// CollectionHandler handles collection API endpoints
type CollectionHandler struct {
	collectionService *services.CollectionService
	metrics           *observability.BusinessMetrics
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *services.CollectionService, metrics *observability.BusinessMetrics) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		metrics:           metrics,
	}
}

// ListCollections returns collections owned by and explicitly shared with
// the user. Link-only collections never show up here.
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collections, err := h.collectionService.ListCollections(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to list collections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collections)
}

// ListSharedCollections returns collections shared with the user
func (h *CollectionHandler) ListSharedCollections(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collections, err := h.collectionService.ListSharedCollections(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to list shared collections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collections)
}

// CreateCollection creates a new collection
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.CreateCollection(r.Context(), user.ID, &req)
	if err != nil {
		if err == models.ErrCollectionTitleRequired {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create collection", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCollectionCreated(r.Context(), user.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(collection)
}

// GetCollection returns a collection with its tasks
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	response, err := h.collectionService.GetCollectionWithTasks(r.Context(), collectionID, user.ID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetSharedPage returns a collection by share token. This is a public
// endpoint; only active link-shareable collections resolve.
func (h *CollectionHandler) GetSharedPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "Share token required", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.GetCollectionByToken(r.Context(), token)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}

// UpdateCollection updates a collection's title/description
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	var req models.UpdateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.UpdateCollection(r.Context(), collectionID, user.ID, &req)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		if err == models.ErrCollectionTitleRequired {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}

// DeleteCollection soft-deletes a collection
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if err := h.collectionService.DeleteCollection(r.Context(), collectionID, user.ID); err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrCollectionAccessDenied {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to delete collection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
