package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planora/server/internal/middleware"
	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/services"
)

// NoteHandler handles note API endpoints
type NoteHandler struct {
	noteService *services.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// ListNotes returns notes across the user's collections, or notes of one
// task when ?task= is given
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := r.URL.Query().Get("task")
	notes, err := h.noteService.ListNotes(r.Context(), user.ID, taskID)
	if err != nil {
		if err == models.ErrTaskNotFound {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to list notes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notes)
}

// CreateNote creates a note under a task
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), user.ID, &req)
	if err != nil {
		h.writeNoteError(w, err, "Failed to create note")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)
}

// GetNote returns a note by ID
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "id")
	note, err := h.noteService.GetNote(r.Context(), noteID, user.ID)
	if err != nil {
		if err == models.ErrNoteNotFound {
			http.Error(w, "Note not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get note", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// UpdateNote updates a note
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "id")
	var req models.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	note, err := h.noteService.UpdateNote(r.Context(), noteID, user.ID, &req)
	if err != nil {
		h.writeNoteError(w, err, "Failed to update note")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// DeleteNote deletes a note
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	noteID := chi.URLParam(r, "id")
	if err := h.noteService.DeleteNote(r.Context(), noteID, user.ID); err != nil {
		h.writeNoteError(w, err, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) writeNoteError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case models.ErrNoteNotFound:
		http.Error(w, "Note not found", http.StatusNotFound)
	case models.ErrTaskNotFound:
		http.Error(w, "Task not found", http.StatusNotFound)
	case models.ErrNoteAccessDenied:
		http.Error(w, "Access denied", http.StatusForbidden)
	case models.ErrNoteTitleRequired:
		http.Error(w, "Title is required", http.StatusBadRequest)
	default:
		if _, ok := err.(models.NoteError); ok {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
