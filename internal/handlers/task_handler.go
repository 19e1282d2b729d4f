package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planora/server/internal/middleware"
	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/services"
)

// TaskHandler handles task API endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks across the user's collections, or tasks of one
// collection when ?collection= is given
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := r.URL.Query().Get("collection")
	tasks, err := h.taskService.ListTasks(r.Context(), user.ID, collectionID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// CreateTask creates a task in a writable collection
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, &req)
	if err != nil {
		h.writeTaskError(w, err, "Failed to create task")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// GetTask returns a task by ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")
	task, err := h.taskService.GetTask(r.Context(), taskID, user.ID)
	if err != nil {
		if err == models.ErrTaskNotFound {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// UpdateTask updates a task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")
	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, user.ID, &req)
	if err != nil {
		h.writeTaskError(w, err, "Failed to update task")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// ToggleTask flips a task's completed flag
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")
	task, err := h.taskService.ToggleTask(r.Context(), taskID, user.ID)
	if err != nil {
		h.writeTaskError(w, err, "Failed to toggle task")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")
	if err := h.taskService.DeleteTask(r.Context(), taskID, user.ID); err != nil {
		h.writeTaskError(w, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeTaskError maps task service errors to HTTP responses. Invisible
// resources are 404, readable-but-not-writable ones 403, validation 400.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case models.ErrTaskNotFound:
		http.Error(w, "Task not found", http.StatusNotFound)
	case models.ErrCollectionNotFound:
		http.Error(w, "Collection not found", http.StatusNotFound)
	case models.ErrTaskAccessDenied:
		http.Error(w, "Access denied", http.StatusForbidden)
	case models.ErrTaskTitleRequired:
		http.Error(w, "Title is required", http.StatusBadRequest)
	case models.ErrTaskCollectionRequired:
		http.Error(w, "Collection is required", http.StatusBadRequest)
	case models.ErrTaskInvalidTime:
		http.Error(w, "Time must be in HH:MM format", http.StatusBadRequest)
	default:
		if _, ok := err.(models.TaskError); ok {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
