package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note belongs to exactly one task. Access derives transitively through
// the task's collection; UserID records the creator only.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TaskID    string    `json:"taskId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewNote creates a note under a task
func NewNote(userID, taskID, title, content string) (*Note, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNoteUserRequired
	}
	if strings.TrimSpace(taskID) == "" {
		return nil, ErrNoteTaskRequired
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrNoteTitleRequired
	}

	now := time.Now().UTC()
	return &Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		TaskID:    taskID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Note errors
type NoteError struct {
	Message string
}

func (e NoteError) Error() string {
	return e.Message
}

var (
	ErrNoteNotFound      = NoteError{"note not found"}
	ErrNoteTitleRequired = NoteError{"note title is required"}
	ErrNoteUserRequired  = NoteError{"note user is required"}
	ErrNoteTaskRequired  = NoteError{"note task is required"}
	ErrNoteAccessDenied  = NoteError{"access denied to note"}
)
