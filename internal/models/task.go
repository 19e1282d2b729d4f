package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task belongs to exactly one collection. OwnerID records who created the
// task; it plays no part in access decisions, which always derive from the
// parent collection.
type Task struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	CollectionID string    `json:"collectionId"`
	Title        string    `json:"title"`
	Details      *string   `json:"details,omitempty"`
	DueDate      time.Time `json:"dueDate"`
	StartTime    string    `json:"startTime"` // "HH:MM", 24-hour clock
	EndTime      string    `json:"endTime"`
	Category     string    `json:"category"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewTask creates a task inside a collection
func NewTask(ownerID, collectionID, title string) (*Task, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrTaskOwnerRequired
	}
	if strings.TrimSpace(collectionID) == "" {
		return nil, ErrTaskCollectionRequired
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTaskTitleRequired
	}

	now := time.Now().UTC()
	return &Task{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		CollectionID: collectionID,
		Title:        strings.TrimSpace(title),
		Completed:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidClockTime reports whether s is a valid "HH:MM" time of day
func ValidClockTime(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Task errors
type TaskError struct {
	Message string
}

func (e TaskError) Error() string {
	return e.Message
}

var (
	ErrTaskNotFound           = TaskError{"task not found"}
	ErrTaskTitleRequired      = TaskError{"task title is required"}
	ErrTaskOwnerRequired      = TaskError{"task owner is required"}
	ErrTaskCollectionRequired = TaskError{"task collection is required"}
	ErrTaskAccessDenied       = TaskError{"access denied to task"}
	ErrTaskInvalidTime        = TaskError{"time must be in HH:MM format"}
)
