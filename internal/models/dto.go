package models

import "time"

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns a fresh API key on successful login
type LoginResponse struct {
	User   UserResponse `json:"user"`
	APIKey string       `json:"apiKey"`
}

// CreateTaskRequest is the request body for creating a task
type CreateTaskRequest struct {
	CollectionID string  `json:"collection"`
	Title        string  `json:"title"`
	Details      *string `json:"details,omitempty"`
	DueDate      string  `json:"dueDate,omitempty"` // "2006-01-02"
	StartTime    string  `json:"startTime,omitempty"`
	EndTime      string  `json:"endTime,omitempty"`
	Category     string  `json:"category,omitempty"`
}

// UpdateTaskRequest is the request body for updating a task
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Details   *string `json:"details,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Category  *string `json:"category,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// CreateNoteRequest is the request body for creating a note
type CreateNoteRequest struct {
	TaskID  string `json:"task"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// UpdateNoteRequest is the request body for updating a note
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// UnreadCountResponse reports unread notifications
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// OutlookStatusResponse reports the calendar connection state
type OutlookStatusResponse struct {
	Connected bool   `json:"connected"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}
