package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a fire-and-forget record created as a side effect of a
// successful share action. It is never consulted by access decisions.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	SenderID    string    `json:"senderId"`
	Message     string    `json:"message"`
	Link        *string   `json:"link,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNotification creates a notification for a recipient
func NewNotification(recipientID, senderID, message string, link *string) *Notification {
	return &Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Message:     message,
		Link:        link,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}
}
