package models

import (
	"time"

	"github.com/google/uuid"
)

// SharedGrant is an explicit per-user share of a collection. One row per
// (collection, grantee) pair; re-sharing updates the permission in place.
type SharedGrant struct {
	ID           string     `json:"id"`
	CollectionID string     `json:"collectionId"`
	UserID       string     `json:"userId"`
	Permission   Permission `json:"permission"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewSharedGrant creates a grant for a collection/user pair
func NewSharedGrant(collectionID, userID string, permission Permission) *SharedGrant {
	return &SharedGrant{
		ID:           uuid.New().String(),
		CollectionID: collectionID,
		UserID:       userID,
		Permission:   permission,
		CreatedAt:    time.Now().UTC(),
	}
}

// SharedGrantWithUser includes grantee details for API responses
type SharedGrantWithUser struct {
	SharedGrant
	User *User `json:"user,omitempty"`
}
