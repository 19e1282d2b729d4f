package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permission represents a sharing permission level
type Permission string

const (
	PermissionView Permission = "view" // Read-only access
	PermissionEdit Permission = "edit" // Read and write access
)

// IsValidPermission checks if a permission value is valid
func IsValidPermission(p string) bool {
	switch Permission(p) {
	case PermissionView, PermissionEdit:
		return true
	}
	return false
}

// Collection is the shareable container of tasks. Access to tasks and notes
// is always derived from their ancestor collection.
//
// Active is a soft-delete flag: once false the collection is invisible on
// every read path, including the owner's own listing and token lookup.
type Collection struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"ownerId"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Active          bool       `json:"-"`
	IsLinkShareable bool       `json:"isLinkShareable"`
	SharePermission Permission `json:"shareablePermission"`
	ShareToken      string     `json:"shareToken,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Computed fields (not stored in DB directly)
	IsOwner bool `json:"isOwner,omitempty"`
}

// NewCollection creates a collection with a generated ID and share token.
// The token is stable for the collection's lifetime; link sharing only
// controls whether it grants anything.
func NewCollection(ownerID, title string) (*Collection, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrCollectionOwnerRequired
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrCollectionTitleRequired
	}

	now := time.Now().UTC()

	return &Collection{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(title),
		Active:          true,
		IsLinkShareable: false,
		SharePermission: PermissionView,
		ShareToken:      GenerateShareToken(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// GenerateShareToken creates an unguessable token for link sharing
func GenerateShareToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// SetLinkSharing updates the link-share flag and permission in place.
// Existing per-user grants are unaffected.
func (c *Collection) SetLinkSharing(shareable bool, permission Permission) {
	c.IsLinkShareable = shareable
	c.SharePermission = permission
	c.UpdatedAt = time.Now().UTC()
}

// Collection errors
type CollectionError struct {
	Message string
}

func (e CollectionError) Error() string {
	return e.Message
}

var (
	ErrCollectionNotFound      = CollectionError{"collection not found"}
	ErrCollectionTitleRequired = CollectionError{"collection title is required"}
	ErrCollectionOwnerRequired = CollectionError{"owner ID is required"}
	ErrCollectionAccessDenied  = CollectionError{"access denied to collection"}
	ErrInvalidPermission       = CollectionError{"permission must be 'view' or 'edit'"}
)
