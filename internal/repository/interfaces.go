package repository

import (
	"context"

	"github.com/planora/server/internal/models"
)

// UserRepo defines the interface for user persistence operations
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*models.User, error)
	GetByUsernames(ctx context.Context, usernames []string) ([]*models.User, error)
	Add(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdateAPIKeyHash(ctx context.Context, id, apiKeyHash string) error
	Delete(ctx context.Context, id string) error
}

// CollectionRepo defines the interface for collection persistence operations
type CollectionRepo interface {
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	GetByShareToken(ctx context.Context, token string) (*models.Collection, error)
	ListAccessible(ctx context.Context, actorID string) ([]*models.Collection, error)
	ListSharedWith(ctx context.Context, actorID string) ([]*models.Collection, error)
	ListOwned(ctx context.Context, ownerID string) ([]*models.Collection, error)
	Add(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, collection *models.Collection) error
	SoftDelete(ctx context.Context, id string) error
}

// SharedGrantRepo defines the interface for the access grant ledger
type SharedGrantRepo interface {
	Get(ctx context.Context, collectionID, userID string) (*models.SharedGrant, error)
	GetByCollectionID(ctx context.Context, collectionID string) ([]*models.SharedGrant, error)
	GetGranteesWithUsers(ctx context.Context, collectionID string) ([]*models.SharedGrantWithUser, error)
	Upsert(ctx context.Context, grant *models.SharedGrant) error
	Remove(ctx context.Context, collectionID, userID string) error
	RemoveAll(ctx context.Context, collectionID string) error
}

// TaskRepo defines the interface for task persistence operations
type TaskRepo interface {
	GetByID(ctx context.Context, id string) (*models.Task, error)
	ListAccessible(ctx context.Context, actorID string) ([]*models.Task, error)
	ListByCollection(ctx context.Context, collectionID string) ([]*models.Task, error)
	Add(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// NoteRepo defines the interface for note persistence operations
type NoteRepo interface {
	GetByID(ctx context.Context, id string) (*models.Note, error)
	ListAccessible(ctx context.Context, actorID string) ([]*models.Note, error)
	ListByTask(ctx context.Context, taskID string) ([]*models.Note, error)
	Add(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepo defines the interface for the notification sink
type NotificationRepo interface {
	Add(ctx context.Context, n *models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkAllRead(ctx context.Context, recipientID string) error
}

// VerificationTokenRepo defines the interface for email verification tokens
type VerificationTokenRepo interface {
	Add(ctx context.Context, token *models.VerificationToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.VerificationToken, error)
	MarkUsed(ctx context.Context, token *models.VerificationToken) error
	DeleteExpired(ctx context.Context) error
}

// OutlookTokenRepo defines the interface for calendar token storage
type OutlookTokenRepo interface {
	GetByUserID(ctx context.Context, userID string) (*models.OutlookToken, error)
	Upsert(ctx context.Context, token *models.OutlookToken) error
	Delete(ctx context.Context, userID string) error
}
