package repository

import (
	"context"
	"database/sql"

	"github.com/planora/server/internal/models"
)

// NotificationRepository implements NotificationRepo for PostgreSQL/SQLite
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Add(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (id, recipient_id, sender_id, message, link, is_read, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.SenderID, n.Message, n.Link, n.IsRead, n.CreatedAt)
	return err
}

// ListForRecipient returns the user's notifications, newest first
func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	query := `SELECT id, recipient_id, sender_id, message, link, is_read, created_at
			  FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	return err
}
