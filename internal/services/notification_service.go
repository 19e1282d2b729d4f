package services

import (
	"context"
	"fmt"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/repository"
)

// NotificationPublisher pushes a notification to any live connection the
// recipient holds. Delivery is best-effort.
type NotificationPublisher interface {
	Publish(userID string, n *models.Notification)
}

// NotificationService stores and lists notifications. Notifications are a
// side channel only; nothing here feeds back into access decisions.
type NotificationService struct {
	notificationRepo repository.NotificationRepo
	publisher        NotificationPublisher
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil when no live delivery channel is configured.
func NewNotificationService(notificationRepo repository.NotificationRepo, publisher NotificationPublisher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// Notify records a notification for the recipient and pushes it to any live
// connection they hold
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID, message string, link *string) error {
	n := models.NewNotification(recipientID, senderID, message, link)

	if err := s.notificationRepo.Add(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(recipientID, n)
	}

	observability.WithContext(ctx).WithField("recipient_id", recipientID).
		Debug("notification created")
	return nil
}

// List returns the actor's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actorID string) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.ListForRecipient(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the actor's unread notification count
func (s *NotificationService) UnreadCount(ctx context.Context, actorID string) (int, error) {
	count, err := s.notificationRepo.CountUnread(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkAllRead marks every notification of the actor as read
func (s *NotificationService) MarkAllRead(ctx context.Context, actorID string) error {
	if err := s.notificationRepo.MarkAllRead(ctx, actorID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
