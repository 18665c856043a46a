package services

import (
	"context"

	"reqgen/internal/domain/models"
)

// NotificationService creates broadcast notifications and manages read state
type NotificationService interface {
	// Publish stores the notification and creates one unread receipt per recipient.
	// TargetRole "all" reaches every admin and analyst user.
	// Runs inside the caller's transaction when ctx carries one.
	Publish(ctx context.Context, n *models.Notification) (*models.Notification, error)

	// ListForUser returns the user's notifications, newest first
	ListForUser(ctx context.Context, userID string) ([]models.InboxItem, error)

	// MarkRead is idempotent; marking an already-read notification succeeds
	MarkRead(ctx context.Context, notificationID, userID string) error

	// MarkAllRead marks every notification of the user as read
	MarkAllRead(ctx context.Context, userID string) error
}
