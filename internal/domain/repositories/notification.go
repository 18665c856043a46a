package repositories

import (
	"context"
	"time"

	"reqgen/internal/domain/models"
)

// NotificationRepository stores broadcast notifications and per-user read receipts
type NotificationRepository interface {
	// Create inserts a notification. ID and CreatedAt are assigned by the caller.
	Create(ctx context.Context, n *models.Notification) error

	// CreateReceipts inserts one read receipt per recipient
	CreateReceipts(ctx context.Context, receipts []models.UserNotification) error

	// ListForUser returns the user's notifications joined with read state, newest first
	ListForUser(ctx context.Context, userID string) ([]models.InboxItem, error)

	// ListReceipts returns every receipt of a notification
	ListReceipts(ctx context.Context, notificationID string) ([]models.UserNotification, error)

	// MarkRead flags the (notification, user) receipt as read.
	// An already-read receipt keeps its original ReadAt.
	// Returns domain.ErrNotFound if the pair does not exist
	MarkRead(ctx context.Context, notificationID, userID string, at time.Time) error

	// MarkAllRead flags every unread receipt of the user as read
	MarkAllRead(ctx context.Context, userID string, at time.Time) error
}
