package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// NotificationRepository implements repositories.NotificationRepository over a Store
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository creates a new in-memory notification repository
func NewNotificationRepository(store *Store) repositories.NotificationRepository {
	return &NotificationRepository{store: store}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.notifications[n.ID] = *n
	r.store.notifOrder = append(r.store.notifOrder, n.ID)
	r.store.markDirty()
	return nil
}

// CreateReceipts stores read receipts, skipping pairs that already exist
func (r *NotificationRepository) CreateReceipts(ctx context.Context, receipts []models.UserNotification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, receipt := range receipts {
		if _, ok := r.store.notifications[receipt.NotificationID]; !ok {
			return fmt.Errorf("notification %s: %w", receipt.NotificationID, domain.ErrNotFound)
		}
		if r.findReceiptLocked(receipt.NotificationID, receipt.UserID) >= 0 {
			continue
		}
		r.store.receipts = append(r.store.receipts, receipt)
	}
	r.store.markDirty()
	return nil
}

// ListForUser returns the user's notifications with read state, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]models.InboxItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := make([]models.InboxItem, 0)
	for _, receipt := range r.store.receipts {
		if receipt.UserID != userID {
			continue
		}
		n, ok := r.store.notifications[receipt.NotificationID]
		if !ok {
			continue
		}
		items = append(items, models.InboxItem{
			Notification: n,
			IsRead:       receipt.IsRead,
			ReadAt:       receipt.ReadAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// ListReceipts returns every receipt of a notification
func (r *NotificationRepository) ListReceipts(ctx context.Context, notificationID string) ([]models.UserNotification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	receipts := make([]models.UserNotification, 0)
	for _, receipt := range r.store.receipts {
		if receipt.NotificationID == notificationID {
			receipts = append(receipts, receipt)
		}
	}
	return receipts, nil
}

// MarkRead flags a receipt as read, keeping the first ReadAt
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.findReceiptLocked(notificationID, userID)
	if i < 0 {
		return fmt.Errorf("notification %s for user %s: %w", notificationID, userID, domain.ErrNotFound)
	}

	receipt := &r.store.receipts[i]
	if receipt.IsRead {
		return nil
	}
	receipt.IsRead = true
	receipt.ReadAt = &at
	r.store.markDirty()
	return nil
}

// MarkAllRead flags every unread receipt of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.receipts {
		receipt := &r.store.receipts[i]
		if receipt.UserID != userID || receipt.IsRead {
			continue
		}
		readAt := at
		receipt.IsRead = true
		receipt.ReadAt = &readAt
		r.store.markDirty()
	}
	return nil
}

// findReceiptLocked returns the receipt index or -1. Caller holds mu.
func (r *NotificationRepository) findReceiptLocked(notificationID, userID string) int {
	for i, receipt := range r.store.receipts {
		if receipt.NotificationID == notificationID && receipt.UserID == userID {
			return i
		}
	}
	return -1
}
