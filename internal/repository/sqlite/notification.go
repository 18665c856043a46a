package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// NotificationRepository implements repositories.NotificationRepository on gorm
type NotificationRepository struct {
	db     *gorm.DB
	tables *Tables
	logger *slog.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(cfg *Config) repositories.NotificationRepository {
	return &NotificationRepository{db: cfg.DB, tables: cfg.Tables, logger: cfg.Logger}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := conn(ctx, r.db).Table(r.tables.Notifications).Create(newNotificationRow(n)).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// CreateReceipts inserts receipts in one statement; existing pairs are skipped
func (r *NotificationRepository) CreateReceipts(ctx context.Context, receipts []models.UserNotification) error {
	if len(receipts) == 0 {
		return nil
	}

	rows := make([]receiptRow, len(receipts))
	for i, rc := range receipts {
		rows[i] = receiptRow{
			ID:             rc.ID,
			NotificationID: rc.NotificationID,
			UserID:         rc.UserID,
			IsRead:         rc.IsRead,
			ReadAt:         rc.ReadAt,
		}
	}

	err := conn(ctx, r.db).Table(r.tables.UserNotifications).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("create notification receipts: %w", err)
	}
	return nil
}

// ListForUser returns the user's inbox, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]models.InboxItem, error) {
	var rows []inboxRow
	err := conn(ctx, r.db).
		Table(r.tables.UserNotifications+" AS un").
		Select("n.id, n.title, n.message, n.target_role, n.document_id, n.document_name, n.creator_role, n.created_at, un.is_read, un.read_at").
		Joins(fmt.Sprintf("JOIN %s AS n ON n.id = un.notification_id", r.tables.Notifications)).
		Where("un.user_id = ?", userID).
		Order("n.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	items := make([]models.InboxItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].model())
	}
	return items, nil
}

// ListReceipts returns every receipt of a notification
func (r *NotificationRepository) ListReceipts(ctx context.Context, notificationID string) ([]models.UserNotification, error) {
	var rows []receiptRow
	err := conn(ctx, r.db).Table(r.tables.UserNotifications).
		Where("notification_id = ?", notificationID).
		Order("user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}

	receipts := make([]models.UserNotification, 0, len(rows))
	for i := range rows {
		receipts = append(receipts, rows[i].model())
	}
	return receipts, nil
}

// MarkRead flags one receipt as read, keeping an earlier read_at
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string, at time.Time) error {
	res := conn(ctx, r.db).Table(r.tables.UserNotifications).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("COALESCE(read_at, ?)", at),
		})
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}
	return nil
}

// MarkAllRead flags every unread receipt of the user
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	res := conn(ctx, r.db).Table(r.tables.UserNotifications).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	r.logger.Debug("marked notifications read", "user_id", userID, "count", res.RowsAffected)
	return nil
}
