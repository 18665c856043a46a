package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// PostgresNotificationRepository implements the NotificationRepository interface
type PostgresNotificationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(config *RepositoryConfig) repositories.NotificationRepository {
	return &PostgresNotificationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a notification
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, message, target_role, document_id, document_name, creator_role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Notifications)

	q := executor(ctx, r.pool)
	_, err := q.Exec(ctx, query,
		n.ID,
		n.Title,
		n.Message,
		n.TargetRole,
		n.DocumentID,
		n.DocumentName,
		n.CreatorRole,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// CreateReceipts inserts read receipts in one batch; existing pairs are skipped
func (r *PostgresNotificationRepository) CreateReceipts(ctx context.Context, receipts []models.UserNotification) error {
	if len(receipts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, notification_id, user_id, is_read, read_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (notification_id, user_id) DO NOTHING
	`, r.tables.UserNotifications)

	batch := &pgx.Batch{}
	for _, rc := range receipts {
		batch.Queue(query, rc.ID, rc.NotificationID, rc.UserID, rc.IsRead, rc.ReadAt)
	}

	q := executor(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range receipts {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("create notification receipts: %w", err)
		}
	}

	return nil
}

// ListForUser returns the user's inbox, newest first
func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID string) ([]models.InboxItem, error) {
	query := fmt.Sprintf(`
		SELECT n.id, n.title, n.message, n.target_role, n.document_id, n.document_name, n.creator_role, n.created_at,
			un.is_read, un.read_at
		FROM %s un
		JOIN %s n ON n.id = un.notification_id
		WHERE un.user_id = $1
		ORDER BY n.created_at DESC
	`, r.tables.UserNotifications, r.tables.Notifications)

	q := executor(ctx, r.pool)
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		if isInvalidText(err) {
			return []models.InboxItem{}, nil
		}
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]models.InboxItem, 0)
	for rows.Next() {
		var it models.InboxItem
		if err := rows.Scan(
			&it.ID,
			&it.Title,
			&it.Message,
			&it.TargetRole,
			&it.DocumentID,
			&it.DocumentName,
			&it.CreatorRole,
			&it.CreatedAt,
			&it.IsRead,
			&it.ReadAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return items, nil
}

// ListReceipts returns every receipt of a notification
func (r *PostgresNotificationRepository) ListReceipts(ctx context.Context, notificationID string) ([]models.UserNotification, error) {
	query := fmt.Sprintf(`
		SELECT id, notification_id, user_id, is_read, read_at
		FROM %s
		WHERE notification_id = $1
		ORDER BY user_id ASC
	`, r.tables.UserNotifications)

	q := executor(ctx, r.pool)
	rows, err := q.Query(ctx, query, notificationID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	receipts := make([]models.UserNotification, 0)
	for rows.Next() {
		var rc models.UserNotification
		if err := rows.Scan(&rc.ID, &rc.NotificationID, &rc.UserID, &rc.IsRead, &rc.ReadAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}

	return receipts, nil
}

// MarkRead flags one receipt as read, keeping an earlier read_at
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE notification_id = $1 AND user_id = $2
	`, r.tables.UserNotifications)

	q := executor(ctx, r.pool)
	result, err := q.Exec(ctx, query, notificationID, userID, at)
	if err != nil {
		if isInvalidText(err) {
			return fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
		}
		return fmt.Errorf("mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}

	return nil
}

// MarkAllRead flags every unread receipt of the user
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_read = TRUE, read_at = $2
		WHERE user_id = $1 AND is_read = FALSE
	`, r.tables.UserNotifications)

	q := executor(ctx, r.pool)
	result, err := q.Exec(ctx, query, userID, at)
	if err != nil {
		if isInvalidText(err) {
			return nil
		}
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	r.logger.Debug("marked notifications read", "user_id", userID, "count", result.RowsAffected())
	return nil
}
