package docsystem

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/domain/services"
)

// notificationService implements the NotificationService interface
type notificationService struct {
	notifRepo repositories.NotificationRepository
	userRepo  repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

// recipientRoles expands a target role to the roles whose users receive it
func recipientRoles(target string) []models.Role {
	if target == models.TargetAll {
		return []models.Role{models.RoleAdmin, models.RoleAnalyst}
	}
	return []models.Role{models.Role(target)}
}

// Publish stores n and fans it out to its recipients
func (s *notificationService) Publish(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	err := validation.ValidateStruct(n,
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.Message, validation.Required),
		validation.Field(&n.TargetRole, validation.Required, validation.In(
			models.TargetAll, string(models.RoleAdmin), string(models.RoleAnalyst), string(models.RoleClient),
		)),
	)
	if err != nil {
		return nil, toValidationError(err)
	}

	n.ID = uuid.NewString()
	n.CreatedAt = s.now().UTC()

	var recipients int
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		users, err := s.userRepo.ListByRoles(txCtx, recipientRoles(n.TargetRole)...)
		if err != nil {
			return err
		}

		if err := s.notifRepo.Create(txCtx, n); err != nil {
			return err
		}

		receipts := make([]models.UserNotification, 0, len(users))
		for _, u := range users {
			receipts = append(receipts, models.UserNotification{
				ID:             uuid.NewString(),
				NotificationID: n.ID,
				UserID:         u.ID,
			})
		}
		recipients = len(receipts)
		return s.notifRepo.CreateReceipts(txCtx, receipts)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("notification published",
		"id", n.ID,
		"title", n.Title,
		"target_role", n.TargetRole,
		"recipients", recipients,
	)

	return n, nil
}

// ListForUser returns the user's inbox, newest first
func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]models.InboxItem, error) {
	return s.notifRepo.ListForUser(ctx, userID)
}

// MarkRead marks one notification read for the user
func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.notifRepo.MarkRead(ctx, notificationID, userID, s.now().UTC())
}

// MarkAllRead marks every notification of the user read
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifRepo.MarkAllRead(ctx, userID, s.now().UTC())
}
