package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reqgen/internal/config"
	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/domain/services"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo   repositories.DocumentRepository
	notifier  services.NotificationService
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	notifier services.NotificationService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:   docRepo,
		notifier:  notifier,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateDocument creates a pending document
func (s *documentService) CreateDocument(ctx context.Context, actor models.Identity, req *services.CreateDocumentRequest) (*models.Document, error) {
	if !actor.Role.IsEditor() {
		return nil, &domain.ForbiddenError{Message: "only admin and analyst users may create documents"}
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	status := models.StatusPending
	if req.Status != nil {
		status = *req.Status
	}

	doc := &models.Document{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Type:          req.Type,
		Content:       req.Content,
		OriginalNote:  req.OriginalNote,
		RefinedNote:   req.RefinedNote,
		CompanyName:   normalizeText(req.CompanyName),
		ProjectName:   normalizeText(req.ProjectName),
		Status:        status,
		ClientMessage: normalizeText(req.ClientMessage),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"type", doc.Type,
		"actor", actor.UserID,
	)

	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// ListDocuments returns every document in creation order
func (s *documentService) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return s.docRepo.List(ctx)
}

// UpdateDocument applies a role-scoped update. The write and any resulting
// notification commit together.
func (s *documentService) UpdateDocument(ctx context.Context, actor models.Identity, id string, update services.DocumentUpdate) (*models.Document, error) {
	var updated *models.Document
	var decision *models.DocumentStatus

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		decision, err = applyUpdate(doc, actor, update)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		updatedBy := actor.Name
		if updatedBy == "" {
			updatedBy = actor.UserID
		}
		doc.LastUpdatedAt = &now
		doc.UpdatedBy = &updatedBy

		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return err
		}

		if decision != nil {
			if _, err := s.notifier.Publish(txCtx, notificationFor(doc, *decision)); err != nil {
				return fmt.Errorf("notify review decision: %w", err)
			}
		}

		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", updated.ID,
		"status", updated.Status,
		"actor", actor.UserID,
		"role", actor.Role,
		"notified", decision != nil,
	)

	return updated, nil
}

// DeleteDocument deletes a document
func (s *documentService) DeleteDocument(ctx context.Context, actor models.Identity, id string) error {
	if !actor.Role.IsEditor() {
		return &domain.ForbiddenError{Message: "only admin and analyst users may delete documents"}
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted",
		"id", id,
		"actor", actor.UserID,
	)

	return nil
}

// validateCreateRequest validates a document creation request
func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	if req == nil {
		return domain.NewValidationError("body", "request body is required")
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxDocumentNameLength),
		),
		validation.Field(&req.Type, validation.Required, documentTypeRule()),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.OriginalNote, validation.Required, validation.Length(1, config.MaxNoteLength)),
		validation.Field(&req.RefinedNote, validation.Length(0, config.MaxNoteLength)),
		validation.Field(&req.CompanyName, validation.Length(0, config.MaxCompanyNameLength)),
		validation.Field(&req.ProjectName, validation.Length(0, config.MaxCompanyNameLength)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, statusRule()),
		validation.Field(&req.ClientMessage, validation.Length(0, config.MaxClientMessageLength)),
	)
	if err != nil {
		return toValidationError(err)
	}

	if strings.TrimSpace(req.Name) == "" {
		return domain.NewValidationError("name", "name: cannot be blank")
	}
	return nil
}
