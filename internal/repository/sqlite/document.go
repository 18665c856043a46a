package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// DocumentRepository implements repositories.DocumentRepository on gorm
type DocumentRepository struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(cfg *Config) repositories.DocumentRepository {
	return &DocumentRepository{db: cfg.DB, table: cfg.Tables.Documents, logger: cfg.Logger}
}

func (r *DocumentRepository) q(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Table(r.table)
}

// Create inserts a document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if err := r.q(ctx).Create(newDocumentRow(doc)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("document %s already exists", doc.ID),
				ResourceType: "document",
				ResourceID:   doc.ID,
			}
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var row documentRow
	if err := r.q(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	doc := row.model()
	return &doc, nil
}

// List returns all documents in creation order
func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	var rows []documentRow
	if err := r.q(ctx).Order("created_at ASC, rowid ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]models.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].model())
	}
	return docs, nil
}

// Update persists the mutable fields; previous_content is only written while NULL
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	res := r.q(ctx).Where("id = ?", doc.ID).Updates(map[string]interface{}{
		"name":             doc.Name,
		"type":             string(doc.Type),
		"content":          doc.Content,
		"original_note":    doc.OriginalNote,
		"refined_note":     doc.RefinedNote,
		"company_name":     doc.CompanyName,
		"project_name":     doc.ProjectName,
		"status":           string(doc.Status),
		"client_message":   doc.ClientMessage,
		"last_updated_at":  doc.LastUpdatedAt,
		"updated_by":       doc.UpdatedBy,
		"previous_content": gorm.Expr("COALESCE(previous_content, ?)", doc.PreviousContent),
	})
	if res.Error != nil {
		return fmt.Errorf("update document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	stored, err := r.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.CreatedAt = stored.CreatedAt
	doc.PreviousContent = stored.PreviousContent
	return nil
}

// Delete removes a document
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res := r.q(ctx).Where("id = ?", id).Delete(&documentRow{})
	if res.Error != nil {
		return fmt.Errorf("delete document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
