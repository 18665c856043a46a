package repositories

import (
	"context"

	"reqgen/internal/domain/models"
)

// DocumentRepository defines data access operations for documents.
// Every storage adapter (memory, postgres, sqlite) implements this one contract.
type DocumentRepository interface {
	// Create inserts a new document. ID and CreatedAt are assigned by the caller.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID
	// Returns domain.ErrNotFound if the document does not exist
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// List returns all documents in creation order (oldest first)
	List(ctx context.Context) ([]models.Document, error)

	// Update persists the mutable fields of an existing document.
	// PreviousContent is only written when the stored value is NULL; after the call
	// doc.PreviousContent holds the stored value.
	// Returns domain.ErrNotFound if the document does not exist
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document
	// Returns domain.ErrNotFound if no row existed
	Delete(ctx context.Context, id string) error
}
