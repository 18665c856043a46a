package memory

import (
	"context"
	"fmt"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
)

// DocumentRepository implements repositories.DocumentRepository over a Store
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a new in-memory document repository
func NewDocumentRepository(store *Store) repositories.DocumentRepository {
	return &DocumentRepository{store: store}
}

// Create creates a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.documents[doc.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("document %s already exists", doc.ID),
			ResourceType: "document",
			ResourceID:   doc.ID,
		}
	}

	r.store.documents[doc.ID] = *doc
	r.store.docOrder = append(r.store.docOrder, doc.ID)
	r.store.markDirty()
	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, ok := r.store.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// List returns all documents in insertion order
func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	docs := make([]models.Document, 0, len(r.store.docOrder))
	for _, id := range r.store.docOrder {
		docs = append(docs, r.store.documents[id])
	}
	return docs, nil
}

// Update persists the mutable fields of a document
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.documents[doc.ID]
	if !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	// id and createdAt are immutable; the snapshot is only written once
	doc.CreatedAt = existing.CreatedAt
	if existing.PreviousContent != nil {
		doc.PreviousContent = existing.PreviousContent
	}

	r.store.documents[doc.ID] = *doc
	r.store.markDirty()
	return nil
}

// Delete removes a document
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.documents[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	delete(r.store.documents, id)
	for i, docID := range r.store.docOrder {
		if docID == id {
			r.store.docOrder = append(r.store.docOrder[:i], r.store.docOrder[i+1:]...)
			break
		}
	}
	r.store.markDirty()
	return nil
}
