package services

import (
	"context"

	"reqgen/internal/domain/models"
)

// DocumentService handles the document lifecycle: storage, role-scoped updates
// and the notifications those updates trigger.
type DocumentService interface {
	// CreateDocument creates a pending document. Only admin and analyst may create.
	CreateDocument(ctx context.Context, actor models.Identity, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document by ID
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// ListDocuments returns every document in creation order
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// UpdateDocument applies an update on behalf of actor.
	// A client actor is always narrowed to a ClientUpdate, whatever variant is passed.
	UpdateDocument(ctx context.Context, actor models.Identity, id string, update DocumentUpdate) (*models.Document, error)

	// DeleteDocument removes a document. Only admin and analyst may delete.
	DeleteDocument(ctx context.Context, actor models.Identity, id string) error
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Name          string                 `json:"name"`
	Type          models.DocumentType    `json:"type"`
	Content       string                 `json:"content"`
	OriginalNote  string                 `json:"originalNote"`
	RefinedNote   *string                `json:"refinedNote"`
	CompanyName   *string                `json:"companyName"`
	ProjectName   *string                `json:"projectName"`
	Status        *models.DocumentStatus `json:"status"` // Defaults to pending
	ClientMessage *string                `json:"clientMessage"`
}

// OptionalText tracks tri-state semantics for nullable fields in updates.
// This is transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"text": field has value
type OptionalText struct {
	Present bool
	Value   *string
}

// DocumentUpdate is a role-scoped set of field changes.
// Implemented by *AdminUpdate and *ClientUpdate only.
type DocumentUpdate interface {
	// ClientView narrows the update to the fields a client may set
	ClientView() *ClientUpdate
}

// AdminUpdate may change any document field. Nil pointers and absent
// OptionalText values leave the stored field unchanged.
type AdminUpdate struct {
	Name          *string
	Type          *models.DocumentType
	Content       *string
	OriginalNote  *string
	RefinedNote   OptionalText
	CompanyName   OptionalText
	ProjectName   OptionalText
	Status        *models.DocumentStatus
	ClientMessage OptionalText
}

// ClientUpdate carries exactly the fields a client may set.
// A nil ClientMessage clears the stored message.
type ClientUpdate struct {
	Status        *models.DocumentStatus
	ClientMessage *string
}

// ClientView drops every field except status and client message
func (u *AdminUpdate) ClientView() *ClientUpdate {
	return &ClientUpdate{
		Status:        u.Status,
		ClientMessage: u.ClientMessage.Value,
	}
}

// ClientView returns the update itself
func (u *ClientUpdate) ClientView() *ClientUpdate {
	return u
}
