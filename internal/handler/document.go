package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// updateDocumentRequest is the PATCH body. Nullable fields are tri-state.
type updateDocumentRequest struct {
	Name          *string                 `json:"name"`
	Type          *models.DocumentType    `json:"type"`
	Content       *string                 `json:"content"`
	OriginalNote  *string                 `json:"originalNote"`
	RefinedNote   httputil.OptionalString `json:"refinedNote"`
	CompanyName   httputil.OptionalString `json:"companyName"`
	ProjectName   httputil.OptionalString `json:"projectName"`
	Status        *models.DocumentStatus  `json:"status"`
	ClientMessage httputil.OptionalString `json:"clientMessage"`
}

// toUpdate builds the role-scoped update for actor. Clients get a
// ClientUpdate carrying only status and client message.
func (req *updateDocumentRequest) toUpdate(actor models.Identity) services.DocumentUpdate {
	if actor.Role == models.RoleClient {
		return &services.ClientUpdate{
			Status:        req.Status,
			ClientMessage: req.ClientMessage.Value,
		}
	}

	return &services.AdminUpdate{
		Name:          req.Name,
		Type:          req.Type,
		Content:       req.Content,
		OriginalNote:  req.OriginalNote,
		RefinedNote:   optionalText(req.RefinedNote),
		CompanyName:   optionalText(req.CompanyName),
		ProjectName:   optionalText(req.ProjectName),
		Status:        req.Status,
		ClientMessage: optionalText(req.ClientMessage),
	}
}

func optionalText(o httputil.OptionalString) services.OptionalText {
	return services.OptionalText{Present: o.Present, Value: o.Value}
}

// ListDocuments returns every document
// GET /api/documents?order=desc
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.ListDocuments(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	if r.URL.Query().Get("order") == "desc" {
		slices.Reverse(docs)
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req services.CreateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// UpdateDocument applies a role-scoped update
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req updateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), actor, r.PathValue("id"), req.toUpdate(actor))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), actor, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, successResponse{Success: true})
}
