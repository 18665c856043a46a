package handler

import (
	"log/slog"
	"net/http"

	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
)

// ExportHandler renders documents for download and email
type ExportHandler struct {
	exportService services.ExportService
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService services.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// generatePDFRequest is the body of POST /api/generate-pdf
type generatePDFRequest struct {
	DocumentHTML string `json:"documentHtml"`
	DocumentName string `json:"documentName"`
}

// GeneratePDF renders caller-supplied HTML as a PDF download
// POST /api/generate-pdf
func (h *ExportHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req generatePDFRequest
	if !decodeBody(w, r, &req) {
		return
	}

	file, err := h.exportService.RenderHTMLPDF(r.Context(), req.DocumentName, req.DocumentHTML)
	if err != nil {
		handleError(w, err)
		return
	}

	respondFile(w, file)
}

// DocumentPDF renders a stored document with the settings branding
// GET /api/documents/{id}/pdf
func (h *ExportHandler) DocumentPDF(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.RenderDocumentPDF(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondFile(w, file)
}

// DocumentMarkdown converts a stored document to Markdown
// GET /api/documents/{id}/markdown
func (h *ExportHandler) DocumentMarkdown(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.RenderDocumentMarkdown(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondFile(w, file)
}

// SendEmail mails the rendered document as a PDF attachment
// POST /api/send-email
func (h *ExportHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req services.SendEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.exportService.SendDocumentEmail(r.Context(), &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email sent successfully",
	})
}

func respondFile(w http.ResponseWriter, file *services.RenderedFile) {
	httputil.RespondFile(w, file.Filename, file.ContentType, file.Data)
}
