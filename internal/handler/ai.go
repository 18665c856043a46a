package handler

import (
	"log/slog"
	"net/http"

	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
	"reqgen/internal/templates"
)

// maxAudioUpload bounds the multipart form kept in memory
const maxAudioUpload = 32 << 20

// templateLister lists document templates. *templates.Registry implements it.
type templateLister interface {
	List() []templates.Template
}

// AIHandler exposes note refinement, document generation and transcription
type AIHandler struct {
	aiService services.AIService
	templates templateLister
	logger    *slog.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService services.AIService, lister templateLister, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		templates: lister,
		logger:    logger,
	}
}

// summarizeRequest is the body of POST /api/python-backend/summarize
type summarizeRequest struct {
	Text string `json:"text"`
}

// Summarize refines a note
// POST /api/python-backend/summarize
func (h *AIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.aiService.Summarize(r.Context(), req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GenerateDocument drafts a document of the requested type from a note
// POST /api/python-backend/generate-document
func (h *AIHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.aiService.GenerateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Transcribe converts an uploaded recording (multipart field "audio") to text
// POST /api/transcribe
func (h *AIHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "no audio file provided",
			map[string]interface{}{"field": "audio"})
		return
	}
	defer file.Close()

	result, err := h.aiService.Transcribe(r.Context(), &services.AudioInput{
		Filename: header.Filename,
		Language: r.FormValue("language"),
		Data:     file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ListTemplates returns the document templates
// GET /api/templates
func (h *AIHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.templates.List())
}
