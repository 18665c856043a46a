package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"reqgen/internal/domain/services"
)

// maxErrorBody caps how much of an error response is kept for logs
const maxErrorBody = 4 << 10

// PythonBackend calls the speech/summarization service that hosts the
// Whisper and T5 models. It implements Summarizer, DocumentGenerator and Transcriber.
type PythonBackend struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPythonBackend creates a client for the service at baseURL.
// Deadlines come from the caller's context.
func NewPythonBackend(baseURL string, logger *slog.Logger) *PythonBackend {
	return &PythonBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Name returns the collaborator name
func (c *PythonBackend) Name() string {
	return "python-backend"
}

// Summarize calls POST /api/summarize
func (c *PythonBackend) Summarize(ctx context.Context, text string) (*services.Summary, error) {
	var out services.Summary
	if err := c.postJSON(ctx, "/api/summarize", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("python backend reported failure")
	}
	return &out, nil
}

// Generate calls POST /api/generate-document
func (c *PythonBackend) Generate(ctx context.Context, req *services.GenerateRequest) (*services.GeneratedDocument, error) {
	var out services.GeneratedDocument
	if err := c.postJSON(ctx, "/api/generate-document", req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Document == "" {
		return nil, fmt.Errorf("python backend returned no document")
	}
	return &out, nil
}

// Transcribe uploads the recording to POST /api/transcribe as multipart field "audio"
func (c *PythonBackend) Transcribe(ctx context.Context, audio *services.AudioInput) (*services.Transcript, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", audio.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio.Data); err != nil {
		return nil, fmt.Errorf("copy audio: %w", err)
	}
	if audio.Language != "" {
		if err := mw.WriteField("language", audio.Language); err != nil {
			return nil, fmt.Errorf("write language: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out services.Transcript
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("python backend reported failure")
	}
	return &out, nil
}

func (c *PythonBackend) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *PythonBackend) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("python backend error", "path", req.URL.Path, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("python backend error: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
