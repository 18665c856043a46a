package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
)

// Per-attempt deadlines
const (
	SummarizeTimeout  = 180 * time.Second
	GenerateTimeout   = 300 * time.Second
	TranscribeTimeout = 300 * time.Second
)

// Chains lists the collaborators of each operation in the order they are tried
type Chains struct {
	Summarizers  []services.Summarizer
	Generators   []services.DocumentGenerator
	Transcribers []services.Transcriber
}

type aiService struct {
	chains   Chains
	analyzer services.ContentAnalyzer
	logger   *slog.Logger
	now      func() time.Time
}

// NewAIService creates the AI service over the given fallback chains
func NewAIService(chains Chains, analyzer services.ContentAnalyzer, logger *slog.Logger) services.AIService {
	return &aiService{
		chains:   chains,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Summarize refines a note with the first collaborator that succeeds
func (s *aiService) Summarize(ctx context.Context, text string) (*services.Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "no text provided")
	}

	for _, c := range s.chains.Summarizers {
		attemptCtx, cancel := context.WithTimeout(ctx, SummarizeTimeout)
		result, err := c.Summarize(attemptCtx, text)
		cancel()
		if err != nil {
			s.logger.Warn("summarizer failed", "provider", c.Name(), "error", err)
			continue
		}

		result.Success = true
		result.Provider = c.Name()
		if result.WordCount == 0 {
			result.WordCount = s.analyzer.CountWords(text)
		}
		if result.SummaryWordCount == 0 {
			result.SummaryWordCount = s.analyzer.CountWords(result.Summary)
		}
		s.logger.Debug("note summarized", "provider", c.Name(), "words", result.WordCount)
		return result, nil
	}

	return nil, &domain.ServiceUnavailableError{
		Service: "summarization",
		Message: "summarization service unavailable",
	}
}

// GenerateDocument drafts a document with the first collaborator that succeeds
func (s *aiService) GenerateDocument(ctx context.Context, req *services.GenerateRequest) (*services.GeneratedDocument, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Text, validation.Required.Error("no text provided")),
		validation.Field(&req.DocumentType,
			validation.Required,
			validation.By(func(value interface{}) error {
				if t, _ := value.(models.DocumentType); !t.Valid() {
					return fmt.Errorf("unsupported document type")
				}
				return nil
			}),
		),
	)
	if err != nil {
		if errs, ok := err.(validation.Errors); ok {
			return nil, domain.NewFieldValidationError(errs)
		}
		return nil, err
	}

	for _, c := range s.chains.Generators {
		attemptCtx, cancel := context.WithTimeout(ctx, GenerateTimeout)
		result, err := c.Generate(attemptCtx, req)
		cancel()
		if err != nil {
			s.logger.Warn("document generator failed", "provider", c.Name(), "type", req.DocumentType, "error", err)
			continue
		}

		result.Success = true
		result.Provider = c.Name()
		result.DocumentType = req.DocumentType
		if result.Filename == "" {
			result.Filename = s.filename(req)
		}
		if result.WordCount == 0 {
			result.WordCount = s.analyzer.CountWords(result.Document)
		}
		s.logger.Info("document generated", "provider", c.Name(), "type", req.DocumentType, "words", result.WordCount)
		return result, nil
	}

	return nil, &domain.ServiceUnavailableError{
		Service: "document generation",
		Message: "document generation service unavailable",
	}
}

// Transcribe recognizes speech in an uploaded recording.
// The audio is buffered once so every collaborator reads it from the start.
func (s *aiService) Transcribe(ctx context.Context, audio *services.AudioInput) (*services.Transcript, error) {
	if audio == nil || audio.Data == nil {
		return nil, domain.NewValidationError("audio", "no audio file provided")
	}
	if audio.Filename == "" {
		return nil, domain.NewValidationError("audio", "no file selected")
	}

	data, err := io.ReadAll(audio.Data)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("audio", "audio file is empty")
	}

	for _, c := range s.chains.Transcribers {
		attempt := &services.AudioInput{
			Filename: audio.Filename,
			Language: audio.Language,
			Data:     bytes.NewReader(data),
		}

		attemptCtx, cancel := context.WithTimeout(ctx, TranscribeTimeout)
		result, err := c.Transcribe(attemptCtx, attempt)
		cancel()
		if err != nil {
			s.logger.Warn("transcriber failed", "provider", c.Name(), "file", audio.Filename, "error", err)
			continue
		}

		result.Success = true
		if result.Filename == "" {
			result.Filename = audio.Filename
		}
		if result.WordCount == 0 {
			result.WordCount = s.analyzer.CountWords(result.Transcript)
		}
		return result, nil
	}

	return nil, &domain.ServiceUnavailableError{
		Service: "transcription",
		Message: "transcription service unavailable",
	}
}

// filename builds "<type>_<project>_<YYYYmmdd_HHMMSS>.txt"
func (s *aiService) filename(req *services.GenerateRequest) string {
	project := strings.TrimSpace(req.Metadata["project_name"])
	if project == "" {
		project = "document"
	}
	project = strings.ReplaceAll(project, " ", "_")
	return fmt.Sprintf("%s_%s_%s.txt", req.DocumentType, project, s.now().Format("20060102_150405"))
}
