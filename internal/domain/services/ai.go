package services

import (
	"context"
	"io"

	"reqgen/internal/domain/models"
)

// Summary is the result of refining a free-text note
type Summary struct {
	Success          bool   `json:"success"`
	Summary          string `json:"summary"`
	WordCount        int    `json:"word_count"`
	SummaryWordCount int    `json:"summary_word_count"`
	Provider         string `json:"provider,omitempty"`
}

// GenerateRequest asks for a formatted document built from a note
type GenerateRequest struct {
	Text         string              `json:"text"`
	DocumentType models.DocumentType `json:"document_type"`
	Metadata     map[string]string   `json:"metadata,omitempty"`
}

// GeneratedDocument is the generated body plus bookkeeping for the UI
type GeneratedDocument struct {
	Success      bool                `json:"success"`
	Document     string              `json:"document"`
	DocumentType models.DocumentType `json:"document_type"`
	Filename     string              `json:"filename"`
	WordCount    int                 `json:"word_count"`
	Provider     string              `json:"provider,omitempty"`
}

// AudioInput is an uploaded recording
type AudioInput struct {
	Filename string
	Language string
	Data     io.Reader
}

// Transcript is the text recognized from an AudioInput
type Transcript struct {
	Success      bool   `json:"success"`
	Transcript   string `json:"transcript"`
	Language     string `json:"language"`
	LanguageName string `json:"language_name,omitempty"`
	WordCount    int    `json:"word_count"`
	Filename     string `json:"filename,omitempty"`
}

// Summarizer refines notes. Implementations are tried in order by AIService.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string) (*Summary, error)
}

// DocumentGenerator turns a note into a document body
type DocumentGenerator interface {
	Name() string
	Generate(ctx context.Context, req *GenerateRequest) (*GeneratedDocument, error)
}

// Transcriber converts recorded audio into text
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio *AudioInput) (*Transcript, error)
}

// AIService runs the collaborator fallback chains. When every collaborator
// fails the error wraps domain.ErrServiceUnavailable.
type AIService interface {
	Summarize(ctx context.Context, text string) (*Summary, error)
	GenerateDocument(ctx context.Context, req *GenerateRequest) (*GeneratedDocument, error)
	Transcribe(ctx context.Context, audio *AudioInput) (*Transcript, error)
}

// ContentAnalyzer provides text statistics for notes and generated documents
type ContentAnalyzer interface {
	CountWords(markdown string) int
}
