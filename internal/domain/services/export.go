package services

import (
	"context"

	"reqgen/internal/domain/models"
)

// RenderedFile is an exported document ready to download or attach
type RenderedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PDFRenderer lays out HTML content as a PDF.
// branding may be nil when no settings are saved.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, title, html string, branding *models.Settings) ([]byte, error)
}

// EmailAttachment is a file attached to an outgoing email
type EmailAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EmailMessage is an outgoing email with an HTML body and a plain-text alternative
type EmailMessage struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []EmailAttachment
}

// Mailer delivers email
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// SendEmailRequest is the body of POST /api/send-email
type SendEmailRequest struct {
	Recipient    string `json:"recipient"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	DocumentHTML string `json:"documentHtml"`
	DocumentName string `json:"documentName"`
}

// ExportService renders documents to PDF or Markdown and emails them
type ExportService interface {
	// RenderHTMLPDF renders caller-supplied HTML
	RenderHTMLPDF(ctx context.Context, name, html string) (*RenderedFile, error)

	// RenderDocumentPDF renders a stored document with the settings branding
	RenderDocumentPDF(ctx context.Context, id string) (*RenderedFile, error)

	// RenderDocumentMarkdown converts a stored document's content to Markdown
	RenderDocumentMarkdown(ctx context.Context, id string) (*RenderedFile, error)

	// SendDocumentEmail renders the HTML to PDF and mails it as an attachment
	SendDocumentEmail(ctx context.Context, req *SendEmailRequest) error
}
