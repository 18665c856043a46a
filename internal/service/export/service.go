package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"reqgen/internal/domain"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/domain/services"
)

const (
	contentTypePDF      = "application/pdf"
	contentTypeMarkdown = "text/markdown; charset=utf-8"
	defaultFileName     = "document"
)

type exportService struct {
	docRepo      repositories.DocumentRepository
	settingsRepo repositories.SettingsRepository
	renderer     services.PDFRenderer
	markdown     *MarkdownExporter
	mailer       services.Mailer
	logger       *slog.Logger
}

// NewExportService creates the export service. mailer may be nil when SMTP
// is not configured; SendDocumentEmail then reports the mail service unavailable.
func NewExportService(
	docRepo repositories.DocumentRepository,
	settingsRepo repositories.SettingsRepository,
	renderer services.PDFRenderer,
	markdown *MarkdownExporter,
	mailer services.Mailer,
	logger *slog.Logger,
) services.ExportService {
	return &exportService{
		docRepo:      docRepo,
		settingsRepo: settingsRepo,
		renderer:     renderer,
		markdown:     markdown,
		mailer:       mailer,
		logger:       logger,
	}
}

// RenderHTMLPDF renders caller-supplied HTML without branding
func (s *exportService) RenderHTMLPDF(ctx context.Context, name, html string) (*services.RenderedFile, error) {
	if strings.TrimSpace(html) == "" {
		return nil, domain.NewValidationError("documentHtml", "missing document HTML")
	}

	name = fileBaseName(name)
	data, err := s.renderer.RenderHTML(ctx, "", html, nil)
	if err != nil {
		s.logger.Error("pdf rendering failed", "name", name, "error", err)
		return nil, domain.Unavailable("pdf rendering", err)
	}

	return &services.RenderedFile{
		Filename:    name + ".pdf",
		ContentType: contentTypePDF,
		Data:        data,
	}, nil
}

// RenderDocumentPDF renders a stored document with the saved branding
func (s *exportService) RenderDocumentPDF(ctx context.Context, id string) (*services.RenderedFile, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	branding, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	data, err := s.renderer.RenderHTML(ctx, doc.Name, doc.Content, branding)
	if err != nil {
		s.logger.Error("pdf rendering failed", "document_id", id, "error", err)
		return nil, domain.Unavailable("pdf rendering", err)
	}

	s.logger.Debug("document rendered", "document_id", id, "format", "pdf", "bytes", len(data))

	return &services.RenderedFile{
		Filename:    fileBaseName(doc.Name) + ".pdf",
		ContentType: contentTypePDF,
		Data:        data,
	}, nil
}

// RenderDocumentMarkdown converts a stored document's content to Markdown
func (s *exportService) RenderDocumentMarkdown(ctx context.Context, id string) (*services.RenderedFile, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	markdown, err := s.markdown.Convert(doc.Content)
	if err != nil {
		return nil, domain.Unavailable("markdown export", err)
	}

	return &services.RenderedFile{
		Filename:    fileBaseName(doc.Name) + ".md",
		ContentType: contentTypeMarkdown,
		Data:        []byte(markdown + "\n"),
	}, nil
}

// SendDocumentEmail renders the HTML to PDF and mails it as an attachment
func (s *exportService) SendDocumentEmail(ctx context.Context, req *services.SendEmailRequest) error {
	if req == nil {
		return domain.NewValidationError("body", "request body is required")
	}
	req.Recipient = strings.TrimSpace(req.Recipient)
	req.Subject = strings.TrimSpace(req.Subject)

	required := []struct{ field, value string }{
		{"recipient", req.Recipient},
		{"subject", req.Subject},
		{"documentHtml", strings.TrimSpace(req.DocumentHTML)},
	}
	for _, r := range required {
		if r.value == "" {
			return &domain.ValidationError{Field: r.field, Message: "missing required fields"}
		}
	}
	if err := validation.Validate(req.Recipient, is.EmailFormat); err != nil {
		return domain.NewValidationError("recipient", "recipient must be a valid email address")
	}

	if s.mailer == nil {
		return &domain.ServiceUnavailableError{Service: "email", Message: "email service not configured"}
	}

	file, err := s.RenderHTMLPDF(ctx, req.DocumentName, req.DocumentHTML)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		text = DefaultEmailMessage
	}
	html, err := renderEmailBody(text)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	msg := &services.EmailMessage{
		To:      req.Recipient,
		Subject: req.Subject,
		Text:    text,
		HTML:    html,
		Attachments: []services.EmailAttachment{
			{Filename: file.Filename, ContentType: file.ContentType, Data: file.Data},
		},
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("email delivery failed", "recipient", req.Recipient, "error", err)
		return domain.Unavailable("email", err)
	}

	s.logger.Info("document emailed", "recipient", req.Recipient, "attachment", file.Filename)
	return nil
}

// fileBaseName trims name and falls back to "document"
func fileBaseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultFileName
	}
	return name
}

var _ services.PDFRenderer = (*PDFRenderer)(nil)
