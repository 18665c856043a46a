package export

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// MarkdownExporter converts document HTML to Markdown in two stages:
// sanitize, then convert.
type MarkdownExporter struct {
	sanitizer *HTMLSanitizer
	converter *md.Converter
}

// NewMarkdownExporter creates an exporter with the UGC sanitizer
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{
		sanitizer: NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

// Convert returns the Markdown rendition of html.
// Content without any markup is returned trimmed and unchanged.
func (e *MarkdownExporter) Convert(html string) (string, error) {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html), nil
	}

	markdown, err := e.converter.ConvertString(e.sanitizer.Sanitize(html))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}
