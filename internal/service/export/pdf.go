package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"reqgen/internal/domain/models"
)

// Page layout in millimetres (A4)
const (
	marginTop    = 20.0
	marginBottom = 20.0
	marginSide   = 15.0
	lineHeight   = 5.5
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13}

var inlineMarkers = strings.NewReplacer("**", "", "__", "", "`", "")

// PDFRenderer lays out document HTML on A4 pages. The HTML is sanitized and
// converted to Markdown, then headings, list items and paragraphs are set
// line by line.
type PDFRenderer struct {
	markdown *MarkdownExporter
}

// NewPDFRenderer creates a renderer
func NewPDFRenderer(markdown *MarkdownExporter) *PDFRenderer {
	return &PDFRenderer{markdown: markdown}
}

// RenderHTML renders html as a PDF. A branding header is drawn on the first
// page when branding carries a company name.
func (r *PDFRenderer) RenderHTML(ctx context.Context, title, html string, branding *models.Settings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := r.markdown.Convert(html)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(title, true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 5)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	if branding != nil && branding.CompanyName != "" {
		writeBranding(pdf, tr, branding)
	}

	if title != "" {
		pdf.SetFont("Helvetica", "B", 20)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 9, tr(title), "", "L", false)
		pdf.Ln(4)
	}

	writeMarkdown(pdf, tr, body)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeBranding(pdf *gofpdf.Fpdf, tr func(string) string, branding *models.Settings) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, tr(branding.CompanyName), "", 1, "L", false, 0, "")

	var contact []string
	for _, v := range []string{branding.Address, branding.Phone, branding.Email} {
		if v != "" {
			contact = append(contact, v)
		}
	}
	if len(contact) > 0 {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 4.5, tr(strings.Join(contact, "  |  ")), "", "L", false)
	}

	pdf.Ln(2)
	pdf.SetDrawColor(200, 200, 200)
	y := pdf.GetY()
	pageWidth, _ := pdf.GetPageSize()
	pdf.Line(marginSide, y, pageWidth-marginSide, y)
	pdf.Ln(6)
}

func writeMarkdown(pdf *gofpdf.Fpdf, tr func(string) string, markdown string) {
	pdf.SetTextColor(40, 40, 40)

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			pdf.Ln(2)

		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			size, ok := headingSizes[level]
			if !ok {
				size = 11
			}
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, size*0.5, tr(inlineMarkers.Replace(strings.TrimSpace(line[level:]))), "", "L", false)
			pdf.Ln(1)

		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetX(marginSide + 4)
			pdf.MultiCell(0, lineHeight, tr("• "+inlineMarkers.Replace(line[2:])), "", "L", false)

		case line == "---" || line == "* * *":
			y := pdf.GetY()
			pageWidth, _ := pdf.GetPageSize()
			pdf.Line(marginSide, y, pageWidth-marginSide, y)
			pdf.Ln(2)

		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, lineHeight, tr(inlineMarkers.Replace(line)), "", "L", false)
		}
	}
}
