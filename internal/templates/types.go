package templates

import (
	"fmt"
	"strings"

	"reqgen/internal/domain/models"
)

// Section is one heading of a generated document
type Section struct {
	Heading  string `yaml:"heading" json:"heading"`
	Guidance string `yaml:"guidance" json:"guidance"`
}

// Template describes how a document type is laid out and how the model is instructed
type Template struct {
	// Document type (set from the file name during loading)
	Type models.DocumentType `yaml:"-" json:"type"`

	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Audience    string    `yaml:"audience" json:"audience"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

// Outline renders the section list as numbered Markdown headings
func (t *Template) Outline() string {
	var b strings.Builder
	for i, s := range t.Sections {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, s.Heading)
		if s.Guidance != "" {
			fmt.Fprintf(&b, "%s\n", s.Guidance)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SystemPrompt builds the instruction sent to a language model generating this document type
func (t *Template) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You write a %s (%s) for %s.\n", t.Title, strings.ToUpper(string(t.Type)), t.Audience)
	b.WriteString("Use only facts stated in the notes. Write \"To be confirmed\" where the notes are silent.\n")
	b.WriteString("Return the document as Markdown with exactly these sections, in order:\n\n")
	b.WriteString(t.Outline())
	return b.String()
}
