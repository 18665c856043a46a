package docsystem

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"reqgen/internal/domain/services"
)

var fencedCode = regexp.MustCompile("(?s)```.*?```")

type contentAnalyzer struct {
	stripper *bluemonday.Policy
}

// NewContentAnalyzer creates the word counter used for notes, summaries and generated documents
func NewContentAnalyzer() services.ContentAnalyzer {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	return &contentAnalyzer{stripper: policy}
}

// CountWords counts words in plain text, markdown or HTML.
// Markup (tags, heading and list markers, emphasis runs) and fenced code are not words.
func (a *contentAnalyzer) CountWords(text string) int {
	if strings.Contains(text, "<") {
		text = html.UnescapeString(a.stripper.Sanitize(text))
	}
	text = fencedCode.ReplaceAllString(text, " ")

	count := 0
	for _, token := range strings.Fields(text) {
		if strings.IndexFunc(token, isWordRune) >= 0 {
			count++
		}
	}
	return count
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
