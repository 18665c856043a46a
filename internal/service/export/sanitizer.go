package export

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer strips scripts, event handlers and javascript: URLs from
// document HTML before it is rendered or converted.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer with the UGC policy, which keeps
// headings, lists, tables, links and basic formatting.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()

	return &HTMLSanitizer{policy: policy}
}

// NewStrictHTMLSanitizer creates a sanitizer that strips all markup
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns html with unsafe elements and attributes removed
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
