// Package htmlsanitize strips markup from free-text form input.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag; it is safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// PlainText removes all HTML from s and returns the trimmed text with
// entities decoded, ready to be stored and later escaped by templates.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	return strict.Sanitize(s) == html.EscapeString(s)
}
