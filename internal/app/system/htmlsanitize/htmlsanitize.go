// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans admin-entered rich text (the site footer and
// page blurbs) before it is stored and rendered as template.HTML.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Tables are common in pasted content; allow them with layout attributes.
	p.AllowTables()
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tfoot", "tr", "td", "th")
	p.AllowStyles("width", "text-align", "background-color", "color").Globally()

	return p
}

// Sanitize strips unsafe markup from untrusted HTML, keeping common
// formatting, links, and tables.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return policy.Sanitize(input)
}

// SanitizeToHTML sanitizes and marks the result safe for direct template output.
func SanitizeToHTML(input string) template.HTML {
	return template.HTML(Sanitize(input))
}

// IsPlainText reports whether the input looks like plain text rather than
// HTML. A string is treated as HTML only when it contains both < and >.
func IsPlainText(input string) bool {
	return !strings.Contains(input, "<") || !strings.Contains(input, ">")
}

// PlainTextToHTML escapes plain text and wraps it in a paragraph, turning
// newlines into <br>.
func PlainTextToHTML(input string) string {
	if input == "" {
		return ""
	}
	escaped := html.EscapeString(input)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders stored content safely: plain text is escaped
// and paragraph-wrapped, HTML is sanitized.
func PrepareForDisplay(input string) template.HTML {
	if input == "" {
		return ""
	}
	if IsPlainText(input) {
		return template.HTML(PlainTextToHTML(input))
	}
	return SanitizeToHTML(input)
}
