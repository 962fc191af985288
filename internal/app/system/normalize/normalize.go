// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-entered fields so that
// lookups and comparisons behave consistently across the app.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person's name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status value (payment or membership).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone strips spaces, dashes, and parentheses from a phone number,
// preserving a leading + if present.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
