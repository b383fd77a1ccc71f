package util

import (
	"strings"
	"unicode"
)

// CleanText trims s, drops control and invisible characters and truncates
// the result to max runes. A max of zero or less disables truncation.
func CleanText(s string, max int) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))

	for _, char := range trimmed {
		if char == '\n' || char == '\t' {
			builder.WriteRune(char)
			continue
		}
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}

		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(builder.String())

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	if max > 0 {
		runes := []rune(cleaned)
		if len(runes) > max {
			cleaned = strings.TrimSpace(string(runes[:max]))
		}
	}

	return cleaned
}

// CleanOptional applies CleanText to an optional value. Blank input
// becomes nil so it is stored as NULL.
func CleanOptional(s *string, max int) *string {
	if s == nil {
		return nil
	}

	cleaned := CleanText(*s, max)
	if cleaned == "" {
		return nil
	}

	return &cleaned
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
