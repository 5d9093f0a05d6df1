// utils/validator.go - Input validation
package utils

import (
	"strings"
	"unicode/utf8"
)

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove leading/trailing spaces
	return strings.TrimSpace(input)
}

// WithinLength reports whether s has at most max characters.
func WithinLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// OptionalText sanitizes an optional text field; blank becomes nil.
func OptionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := SanitizeInput(*raw)
	if v == "" {
		return nil
	}
	return &v
}
