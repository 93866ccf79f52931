package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsValidName reports whether s may be handed to the matcher: valid UTF-8,
// not blank, without control characters and at most maxRunes long.
// A non-positive maxRunes disables the length check.
func IsValidName(s string, maxRunes int) bool {
	if !utf8.ValidString(s) || strings.TrimSpace(s) == "" {
		return false
	}
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' {
			return false
		}
	}
	return true
}
