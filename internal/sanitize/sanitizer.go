package sanitize

import (
	"strings"
	"unicode/utf8"
)

// Sanitizer rewrites text so that it is safe to display.
type Sanitizer struct {
	patterns []Pattern
}

// NewSanitizer creates a Sanitizer with the default display patterns.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		patterns: GetDisplayPatterns(),
	}
}

// Sanitize replaces invalid UTF-8, strips escape sequences and control
// characters, and trims surrounding whitespace. The result may be empty.
func (s *Sanitizer) Sanitize(input string) string {
	if input == "" {
		return input
	}

	result := ValidateUTF8(input)
	for _, p := range s.patterns {
		result = p.Regex.ReplaceAllString(result, p.Replacement)
	}
	return strings.TrimSpace(result)
}

// DefaultSanitizer is a package-level sanitizer for convenience.
var DefaultSanitizer = NewSanitizer()

// Sanitize uses the default sanitizer.
func Sanitize(input string) string {
	return DefaultSanitizer.Sanitize(input)
}

// ValidateUTF8 replaces invalid UTF-8 byte sequences with the Unicode
// replacement character (U+FFFD).
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			i++
		} else {
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}
