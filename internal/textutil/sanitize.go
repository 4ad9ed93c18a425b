package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// Sanitize makes user-controlled text (file names, file contents) safe to put
// on the terminal. Control characters become '?', line breaks and tabs become
// spaces, and invisible format runes (bidi overrides, zero-width joiners, BOM)
// are spelled out so they cannot disguise a name.
func Sanitize(text string) string {
	if !needsSanitizing(text) {
		return text
	}

	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			b.WriteByte('?')
		case r == '\u200d':
			// ZWJ is part of legitimate emoji sequences.
			b.WriteRune(r)
		case unicode.Is(unicode.Cf, r):
			fmt.Fprintf(&b, "⟪U+%04X⟫", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(text string) bool {
	for _, r := range text {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return true
		}
		if r != '\u200d' && unicode.Is(unicode.Cf, r) {
			return true
		}
	}
	return false
}
