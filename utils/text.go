package utils

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// UTF16Len returns the length of s in UTF-16 code units, the unit the
// platform uses for message length and mention indexing
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// StripWhitespace removes every whitespace rune, not just leading and
// trailing ones
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// TruncateUTF16 cuts s down to at most max UTF-16 code units. The cut
// always lands on a rune boundary, so a surrogate pair is dropped whole
// rather than split.
func TruncateUTF16(s string, max int) string {
	if max <= 0 {
		return ""
	}
	units := 0
	for i, r := range s {
		width := 1
		if r > 0xFFFF {
			width = 2
		}
		if units+width > max {
			return s[:i]
		}
		units += width
	}
	return s
}
