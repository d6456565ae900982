// internal/queries/firms/firm-detail/matcher.go
package firmdetail

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// containsWord reports whether needle occurs in text with a word boundary
// on each side, both compared lower-cased. A boundary sits between a word
// character and a non-word character, or at either end of text next to a
// word character; letters, digits and '_' are word characters in any
// script.
func containsWord(text, needle string) bool {
	if needle == "" {
		return false
	}
	text = strings.ToLower(text)
	needle = strings.ToLower(needle)

	for start := 0; start <= len(text)-len(needle); {
		i := strings.Index(text[start:], needle)
		if i < 0 {
			return false
		}
		i += start
		if isBoundary(text, i) && isBoundary(text, i+len(needle)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func isBoundary(text string, pos int) bool {
	before := false
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		before = isWordRune(r)
	}
	after := false
	if pos < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
