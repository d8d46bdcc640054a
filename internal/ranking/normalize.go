// Package ranking scores candidates against a job description and orders them by a weighted final score.
package ranking

import (
	"strings"
	"unicode"
)

// NormalizeText lower-cases v, drops every character that is not an ASCII
// letter or whitespace and collapses whitespace runs into single spaces.
// Anything that is not a string normalizes to "".
func NormalizeText(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	return strings.Join(strings.Fields(keepLetters(strings.ToLower(s))), " ")
}

// keepLetters removes everything except ASCII letters and whitespace. Whitespace runs are left untouched.
func keepLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
