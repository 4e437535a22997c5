package textutil

import (
	"strings"
	"unicode"
)

// Collapse turns every whitespace run into a single space, drops non-printable
// runes and trims both ends.
func Collapse(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// Normalize collapses text and uppercases it, which is how the catalogue
// stores names and titles.
func Normalize(text string) string {
	return strings.ToUpper(Collapse(text))
}

// SplitList splits text on sep, normalizing each fragment with clean and
// dropping empty fragments. Order is preserved.
func SplitList(text, sep string, clean func(string) string) []string {
	out := []string{}
	for _, part := range strings.Split(text, sep) {
		part = clean(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
