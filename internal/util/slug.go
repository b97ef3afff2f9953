package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reNonWord    = regexp.MustCompile(`[^\w\s-]`)
	reSeparators = regexp.MustCompile(`[\s-]+`)
)

// Fold strips diacritics: "Fórmula É" -> "Formula E".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug derives a URL slug from a display name.
func Slug(name string) string {
	s := strings.ToLower(Fold(strings.TrimSpace(name)))
	s = reNonWord.ReplaceAllString(s, "")
	s = reSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
