// CLAUDE:SUMMARY Accent-, case-, whitespace- and hyphen-insensitive normalization for bilingual name matching.
package election

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a free-form name for equality comparison:
// accents are stripped, whitespace and all dash variants removed, the
// rest lowercased (e.g. "Lac-Saint-Jean" -> "lacsaintjean").
// The result is for matching only, never for display. Idempotent and
// independent of the process locale.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	stripped, _, _ := transform.String(stripAccents, s)
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsSpace(r) || unicode.Is(unicode.Pd, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
