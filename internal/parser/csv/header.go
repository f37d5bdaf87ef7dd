package csv

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// canonicalHeaders lowercases and de-accents every header cell so that the
// static alias tables match regardless of the year's casing or encoding
// quirks. Duplicate names are kept as-is: the resolver treats duplicates as
// additional fallback columns.
func canonicalHeaders(h []string) []string {
	out := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		out[i] = strings.ToLower(stripAccents(c))
	}
	return out
}

// stripAccents removes diacritics: decompose, drop nonspacing marks,
// recompose.
func stripAccents(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return ascii
}
