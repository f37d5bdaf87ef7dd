package schema

import (
	"regexp"
	"strings"
)

// Binding is the resolved set of physical header names per canonical field
// for one specific dataset. It is computed once against the header row and
// must be recomputed for any file with a different header.
type Binding map[Field][]string

// Resolve returns the physical header names bound to f, in merge-priority
// order.
//
// Alias matching is case-insensitive and exact; the alias list order defines
// priority. The fallback regex is consulted only when no alias matched, and
// its matches keep header-encounter order. An empty result means the field
// is missing for the whole dataset; callers treat every row's value as
// missing rather than failing.
func Resolve(headers []string, f Field) []string {
	return resolve(headers, specs[f].aliases, specs[f].fallback)
}

// ResolveAliases is Resolve with a caller-supplied alias list replacing the
// static one for f. The field's fallback regex still applies when no alias
// matches.
func ResolveAliases(headers []string, f Field, aliases []string) []string {
	return resolve(headers, aliases, specs[f].fallback)
}

func resolve(headers, aliases []string, fallback *regexp.Regexp) []string {
	var matched []string
	for _, alias := range aliases {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				matched = append(matched, h)
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}

	for _, h := range headers {
		if fallback.MatchString(strings.TrimSpace(h)) {
			matched = append(matched, h)
		}
	}
	return matched
}

// Bind resolves every canonical field against the header row.
func Bind(headers []string) Binding {
	return BindWith(headers, nil)
}

// BindWith is Bind with per-field alias overrides; a field absent from
// overrides keeps its static alias list.
func BindWith(headers []string, overrides map[Field][]string) Binding {
	b := make(Binding, len(Fields))
	for _, f := range Fields {
		if aliases, ok := overrides[f]; ok {
			b[f] = ResolveAliases(headers, f, aliases)
			continue
		}
		b[f] = Resolve(headers, f)
	}
	return b
}

// Missing reports whether no physical column was bound for f.
func (b Binding) Missing(f Field) bool { return len(b[f]) == 0 }
