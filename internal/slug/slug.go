// Package slug canonicalizes URL path segments used to address catalog
// categories. A slug is not an entity: it is a transient matching key, and
// several distinct slugs may land on the same category. Because a single
// normalization rule cannot disambiguate every case (a double hyphen may mean
// "and" or a literal hyphen pair), Variants produces the full set of
// reinterpretations that the resolver and product filter try in turn.
package slug

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	hyphenRuns = regexp.MustCompile(`-{2,}`)
	whitespace = regexp.MustCompile(`\s+`)
	uuidShape  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// Normalize collapses every run of two or more hyphens into exactly one.
// It is pure and idempotent.
func Normalize(raw string) string {
	return hyphenRuns.ReplaceAllString(raw, "-")
}

// IsUUID reports whether s has the canonical 8-4-4-4-12 hex-group shape.
func IsUUID(s string) bool {
	return uuidShape.MatchString(s)
}

// Humanize derives a display name from a slug: "-and-" becomes " & ",
// remaining hyphens become spaces, and each word is title-cased.
// "cracker-and-chips" -> "Cracker & Chips".
func Humanize(s string) string {
	name := strings.ReplaceAll(s, "-and-", " & ")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, w := range words {
		if w == "&" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// CompareKey builds the denormalized key used for exact name matching:
// lowercase, "&" spelled as "-and-", whitespace as hyphens.
// "Pickled & Preserved Vegetables" -> "pickled-and-preserved-vegetables".
func CompareKey(name string) string {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.ReplaceAll(k, "&", "-and-")
	k = whitespace.ReplaceAllString(k, "-")
	return Normalize(k)
}

// LooseKey is the alternate comparison key with "&" spelled out without
// surrounding hyphens, catching names such as "Tea&Coffee".
func LooseKey(name string) string {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.ReplaceAll(k, "&", "and")
	k = whitespace.ReplaceAllString(k, "-")
	return Normalize(k)
}

// rewrite is a single pattern -> replacement step of a variant chain.
type rewrite struct {
	pattern *regexp.Regexp
	repl    string
}

// variantChains is the declarative rule table producing slug
// reinterpretations. Each chain is applied to the original slug in order.
// The table covers: triple hyphen as " - ", double hyphen as "&"/"and",
// "-and-" as "&"/"and" (with the other hyphens read as spaces), and every
// hyphen read uniformly as a space or as an ampersand.
var variantChains = [][]rewrite{
	{{regexp.MustCompile(`---`), " - "}},
	{{regexp.MustCompile(`--`), " & "}},
	{{regexp.MustCompile(`--`), " and "}},
	{{regexp.MustCompile(`-and-`), " & "}, {regexp.MustCompile(`-`), " "}},
	{{regexp.MustCompile(`-and-`), " and "}, {regexp.MustCompile(`-`), " "}},
	{{regexp.MustCompile(`-`), " "}},
	{{regexp.MustCompile(`-`), " & "}},
}

// Variants returns the de-duplicated reinterpretation set for a slug, the
// original string first. Every entry is a candidate for case-insensitive
// substring matching against category names.
func Variants(s string) []string {
	seen := make(map[string]bool, len(variantChains)+1)
	out := make([]string, 0, len(variantChains)+1)

	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(s)
	for _, chain := range variantChains {
		v := s
		for _, rw := range chain {
			v = rw.pattern.ReplaceAllString(v, rw.repl)
		}
		add(v)
	}
	return out
}
