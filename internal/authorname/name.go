// Package authorname normalizes bibliographic author names into
// comparable keys and matches them against remote display names.
package authorname

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name is one parsed author from a record's raw author list.
type Name struct {
	Label string // display form "Last, First"
	First string // given name(s), may be empty
	Last  string // family name
	Key   Key
}

// Key is the folded comparison key derived from a name.
// Last is never empty when the source name is non-empty;
// Initial is empty when the given name is unknown.
type Key struct {
	Last    string
	Initial string
}

var (
	// andRe splits author lists on the BibTeX " and " separator.
	andRe = regexp.MustCompile(`(?i)\s+and\s+`)
	// markupRe removes LaTeX grouping braces, escapes, and stray quotes.
	markupRe = regexp.MustCompile(`[\\{}']`)
)

// folder strips combining diacritical marks after NFD decomposition,
// reducing accented letters to their base Latin forms.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean decodes HTML entities and strips LaTeX markup artifacts.
func Clean(s string) string {
	return strings.TrimSpace(markupRe.ReplaceAllString(html.UnescapeString(s), ""))
}

// Fold lower-cases and strips diacritics, so "Müller" and "Muller"
// fold identically. Fold is a pure function and never fails; input
// that cannot be transformed is lower-cased as-is.
func Fold(s string) string {
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Parse normalizes a single raw author form, either "Last, First Middle"
// or "First Middle Last". A comma splits last from first; otherwise the
// final whitespace token is the last name. A string with no separators
// is treated entirely as a last name.
func Parse(raw string) Name {
	clean := Clean(raw)

	var first, last string
	if idx := strings.Index(clean, ","); idx >= 0 {
		last = strings.TrimSpace(clean[:idx])
		first = strings.TrimSpace(clean[idx+1:])
	} else {
		parts := strings.Fields(clean)
		switch len(parts) {
		case 0:
			// Degenerate input; callers drop names with an empty Last.
		case 1:
			last = parts[0]
		default:
			last = parts[len(parts)-1]
			first = strings.Join(parts[:len(parts)-1], " ")
		}
	}

	label := last
	if first != "" {
		label = last + ", " + first
	}
	label = strings.TrimRight(label, ".")

	return Name{
		Label: label,
		First: first,
		Last:  last,
		Key:   KeyOf(last, first),
	}
}

// KeyOf derives the folded comparison key from a last and first name.
func KeyOf(last, first string) Key {
	k := Key{Last: Fold(last)}
	for _, r := range Fold(first) {
		k.Initial = string(r)
		break
	}
	return k
}

// SplitList splits a raw author-list field on the literal " and "
// separator (case-insensitive) and parses each segment. Empty or
// whitespace-only segments are dropped.
func SplitList(raw string) []Name {
	var names []Name
	for _, chunk := range andRe.Split(raw, -1) {
		n := Parse(chunk)
		if n.Last == "" {
			continue
		}
		names = append(names, n)
	}
	return names
}
