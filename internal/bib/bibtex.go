// Package bib reads bibliographic records from BibTeX files. Parsing
// is deliberately tolerant: it recovers the citation key, title, DOI,
// and raw author list and ignores everything else. Entries without an
// author field are skipped.
package bib

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/affil/internal/authorname"
	"github.com/matsen/affil/internal/resolve"
)

// doiRe finds a DOI anywhere in an entry.
var doiRe = regexp.MustCompile(`(?i)10\.\d{4,9}/[^\s}),;]+`)

// entry is one raw parsed BibTeX entry before mapping to a record.
type entry struct {
	key    string
	fields map[string]string
}

// ParseFile reads a BibTeX file and returns the records carrying an
// author field, in file order.
func ParseFile(path string) ([]resolve.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse parses BibTeX source text into records.
func Parse(src string) ([]resolve.Record, error) {
	var records []resolve.Record
	for _, e := range parseEntries(src) {
		raw := e.fields["author"]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		records = append(records, resolve.Record{
			ID:         e.key,
			Title:      authorname.Clean(e.fields["title"]),
			DOI:        extractDOI(e),
			RawAuthors: raw,
		})
	}
	return records, nil
}

// extractDOI prefers an explicit doi field, then falls back to a
// regex scan over every field value. Trailing punctuation from inline
// citations is stripped; DOIs compare case-insensitively so the
// result is lower-cased.
func extractDOI(e entry) string {
	if doi := strings.TrimSpace(e.fields["doi"]); doi != "" {
		return strings.ToLower(doi)
	}
	for _, v := range e.fields {
		if m := doiRe.FindString(v); m != "" {
			return strings.ToLower(strings.TrimRight(m, ").,;"))
		}
	}
	return ""
}

// parseEntries scans the source for @type{key, name = {value}, ...}
// blocks. Values may be brace-delimited (nested braces allowed),
// quoted, or bare. @comment, @string, and @preamble blocks are
// ignored, as is any malformed trailing entry.
func parseEntries(src string) []entry {
	var entries []entry
	i := 0
	for {
		at := strings.IndexByte(src[i:], '@')
		if at < 0 {
			return entries
		}
		i += at + 1

		open := strings.IndexByte(src[i:], '{')
		if open < 0 {
			return entries
		}
		kind := strings.ToLower(strings.TrimSpace(src[i : i+open]))
		i += open + 1

		if kind == "comment" || kind == "string" || kind == "preamble" {
			i = skipBalanced(src, i)
			continue
		}

		comma := strings.IndexByte(src[i:], ',')
		if comma < 0 {
			return entries
		}
		e := entry{
			key:    strings.TrimSpace(src[i : i+comma]),
			fields: make(map[string]string),
		}
		i += comma + 1

		i = parseFields(src, i, e.fields)
		if e.key != "" {
			entries = append(entries, e)
		}
	}
}

// parseFields reads name = value pairs until the entry's closing
// brace and returns the index just past it.
func parseFields(src string, i int, fields map[string]string) int {
	for i < len(src) {
		// Skip separators and whitespace before the next field name.
		for i < len(src) && (src[i] == ',' || isSpace(src[i])) {
			i++
		}
		if i >= len(src) || src[i] == '}' {
			return i + 1
		}

		eq := strings.IndexByte(src[i:], '=')
		if eq < 0 {
			return len(src)
		}
		name := strings.ToLower(strings.TrimSpace(src[i : i+eq]))
		i += eq + 1

		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) {
			return i
		}

		var value string
		value, i = parseValue(src, i)
		if name != "" {
			fields[name] = strings.TrimSpace(value)
		}
	}
	return i
}

// parseValue reads one field value starting at i and returns it with
// the index just past it.
func parseValue(src string, i int) (string, int) {
	switch src[i] {
	case '{':
		depth := 0
		start := i + 1
		for ; i < len(src); i++ {
			switch src[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return src[start:i], i + 1
				}
			}
		}
		return src[start:], i
	case '"':
		start := i + 1
		for i++; i < len(src); i++ {
			if src[i] == '"' && src[i-1] != '\\' {
				return src[start:i], i + 1
			}
		}
		return src[start:], i
	default:
		// Bare value: number or macro, runs to comma or closing brace.
		start := i
		for ; i < len(src); i++ {
			if src[i] == ',' || src[i] == '}' {
				break
			}
		}
		return src[start:i], i
	}
}

// skipBalanced advances past a brace-balanced block whose opening
// brace has already been consumed.
func skipBalanced(src string, i int) int {
	depth := 1
	for ; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
