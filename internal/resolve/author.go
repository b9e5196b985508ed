package resolve

import "github.com/matsen/affil/internal/authorname"

// Author is the resolution state for one author on one record. The
// author set for a record is fixed when the record enters the
// pipeline; tiers only ever fill the affiliation fields.
type Author struct {
	Name        authorname.Name
	Affiliation string     // empty until a tier fills it
	Provenance  Provenance // ProvenanceNone until filled
}

// resolved reports whether an affiliation has been found. An empty
// institution on a matched remote record counts as unresolved, so
// later tiers may still try.
func (a *Author) resolved() bool {
	return a.Affiliation != ""
}

// fill sets the affiliation if the author is still unresolved and the
// candidate is non-empty. Earlier tiers are never overwritten.
func (a *Author) fill(affiliation string, p Provenance) {
	if a.resolved() || affiliation == "" {
		return
	}
	a.Affiliation = affiliation
	a.Provenance = p
}

// anyUnresolved reports whether any author still lacks an affiliation.
func anyUnresolved(authors []*Author) bool {
	for _, a := range authors {
		if !a.resolved() {
			return true
		}
	}
	return false
}
