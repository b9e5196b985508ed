package resolve

// Provenance identifies which lookup tier produced an affiliation.
type Provenance string

// Provenance values, in tier priority order.
const (
	ProvenanceNone         Provenance = "none"
	ProvenanceIdentifier   Provenance = "identifier"
	ProvenanceTitleSearch  Provenance = "title_search"
	ProvenanceAuthorSearch Provenance = "author_search"
)
