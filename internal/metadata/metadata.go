// Package metadata defines provider-neutral bibliographic metadata
// types and the lookup capabilities the resolver consumes. Provider
// adapters (crossref, openalex) map their wire formats onto these
// types; the resolver never sees a raw API response.
package metadata

import "context"

// Work is a remote work record reduced to what affiliation
// resolution needs.
type Work struct {
	Title       string
	Authorships []Authorship
}

// Authorship is one author entry on a remote work record.
type Authorship struct {
	DisplayName string
	Affiliation string // first listed institution, empty when absent
	AuthorID    string // provider author identifier, empty when absent
}

// Author is a remote author profile.
type Author struct {
	DisplayName string
	Affiliation string // last known institution, empty when absent
}

// WorkByIDer fetches the canonical work record for a persistent
// identifier such as a DOI.
type WorkByIDer interface {
	WorkByID(ctx context.Context, id string) (*Work, error)
}

// TitleSearcher searches works by title.
type TitleSearcher interface {
	SearchWorksByTitle(ctx context.Context, title string, max int) ([]Work, error)
}

// AuthorSearcher searches author profiles by free-text name and
// returns the top-ranked hit.
type AuthorSearcher interface {
	SearchAuthorByName(ctx context.Context, name string) (*Author, error)
}

// AuthorDetailer fetches an author profile by provider identifier.
type AuthorDetailer interface {
	AuthorByID(ctx context.Context, id string) (*Author, error)
}
