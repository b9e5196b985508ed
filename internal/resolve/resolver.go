// Package resolve implements the tiered affiliation lookup pipeline:
// work-by-identifier first, then title search, then per-author name
// search. Tiers fill affiliations monotonically and a tier failure is
// absorbed, never fatal.
package resolve

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/matsen/affil/internal/authorname"
	"github.com/matsen/affil/internal/metadata"
)

// Record is one bibliographic entry handed to the resolver. The
// caller guarantees RawAuthors is non-empty.
type Record struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	DOI        string `json:"doi,omitempty"` // empty when the entry carries no identifier
	RawAuthors string `json:"raw_authors"`
}

const (
	// DefaultBatchSize groups author-search calls to bound burstiness.
	DefaultBatchSize = 25

	// DefaultMaxTitleResults caps candidate works per title search.
	DefaultMaxTitleResults = 5
)

// Resolver runs the tiered lookup over records. All network access
// goes through the injected capability interfaces.
type Resolver struct {
	identifier []metadata.WorkByIDer // consulted in order within the identifier tier
	titles     metadata.TitleSearcher
	authors    metadata.AuthorSearcher
	detail     metadata.AuthorDetailer

	batchSize       int
	batchPause      time.Duration
	workers         int
	maxTitleResults int

	sleep    func(context.Context, time.Duration) error
	progress func(format string, args ...any)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIdentifierSources sets the work-by-identifier providers tried in
// order during the identifier tier.
func WithIdentifierSources(sources ...metadata.WorkByIDer) Option {
	return func(r *Resolver) {
		r.identifier = sources
	}
}

// WithTitleSearcher sets the title-search provider.
func WithTitleSearcher(s metadata.TitleSearcher) Option {
	return func(r *Resolver) {
		r.titles = s
	}
}

// WithAuthorSearcher sets the author-name-search provider.
func WithAuthorSearcher(s metadata.AuthorSearcher) Option {
	return func(r *Resolver) {
		r.authors = s
	}
}

// WithAuthorDetailer sets the provider used to look up an author by
// remote identifier when a matched authorship lists no institution.
func WithAuthorDetailer(d metadata.AuthorDetailer) Option {
	return func(r *Resolver) {
		r.detail = d
	}
}

// WithBatchSize sets the author-search batch size.
func WithBatchSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithBatchPause sets the pause between author-search batches.
func WithBatchPause(d time.Duration) Option {
	return func(r *Resolver) {
		r.batchPause = d
	}
}

// WithWorkers bounds concurrent author-search calls within a batch.
// The shared fetch limiter keeps the overall request rate paced
// regardless of the worker count.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithMaxTitleResults caps the candidate works requested per title search.
func WithMaxTitleResults(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxTitleResults = n
		}
	}
}

// WithProgress sets a printf-style progress callback.
func WithProgress(fn func(format string, args ...any)) Option {
	return func(r *Resolver) {
		r.progress = fn
	}
}

// WithSleeper replaces the batch-pause sleep function (for testing).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(r *Resolver) {
		r.sleep = sleep
	}
}

// New creates a Resolver. Tiers whose provider is absent are skipped.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		batchSize:       DefaultBatchSize,
		workers:         1,
		maxTitleResults: DefaultMaxTitleResults,
		sleep:           sleepContext,
		progress:        func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveRecord derives the record's author set and runs the tiers in
// order. Partial fills from an interrupted run are valid; the only
// error ever returned is the context's.
func (r *Resolver) ResolveRecord(ctx context.Context, rec Record) ([]*Author, error) {
	names := authorname.SplitList(rec.RawAuthors)
	authors := make([]*Author, 0, len(names))
	for _, n := range names {
		authors = append(authors, &Author{Name: n, Provenance: ProvenanceNone})
	}
	if len(authors) == 0 {
		return nil, nil
	}

	// Tier 1: work by persistent identifier.
	if rec.DOI != "" {
		for _, src := range r.identifier {
			if err := ctx.Err(); err != nil {
				return authors, err
			}
			if !anyUnresolved(authors) {
				break
			}
			work, err := src.WorkByID(ctx, rec.DOI)
			if err != nil {
				r.progress("identifier lookup failed for %s: %v", rec.DOI, err)
				continue
			}
			r.fillFromWork(ctx, work, authors, ProvenanceIdentifier)
		}
	}

	// Tier 2: title search.
	if anyUnresolved(authors) && rec.Title != "" && r.titles != nil {
		if err := ctx.Err(); err != nil {
			return authors, err
		}
		work, err := r.bestTitleMatch(ctx, rec.Title, authors)
		if err != nil {
			r.progress("title search failed for %q: %v", rec.Title, err)
		} else if work != nil {
			r.fillFromWork(ctx, work, authors, ProvenanceTitleSearch)
		}
	}

	// Tier 3: per-author name search.
	if anyUnresolved(authors) && r.authors != nil {
		if err := ctx.Err(); err != nil {
			return authors, err
		}
		r.authorSearchTier(ctx, authors)
	}

	return authors, ctx.Err()
}

// fillFromWork matches each remote authorship against the unresolved
// local authors and fills affiliations. Remote authorships are taken
// in provider order, so when two could fill the same author the
// earliest-listed one wins; an author filled here leaves
// consideration for the rest of the pass.
func (r *Resolver) fillFromWork(ctx context.Context, work *metadata.Work, authors []*Author, p Provenance) {
	for _, as := range work.Authorships {
		affiliation := as.Affiliation
		detailTried := false
		for _, a := range authors {
			if a.resolved() || !a.Name.Key.Matches(as.DisplayName) {
				continue
			}
			if affiliation == "" && !detailTried && as.AuthorID != "" && r.detail != nil {
				detailTried = true
				if author, err := r.detail.AuthorByID(ctx, as.AuthorID); err == nil {
					affiliation = author.Affiliation
				}
			}
			a.fill(affiliation, p)
		}
	}
}

// bestTitleMatch searches candidate works by title and picks the one
// sharing the most local last-name keys with its authorship list.
// Ties keep the earlier candidate, so provider ranking breaks them.
func (r *Resolver) bestTitleMatch(ctx context.Context, title string, authors []*Author) (*metadata.Work, error) {
	works, err := r.titles.SearchWorksByTitle(ctx, title, r.maxTitleResults)
	if err != nil {
		return nil, err
	}

	var best *metadata.Work
	bestScore := -1
	for i := range works {
		if score := sharedLastNames(&works[i], authors); score > bestScore {
			best = &works[i]
			bestScore = score
		}
	}
	return best, nil
}

// sharedLastNames counts how many local last-name keys occur in the
// candidate's authorship list.
func sharedLastNames(w *metadata.Work, authors []*Author) int {
	folded := make([]string, len(w.Authorships))
	for i, as := range w.Authorships {
		folded[i] = authorname.Fold(as.DisplayName)
	}

	count := 0
	for _, a := range authors {
		for _, name := range folded {
			if strings.Contains(name, a.Name.Key.Last) {
				count++
				break
			}
		}
	}
	return count
}

// authorSearchTier queries the author-search capability for each
// remaining author, in fixed-size batches with a pause in between.
func (r *Resolver) authorSearchTier(ctx context.Context, authors []*Author) {
	var pending []*Author
	for _, a := range authors {
		if !a.resolved() {
			pending = append(pending, a)
		}
	}

	for start := 0; start < len(pending); start += r.batchSize {
		if ctx.Err() != nil {
			return
		}
		end := min(start+r.batchSize, len(pending))
		r.searchBatch(ctx, pending[start:end])
		if end < len(pending) && r.batchPause > 0 {
			if err := r.sleep(ctx, r.batchPause); err != nil {
				return
			}
		}
	}
}

// searchBatch resolves one batch, with up to r.workers calls in
// flight. Each goroutine writes only its own author.
func (r *Resolver) searchBatch(ctx context.Context, batch []*Author) {
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for _, a := range batch {
		wg.Add(1)
		go func(a *Author) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			r.searchOne(ctx, a)
		}(a)
	}
	wg.Wait()
}

// searchOne adopts the top search hit's last known institution. A
// failed or empty search leaves the author untouched.
func (r *Resolver) searchOne(ctx context.Context, a *Author) {
	query := strings.TrimSpace(a.Name.First + " " + a.Name.Last)
	author, err := r.authors.SearchAuthorByName(ctx, query)
	if err != nil {
		r.progress("author search failed for %q: %v", query, err)
		return
	}
	a.fill(author.Affiliation, ProvenanceAuthorSearch)
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
