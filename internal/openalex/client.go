// Package openalex adapts the OpenAlex API to the resolver's lookup
// capabilities: works by DOI, works by title search, and author
// profiles by name search or identifier.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/affil/internal/fetch"
	"github.com/matsen/affil/internal/metadata"
)

// DefaultBaseURL is the OpenAlex API base URL.
const DefaultBaseURL = "https://api.openalex.org"

// Client fetches work and author records from OpenAlex.
type Client struct {
	fetcher *fetch.Client
	baseURL string
	mailto  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithMailto sets the mailto parameter attached to every request,
// which places calls in the OpenAlex polite pool.
func WithMailto(mailto string) Option {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// NewClient creates an OpenAlex client on top of a fetch client.
func NewClient(fetcher *fetch.Client, opts ...Option) *Client {
	c := &Client{
		fetcher: fetcher,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint builds a request URL with query parameters and the
// configured mailto attached.
func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	u := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// WorkByID fetches the canonical work record for a DOI.
func (c *Client) WorkByID(ctx context.Context, doi string) (*metadata.Work, error) {
	raw, err := c.fetcher.Get(ctx, c.endpoint("/works/doi:"+url.PathEscape(doi), nil))
	if err != nil {
		return nil, err
	}

	var w workJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: parsing OpenAlex work: %v", fetch.ErrInvalidResponse, err)
	}
	work := mapWork(w)
	return &work, nil
}

// SearchWorksByTitle queries the title search filter and returns up to
// max candidate works in provider order.
func (c *Client) SearchWorksByTitle(ctx context.Context, title string, max int) ([]metadata.Work, error) {
	if max <= 0 {
		max = 1
	}
	params := url.Values{}
	params.Set("filter", "title.search:"+title)
	params.Set("per-page", strconv.Itoa(max))

	raw, err := c.fetcher.Get(ctx, c.endpoint("/works", params))
	if err != nil {
		return nil, err
	}

	var list worksListJSON
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: parsing OpenAlex work search: %v", fetch.ErrInvalidResponse, err)
	}

	works := make([]metadata.Work, 0, len(list.Results))
	for _, w := range list.Results {
		works = append(works, mapWork(w))
	}
	return works, nil
}

// SearchAuthorByName searches author profiles and returns the
// top-ranked hit, or ErrNotFound when the search comes back empty.
func (c *Client) SearchAuthorByName(ctx context.Context, name string) (*metadata.Author, error) {
	params := url.Values{}
	params.Set("search", name)
	params.Set("per-page", "1")

	raw, err := c.fetcher.Get(ctx, c.endpoint("/authors", params))
	if err != nil {
		return nil, err
	}

	var list authorsListJSON
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: parsing OpenAlex author search: %v", fetch.ErrInvalidResponse, err)
	}
	if len(list.Results) == 0 {
		return nil, fmt.Errorf("%w: no author matching %q", fetch.ErrNotFound, name)
	}
	author := mapAuthor(list.Results[0])
	return &author, nil
}

// AuthorByID fetches an author profile. Accepts either a bare OpenAlex
// author ID or the full URI form returned inside work records.
func (c *Client) AuthorByID(ctx context.Context, id string) (*metadata.Author, error) {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}

	raw, err := c.fetcher.Get(ctx, c.endpoint("/authors/"+url.PathEscape(id), nil))
	if err != nil {
		return nil, err
	}

	var a authorJSON
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: parsing OpenAlex author: %v", fetch.ErrInvalidResponse, err)
	}
	author := mapAuthor(a)
	return &author, nil
}

// mapWork converts a wire work record to the provider-neutral form.
func mapWork(w workJSON) metadata.Work {
	work := metadata.Work{Title: w.Title}
	if work.Title == "" {
		work.Title = w.DisplayName
	}
	for _, a := range w.Authorships {
		as := metadata.Authorship{
			DisplayName: a.Author.DisplayName,
			AuthorID:    a.Author.ID,
		}
		if len(a.Institutions) > 0 {
			as.Affiliation = a.Institutions[0].DisplayName
		}
		work.Authorships = append(work.Authorships, as)
	}
	return work
}

// mapAuthor converts a wire author record to the provider-neutral form.
func mapAuthor(a authorJSON) metadata.Author {
	author := metadata.Author{DisplayName: a.DisplayName}
	if a.LastKnownInstitution != nil {
		author.Affiliation = a.LastKnownInstitution.DisplayName
	}
	return author
}
