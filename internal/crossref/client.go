// Package crossref adapts the Crossref works API to the resolver's
// work-by-identifier capability.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/matsen/affil/internal/fetch"
	"github.com/matsen/affil/internal/metadata"
)

// DefaultBaseURL is the Crossref REST API base URL.
const DefaultBaseURL = "https://api.crossref.org"

// Client fetches work records from Crossref.
type Client struct {
	fetcher *fetch.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// NewClient creates a Crossref client on top of a fetch client.
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

// workResponse captures the fields we need from a Crossref work record.
type workResponse struct {
	Message struct {
		Title  []string `json:"title"`
		Author []struct {
			Given       string `json:"given"`
			Family      string `json:"family"`
			Affiliation []struct {
				Name string `json:"name"`
			} `json:"affiliation"`
		} `json:"author"`
	} `json:"message"`
}

// WorkByID fetches the canonical work record for a DOI.
func (c *Client) WorkByID(ctx context.Context, doi string) (*metadata.Work, error) {
	raw, err := c.fetcher.Get(ctx, c.baseURL+"/works/"+url.PathEscape(doi))
	if err != nil {
		return nil, err
	}

	var resp workResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing Crossref work: %v", fetch.ErrInvalidResponse, err)
	}

	work := &metadata.Work{}
	if len(resp.Message.Title) > 0 {
		work.Title = resp.Message.Title[0]
	}
	for _, a := range resp.Message.Author {
		as := metadata.Authorship{
			DisplayName: strings.TrimSpace(a.Given + " " + a.Family),
		}
		if len(a.Affiliation) > 0 {
			as.Affiliation = a.Affiliation[0].Name
		}
		work.Authorships = append(work.Authorships, as)
	}
	return work, nil
}
