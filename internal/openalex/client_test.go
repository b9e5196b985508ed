package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matsen/affil/internal/fetch"
)

func testFetcher() *fetch.Client {
	return fetch.NewClient(fetch.WithRateLimit(10000))
}

const workBody = `{
	"title": "A Study of Things",
	"authorships": [
		{
			"author": {"id": "https://openalex.org/A123", "display_name": "John A. Smith"},
			"institutions": [{"display_name": "Acme University"}]
		},
		{
			"author": {"id": "https://openalex.org/A456", "display_name": "Jane Doe"},
			"institutions": []
		}
	]
}`

func TestWorkByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mailto") != "team@example.org" {
			t.Errorf("missing mailto parameter, query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(workBody))
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL), WithMailto("team@example.org"))
	work, err := c.WorkByID(context.Background(), "10.1000/xyz")
	if err != nil {
		t.Fatalf("WorkByID: %v", err)
	}

	if work.Title != "A Study of Things" {
		t.Errorf("Title = %q", work.Title)
	}
	if len(work.Authorships) != 2 {
		t.Fatalf("got %d authorships, want 2", len(work.Authorships))
	}
	first := work.Authorships[0]
	if first.DisplayName != "John A. Smith" || first.Affiliation != "Acme University" || first.AuthorID != "https://openalex.org/A123" {
		t.Errorf("first authorship = %+v", first)
	}
	if work.Authorships[1].Affiliation != "" {
		t.Errorf("empty institutions should map to empty affiliation")
	}
}

func TestSearchWorksByTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("filter"); got != "title.search:A Study of Things" {
			t.Errorf("filter = %q", got)
		}
		if got := q.Get("per-page"); got != "3" {
			t.Errorf("per-page = %q", got)
		}
		w.Write([]byte(`{"results": [` + workBody + `, {"display_name": "Another Work", "authorships": []}]}`))
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL))
	works, err := c.SearchWorksByTitle(context.Background(), "A Study of Things", 3)
	if err != nil {
		t.Fatalf("SearchWorksByTitle: %v", err)
	}
	if len(works) != 2 {
		t.Fatalf("got %d works, want 2", len(works))
	}
	if works[1].Title != "Another Work" {
		t.Errorf("display_name fallback not applied: %q", works[1].Title)
	}
}

func TestSearchAuthorByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "John Smith" {
			t.Errorf("search = %q", got)
		}
		w.Write([]byte(`{"results": [{
			"display_name": "John A. Smith",
			"last_known_institution": {"display_name": "Acme University"}
		}]}`))
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL))
	author, err := c.SearchAuthorByName(context.Background(), "John Smith")
	if err != nil {
		t.Fatalf("SearchAuthorByName: %v", err)
	}
	if author.Affiliation != "Acme University" {
		t.Errorf("Affiliation = %q", author.Affiliation)
	}
}

func TestSearchAuthorByNameEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL))
	_, err := c.SearchAuthorByName(context.Background(), "Nobody Anywhere")
	if !fetch.IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestAuthorByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The full URI form must be reduced to the bare ID.
		if r.URL.Path != "/authors/A123" {
			t.Errorf("path = %q, want /authors/A123", r.URL.Path)
		}
		w.Write([]byte(`{
			"display_name": "John A. Smith",
			"last_known_institution": null
		}`))
	}))
	defer srv.Close()

	c := NewClient(testFetcher(), WithBaseURL(srv.URL))
	author, err := c.AuthorByID(context.Background(), "https://openalex.org/A123")
	if err != nil {
		t.Fatalf("AuthorByID: %v", err)
	}
	if author.Affiliation != "" {
		t.Errorf("null institution should map to empty affiliation, got %q", author.Affiliation)
	}
}
