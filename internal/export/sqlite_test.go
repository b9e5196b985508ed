package export

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/matsen/affil/internal/resolve"
)

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	if err := WriteSQLite(path, sampleRows()); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}

	db, err := openDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM affiliations`).Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d rows, want 2", count)
	}

	var affiliation sql.NullString
	var provenance string
	err = db.QueryRow(`SELECT affiliation, provenance FROM affiliations WHERE record_id = 'smith2020' AND author = 'Smith, John A'`).
		Scan(&affiliation, &provenance)
	if err != nil {
		t.Fatalf("querying resolved row: %v", err)
	}
	if !affiliation.Valid || affiliation.String != "Acme University" || provenance != "identifier" {
		t.Errorf("resolved row = %v/%s", affiliation, provenance)
	}

	// Unresolved affiliations are stored as NULL, not empty string.
	err = db.QueryRow(`SELECT affiliation FROM affiliations WHERE author = 'Doe, Jane'`).Scan(&affiliation)
	if err != nil {
		t.Fatalf("querying unresolved row: %v", err)
	}
	if affiliation.Valid {
		t.Errorf("unresolved affiliation = %q, want NULL", affiliation.String)
	}
}

func TestWriteSQLiteRerunReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	rows := sampleRows()
	if err := WriteSQLite(path, rows); err != nil {
		t.Fatal(err)
	}

	// A second run with an updated affiliation replaces in place.
	rows[1].Affiliation = "Globex Institute"
	rows[1].Provenance = resolve.ProvenanceAuthorSearch
	if err := WriteSQLite(path, rows); err != nil {
		t.Fatal(err)
	}

	db, err := openDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM affiliations`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("got %d rows after re-run, want 2", count)
	}

	var affiliation string
	if err := db.QueryRow(`SELECT affiliation FROM affiliations WHERE author = 'Doe, Jane'`).Scan(&affiliation); err != nil {
		t.Fatal(err)
	}
	if affiliation != "Globex Institute" {
		t.Errorf("affiliation = %q, want replaced value", affiliation)
	}
}
