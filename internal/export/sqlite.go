package export

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matsen/affil/internal/resolve"
)

// affiliationsDDL defines the results table. One row per
// record-author pair, keyed so re-runs replace rather than duplicate.
const affiliationsDDL = `CREATE TABLE IF NOT EXISTS affiliations (
  record_id   TEXT NOT NULL,
  author      TEXT NOT NULL,
  last_name   TEXT,
  first       TEXT,
  affiliation TEXT,
  doi         TEXT,
  title       TEXT,
  provenance  TEXT NOT NULL,
  PRIMARY KEY (record_id, author)
)`

// openDB opens a SQLite database for result storage.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	return db, nil
}

// WriteSQLite writes outcome rows into a SQLite database at path,
// creating the schema when needed.
func WriteSQLite(path string, rows []resolve.Outcome) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(affiliationsDDL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO affiliations
		(record_id, author, last_name, first, affiliation, doi, title, provenance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(
			row.RecordID,
			row.Author,
			row.LastName,
			row.First,
			nullable(row.Affiliation),
			nullable(row.DOI),
			nullable(row.Title),
			string(row.Provenance),
		); err != nil {
			return fmt.Errorf("inserting row for %s: %w", row.Author, err)
		}
	}

	return tx.Commit()
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
