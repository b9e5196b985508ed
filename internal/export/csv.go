// Package export writes resolution outcomes to tabular sinks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/matsen/affil/internal/resolve"
)

// csvHeader is the column order for CSV output.
var csvHeader = []string{"author", "last_name", "first", "affiliation", "doi", "title", "provenance"}

// WriteCSV writes outcome rows with a header line.
func WriteCSV(w io.Writer, rows []resolve.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Author,
			row.LastName,
			row.First,
			row.Affiliation,
			row.DOI,
			row.Title,
			string(row.Provenance),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.Author, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes outcome rows to a file, replacing any existing
// content.
func WriteCSVFile(path string, rows []resolve.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
