package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/authorname"
	"github.com/matsen/affil/internal/bib"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.bib>",
	Short: "Parse a BibTeX file and dump the extracted records",
	Long: `Parse a BibTeX file and print the records the resolver would work
on: entry key, cleaned title, extracted DOI, and the author list split
into last name and first name parts. Entries with no author field are
skipped. Useful for checking what a resolve run will see.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// ParsedAuthor is one author as the resolver will see it.
type ParsedAuthor struct {
	Label string `json:"label"`
	Last  string `json:"last_name"`
	First string `json:"first,omitempty"`
}

// ParsedRecord is the JSON output for one BibTeX entry.
type ParsedRecord struct {
	ID      string         `json:"id"`
	Title   string         `json:"title,omitempty"`
	DOI     string         `json:"doi,omitempty"`
	Authors []ParsedAuthor `json:"authors"`
}

func runParse(cmd *cobra.Command, args []string) error {
	records, err := bib.ParseFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	out := make([]ParsedRecord, 0, len(records))
	for _, rec := range records {
		pr := ParsedRecord{ID: rec.ID, Title: rec.Title, DOI: rec.DOI}
		for _, name := range authorname.SplitList(rec.RawAuthors) {
			pr.Authors = append(pr.Authors, ParsedAuthor{
				Label: name.Label,
				Last:  name.Last,
				First: name.First,
			})
		}
		out = append(out, pr)
	}

	if humanOutput {
		for _, pr := range out {
			progressf("%s  doi=%s", pr.ID, orDash(pr.DOI))
			for _, a := range pr.Authors {
				progressf("    %s", a.Label)
			}
		}
		return nil
	}
	return outputJSON(out)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
