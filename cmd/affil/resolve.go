package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/bib"
	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/crossref"
	"github.com/matsen/affil/internal/export"
	"github.com/matsen/affil/internal/fetch"
	"github.com/matsen/affil/internal/metadata"
	"github.com/matsen/affil/internal/openalex"
	"github.com/matsen/affil/internal/resolve"
)

var (
	resolveOut    string
	resolveDB     string
	resolveMailto string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file.bib>",
	Short: "Resolve author affiliations for every entry in a BibTeX file",
	Long: `Resolve the affiliation of every author in a BibTeX file.

For each entry, lookups run in tiers: Crossref and OpenAlex work
records by DOI, then an OpenAlex title search, then an OpenAlex
author-name search for any author still unresolved. An author none of
the tiers can place is reported with an empty affiliation.

Examples:
  affil resolve works.bib
  affil resolve works.bib --out authors.csv --db authors.db
  affil resolve works.bib --mailto you@example.org --human`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolveOut, "out", "o", "affiliations.csv", "CSV output path")
	resolveCmd.Flags().StringVar(&resolveDB, "db", "", "Also write results to a SQLite database at this path")
	resolveCmd.Flags().StringVar(&resolveMailto, "mailto", "", "Contact address for the OpenAlex polite pool")
}

// ResolveResult is the JSON output for the resolve command.
type ResolveResult struct {
	Records  int    `json:"records"`
	Authors  int    `json:"authors"`
	Resolved int    `json:"resolved"`
	Output   string `json:"output"`
	Database string `json:"database,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if resolveMailto != "" {
		cfg.Mailto = resolveMailto
	}

	records, err := bib.ParseFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if len(records) == 0 {
		exitWithError(ExitDataError, "no entries with authors in %s", args[0])
	}

	resolver := newResolver(cfg)
	agg := resolve.NewAggregator()

	for i, rec := range records {
		progressf("[%d/%d] %s", i+1, len(records), rec.ID)
		authors, err := resolver.ResolveRecord(ctx, rec)
		agg.Add(rec, authors)
		if err != nil {
			// Context cancellation: keep what we have and stop.
			progressf("interrupted: %v", err)
			break
		}
	}

	if err := export.WriteCSVFile(resolveOut, agg.Rows()); err != nil {
		exitWithError(ExitError, "writing CSV: %v", err)
	}
	if resolveDB != "" {
		if err := export.WriteSQLite(resolveDB, agg.Rows()); err != nil {
			exitWithError(ExitError, "writing database: %v", err)
		}
	}

	result := ResolveResult{
		Records:  len(records),
		Authors:  len(agg.Rows()),
		Resolved: agg.Resolved(),
		Output:   resolveOut,
		Database: resolveDB,
	}
	if humanOutput {
		progressf("resolved %d of %d authors across %d records -> %s",
			result.Resolved, result.Authors, result.Records, result.Output)
		return nil
	}
	return outputJSON(result)
}

// newResolver wires the providers onto a shared rate-limited fetcher.
func newResolver(cfg config.Config) *resolve.Resolver {
	userAgent := "affil/" + Version
	if cfg.Mailto != "" {
		userAgent += " (mailto:" + cfg.Mailto + ")"
	}

	fetcher := fetch.NewClient(
		fetch.WithRateLimit(cfg.RequestsPerSecond()),
		fetch.WithMaxAttempts(cfg.MaxRetries),
		fetch.WithUserAgent(userAgent),
	)

	var crOpts []crossref.Option
	if cfg.CrossrefBaseURL != "" {
		crOpts = append(crOpts, crossref.WithBaseURL(cfg.CrossrefBaseURL))
	}
	cr := crossref.NewClient(fetcher, crOpts...)

	oaOpts := []openalex.Option{openalex.WithMailto(cfg.Mailto)}
	if cfg.OpenAlexBaseURL != "" {
		oaOpts = append(oaOpts, openalex.WithBaseURL(cfg.OpenAlexBaseURL))
	}
	oa := openalex.NewClient(fetcher, oaOpts...)

	return resolve.New(
		resolve.WithIdentifierSources([]metadata.WorkByIDer{cr, oa}...),
		resolve.WithTitleSearcher(oa),
		resolve.WithAuthorSearcher(oa),
		resolve.WithAuthorDetailer(oa),
		resolve.WithBatchSize(cfg.BatchSize),
		resolve.WithBatchPause(time.Duration(cfg.PauseMillis)*time.Millisecond),
		resolve.WithWorkers(cfg.AuthorWorkers),
		resolve.WithMaxTitleResults(cfg.MaxTitleResults),
		resolve.WithProgress(progressf),
	)
}
