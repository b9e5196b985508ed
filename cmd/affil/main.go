// Package main provides the affil CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the optional config file passed via --config
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "affil",
	Short: "Resolve author affiliations for a BibTeX bibliography",
	Long: `affil resolves the institutional affiliation of every author in a
BibTeX file by querying Crossref and OpenAlex.

Lookups run in tiers per entry: the DOI-identified work record first,
then a title search, then a per-author name search for anyone still
unresolved. Results are written as CSV (optionally also SQLite), one
row per author per entry, with the tier that produced each
affiliation recorded as provenance.

All commands output JSON by default. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for AFFIL_MAILTO and friends)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default affil.yml if present)")
	rootCmd.Version = Version
}
