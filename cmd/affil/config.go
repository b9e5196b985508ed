package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/affil/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective run configuration",
	Long: `Print the configuration a resolve run would use, after merging
defaults, the config file, and AFFIL_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	if humanOutput {
		progressf("mailto:            %s", orDash(cfg.Mailto))
		progressf("pause_ms:          %d", cfg.PauseMillis)
		progressf("max_retries:       %d", cfg.MaxRetries)
		progressf("batch_size:        %d", cfg.BatchSize)
		progressf("author_workers:    %d", cfg.AuthorWorkers)
		progressf("max_title_results: %d", cfg.MaxTitleResults)
		progressf("crossref_base_url: %s", orDash(cfg.CrossrefBaseURL))
		progressf("openalex_base_url: %s", orDash(cfg.OpenAlexBaseURL))
		return nil
	}
	return outputJSON(cfg)
}
