// Package config loads run configuration for the resolver. Values
// come from defaults, then an optional YAML file, then environment
// variables, later sources winning.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "affil.yml"

// Config holds the tunable run parameters.
type Config struct {
	// Mailto is attached to OpenAlex requests and the User-Agent to
	// join the polite pool.
	Mailto string `yaml:"mailto,omitempty" json:"mailto,omitempty"`

	// PauseMillis is the minimum spacing between outbound calls.
	PauseMillis int `yaml:"pause_ms,omitempty" json:"pause_ms"`

	// MaxRetries bounds attempts on throttled calls.
	MaxRetries int `yaml:"max_retries,omitempty" json:"max_retries"`

	// BatchSize groups author-search calls.
	BatchSize int `yaml:"batch_size,omitempty" json:"batch_size"`

	// AuthorWorkers bounds concurrent author-search calls per batch.
	AuthorWorkers int `yaml:"author_workers,omitempty" json:"author_workers"`

	// MaxTitleResults caps candidate works per title search.
	MaxTitleResults int `yaml:"max_title_results,omitempty" json:"max_title_results"`

	// CrossrefBaseURL and OpenAlexBaseURL override the provider
	// endpoints (for testing against local servers).
	CrossrefBaseURL string `yaml:"crossref_base_url,omitempty" json:"crossref_base_url,omitempty"`
	OpenAlexBaseURL string `yaml:"openalex_base_url,omitempty" json:"openalex_base_url,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PauseMillis:     150,
		MaxRetries:      4,
		BatchSize:       25,
		AuthorWorkers:   1,
		MaxTitleResults: 5,
	}
}

// Load builds the effective configuration. With an empty path the
// default file is tried and silently skipped when absent; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from AFFIL_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("AFFIL_MAILTO"); v != "" {
		c.Mailto = v
	}
	envInt("AFFIL_PAUSE_MS", &c.PauseMillis)
	envInt("AFFIL_MAX_RETRIES", &c.MaxRetries)
	envInt("AFFIL_BATCH_SIZE", &c.BatchSize)
	envInt("AFFIL_AUTHOR_WORKERS", &c.AuthorWorkers)
	envInt("AFFIL_MAX_TITLE_RESULTS", &c.MaxTitleResults)
}

// envInt overrides dst when the variable holds a valid integer.
func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// validate rejects values the pipeline cannot run with.
func (c *Config) validate() error {
	if c.PauseMillis < 0 {
		return fmt.Errorf("pause_ms must be >= 0, got %d", c.PauseMillis)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1, got %d", c.MaxRetries)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1, got %d", c.BatchSize)
	}
	if c.AuthorWorkers < 1 {
		return fmt.Errorf("author_workers must be >= 1, got %d", c.AuthorWorkers)
	}
	if c.MaxTitleResults < 1 {
		return fmt.Errorf("max_title_results must be >= 1, got %d", c.MaxTitleResults)
	}
	return nil
}

// RequestsPerSecond converts the pause interval to a limiter rate.
func (c *Config) RequestsPerSecond() float64 {
	if c.PauseMillis <= 0 {
		return 1000 // effectively unpaced
	}
	return 1000.0 / float64(c.PauseMillis)
}
