package app

import (
	"fmt"

	"github.com/vk/neccard/internal/column"
	"github.com/vk/neccard/internal/reformat"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string
	LogLevel  string

	// Build overrides. Zero values keep what each request document says.
	Output    string
	SigFigs   *int
	Verbosity *int

	// Reformat settings. Nil values select the reformat defaults.
	ReformatColumns column.Spec
	ReformatSigFigs *int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.SigFigs != nil && (*cfg.SigFigs < 0 || *cfg.SigFigs > column.MaxSigFigs) {
		return nil, fmt.Errorf("significant figures must be between 0 and %d, got %d", column.MaxSigFigs, *cfg.SigFigs)
	}
	if cfg.Verbosity != nil && (*cfg.Verbosity < 0 || *cfg.Verbosity > 2) {
		return nil, fmt.Errorf("verbosity must be 0, 1 or 2, got %d", *cfg.Verbosity)
	}

	if cfg.ReformatColumns == nil {
		cfg.ReformatColumns = reformat.DefaultSpec()
	}
	if err := cfg.ReformatColumns.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reformat columns: %w", err)
	}
	if cfg.ReformatSigFigs == nil {
		sigFigs := column.DefaultSigFigs
		cfg.ReformatSigFigs = &sigFigs
	}
	if *cfg.ReformatSigFigs < 0 || *cfg.ReformatSigFigs > column.MaxSigFigs {
		return nil, fmt.Errorf("reformat significant figures must be between 0 and %d, got %d", column.MaxSigFigs, *cfg.ReformatSigFigs)
	}

	return &cfg, nil
}
