// Package config loads specstore defaults from the environment. Command-line
// flags override whatever is loaded here.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-derived defaults for the CLI.
type Config struct {
	// DB is the journal database path used by run and trace.
	DB string `env:"SPECSTORE_DB" envDefault:"specstore.db"`
	// Format is the output format, text or json.
	Format string `env:"SPECSTORE_FORMAT" envDefault:"text"`
	// LogLevel is the slog level for stderr logging. --verbose forces debug.
	LogLevel slog.Level `env:"SPECSTORE_LOG_LEVEL" envDefault:"warn"`
	// StepBudget bounds push_until loops in scenarios that do not set one.
	StepBudget int `env:"SPECSTORE_STEP_BUDGET" envDefault:"1000"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the configuration an empty environment produces, taken
// from the envDefault tags.
func Defaults() Config {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config: invalid envDefault tag: %v", err))
	}
	return cfg
}

// Validate rejects values no command can use.
func (c Config) Validate() error {
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("SPECSTORE_FORMAT: must be text or json, got %q", c.Format)
	}
	if c.StepBudget <= 0 {
		return fmt.Errorf("SPECSTORE_STEP_BUDGET: must be positive, got %d", c.StepBudget)
	}
	return nil
}
