package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/specstore/internal/config"
	"github.com/roach88/specstore/internal/harness"
)

// RootOptions holds global flags and the environment configuration.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the specstore command tree. Environment variables
// provide flag defaults; see config.Config.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.Defaults()
	}
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "specstore",
		Short: "Speculative actions for a Redux-style store",
		Long: `specstore runs scripted scenarios against a store with speculative
actions: actions that are evaluated first and committed only when they
would change state. Every dispatch, evaluation, commit and notification
is journaled to SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", cfgErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Config.LogLevel, opts.Verbose)
			slog.SetDefault(opts.Logger)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (text|json)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

func newLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logger returns the configured logger, or a discarding one when a command
// runs without the root command's pre-run.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stepBudget falls back to the default when no configuration was loaded.
func (o *RootOptions) stepBudget() int {
	if o.Config.StepBudget > 0 {
		return o.Config.StepBudget
	}
	return harness.DefaultStepBudget
}
