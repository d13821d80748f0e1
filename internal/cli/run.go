package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/specstore/internal/harness"
	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// Sessions overrides session id generation for scenarios without a
	// session (for testing). Defaults to UUIDv7.
	Sessions journal.SessionGenerator
}

// RunResult is what run reports.
type RunResult struct {
	Scenario      string                `json:"scenario"`
	Database      string                `json:"database"`
	Session       string                `json:"session"`
	Pass          bool                  `json:"pass"`
	FinalState    any                   `json:"final_state"`
	Notifications int                   `json:"notifications"`
	Entries       int                   `json:"entries"`
	Steps         []harness.StepOutcome `json:"steps"`
	Errors        []string              `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Run one scenario and journal it to SQLite",
		Long: `Run a single scenario against a SQLite journal, creating the database if
it does not exist. Scenarios without a session get a fresh UUIDv7 session id;
a named session that already exists is appended to.

Inspect the result with "specstore trace".

Examples:
  specstore run scenarios/composite.yaml --db ./specstore.db
  SPECSTORE_DB=/tmp/j.db specstore run scenarios/loop.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite journal (env SPECSTORE_DB)")

	return cmd
}

func runScenario(opts *RunOptions, file string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	if opts.Database == "" {
		_ = f.Failure(ErrCodeJournal, "no journal database given", nil)
		return NewExitError(ExitCommandError, "--db is required")
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		_ = f.Failure(ErrCodeInvalid, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		_ = f.Failure(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	sessions := opts.Sessions
	if sessions == nil {
		sessions = journal.UUIDv7Generator{}
	}

	logger.Debug("running scenario", "file", file, "db", opts.Database)
	result, err := harness.Run(scenario,
		harness.WithContext(cmd.Context()),
		harness.WithJournal(j),
		harness.WithSessionGenerator(sessions),
		harness.WithStepBudget(opts.stepBudget()),
		harness.WithLogger(logger),
	)
	if err != nil {
		_ = f.Failure(ErrCodeFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	out := RunResult{
		Scenario:      scenario.Name,
		Database:      opts.Database,
		Session:       result.Session,
		Pass:          result.Pass,
		FinalState:    ir.ToGo(result.FinalState),
		Notifications: result.Notifications,
		Entries:       len(result.Trace),
		Steps:         result.Steps,
		Errors:        result.Errors,
	}
	if err := f.Success(out, formatRunText(out, result.FinalState)); err != nil {
		return err
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

func formatRunText(r RunResult, state ir.Array) string {
	var b strings.Builder

	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	fmt.Fprintf(&b, "%s %s\n", mark, r.Scenario)
	fmt.Fprintf(&b, "  session:       %s\n", r.Session)
	final, err := ir.MarshalCanonical(state)
	if err != nil {
		final = []byte(fmt.Sprint(r.FinalState))
	}
	fmt.Fprintf(&b, "  final state:   %s\n", final)
	fmt.Fprintf(&b, "  notifications: %d\n", r.Notifications)
	fmt.Fprintf(&b, "  entries:       %d\n", r.Entries)

	for _, s := range r.Steps {
		if s.Kind != "speculate" {
			continue
		}
		fmt.Fprintf(&b, "  step %d: can_execute=%t executed=%t", s.Index, s.CanExecute, s.Executed)
		if s.Error != "" {
			fmt.Fprintf(&b, " error=%q", s.Error)
		}
		b.WriteByte('\n')
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	return b.String()
}
