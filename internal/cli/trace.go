package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/specstore/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	Kind     string // optional entry kind filter
}

// TraceResult is a journal session as printed by trace.
type TraceResult struct {
	Session string          `json:"session"`
	Entries []journal.Entry `json:"entries"`
	Stats   TraceStats      `json:"stats"`
}

// TraceStats counts a session's entries by kind.
type TraceStats struct {
	Total       int `json:"total"`
	Dispatch    int `json:"dispatch"`
	Evaluate    int `json:"evaluate"`
	Commit      int `json:"commit"`
	Notify      int `json:"notify"`
	MaxDepth    int `json:"max_depth"`
	RootCommits int `json:"root_commits"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print journal sessions",
		Long: `Print what a journaled store did.

Without --session, lists the sessions in the journal with their entry counts.
With --session, prints that session's entries in order: plain dispatches,
speculative evaluations and commits at every depth, and root notifications
with a digest of the state at that point.

Examples:
  specstore trace --db ./specstore.db
  specstore trace --db ./specstore.db --session 0192f0c4-...
  specstore trace --db ./specstore.db --session s1 --kind commit --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite journal (env SPECSTORE_DB)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to print; lists sessions when empty")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only entries of this kind (dispatch|evaluate|commit|notify)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	if opts.Kind != "" && !journal.Kind(opts.Kind).Valid() {
		_ = f.Failure(ErrCodeInvalid, fmt.Sprintf("unknown kind %q", opts.Kind), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown kind %q", opts.Kind))
	}

	// Open creates missing databases; trace must not.
	if _, err := os.Stat(opts.Database); errors.Is(err, fs.ErrNotExist) {
		_ = f.Failure(ErrCodeNotFound, fmt.Sprintf("journal not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		_ = f.Failure(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	if opts.Session == "" {
		sessions, err := j.Sessions(ctx)
		if err != nil {
			_ = f.Failure(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "list sessions", err)
		}
		return f.Success(sessions, formatSessionsText(sessions))
	}

	entries, err := j.ReadSession(ctx, opts.Session)
	if err != nil {
		_ = f.Failure(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read session", err)
	}

	result := TraceResult{Session: opts.Session, Entries: filterKind(entries, opts.Kind)}
	result.Stats = traceStats(entries)
	return f.Success(result, formatTraceText(result, opts.Verbose))
}

func filterKind(entries []journal.Entry, kind string) []journal.Entry {
	if kind == "" {
		return entries
	}
	out := []journal.Entry{}
	for _, e := range entries {
		if string(e.Kind) == kind {
			out = append(out, e)
		}
	}
	return out
}

func traceStats(entries []journal.Entry) TraceStats {
	stats := TraceStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Kind {
		case journal.KindDispatch:
			stats.Dispatch++
		case journal.KindEvaluate:
			stats.Evaluate++
		case journal.KindCommit:
			stats.Commit++
			if e.Depth == 0 {
				stats.RootCommits++
			}
		case journal.KindNotify:
			stats.Notify++
		}
		stats.MaxDepth = max(stats.MaxDepth, e.Depth)
	}
	return stats
}

func formatSessionsText(sessions []journal.Session) string {
	if len(sessions) == 0 {
		return "No sessions recorded.\n"
	}
	var b strings.Builder
	for _, s := range sessions {
		fmt.Fprintf(&b, "%s  %4d entries", s.ID, s.Entries)
		if s.Label != "" {
			fmt.Fprintf(&b, "  %s", s.Label)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatTraceText(r TraceResult, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Trace for session: %s\n\n", r.Session)
	if len(r.Entries) == 0 {
		b.WriteString("  (no entries)\n")
	}
	for _, e := range r.Entries {
		indent := strings.Repeat("  ", e.Depth)
		fmt.Fprintf(&b, "[%d] %s%s", e.Seq, indent, e.Kind)
		switch e.Kind {
		case journal.KindDispatch:
			fmt.Fprintf(&b, " %s", e.ActionType)
		case journal.KindEvaluate:
			fmt.Fprintf(&b, " %s can_execute=%t", e.Strategy, e.CanExecute)
		case journal.KindCommit:
			fmt.Fprintf(&b, " %s", e.Strategy)
		}
		if e.StateDigest != "" {
			digest := e.StateDigest
			if !verbose && len(digest) > 12 {
				digest = digest[:12]
			}
			fmt.Fprintf(&b, " state=%s", digest)
		}
		if e.Detail != "" {
			fmt.Fprintf(&b, " (%s)", e.Detail)
		}
		b.WriteByte('\n')
	}

	s := r.Stats
	fmt.Fprintf(&b, "\n%d entries: %d dispatch, %d evaluate, %d commit (%d at root), %d notify, max depth %d\n",
		s.Total, s.Dispatch, s.Evaluate, s.Commit, s.RootCommits, s.Notify, s.MaxDepth)
	return b.String()
}
