package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/specstore/internal/harness"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Check scenario files without running them",
		Long: `Load every .yaml, .yml and .cue scenario under a directory and check
it against the scenario schema. Nothing is executed.

Exit codes:
  0 - All scenarios are valid
  1 - One or more scenarios are invalid
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result, err := harness.ValidateDir(dir)
	if err != nil {
		code := ErrCodeGeneric
		var notFound *harness.DirNotFoundError
		if errors.As(err, &notFound) {
			code = ErrCodeNotFound
		}
		_ = f.Failure(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate", err)
	}
	f.Logf("checked %d scenario file(s) in %s", result.Total, dir)

	if result.Invalid > 0 {
		if f.JSON() {
			_ = f.Failure(ErrCodeInvalid, fmt.Sprintf("%d of %d scenario(s) invalid", result.Invalid, result.Total), result.Failures)
		} else {
			var b strings.Builder
			for _, fail := range result.Failures {
				fmt.Fprintf(&b, "✗ %s\n  %s\n", fail.Path, fail.Error)
			}
			fmt.Fprintf(&b, "\n%d of %d scenario(s) invalid\n", result.Invalid, result.Total)
			_ = f.Success(nil, b.String())
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) invalid", result.Invalid))
	}

	return f.Success(result, fmt.Sprintf("✓ %d scenario(s) valid\n", result.Valid))
}
