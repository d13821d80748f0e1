package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "specstore", cmd.Use)
	assert.Contains(t, cmd.Long, "speculative")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"validate", "test", "run", "trace"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv("SPECSTORE_FORMAT", "text")
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestEnvironmentDefaults(t *testing.T) {
	t.Setenv("SPECSTORE_FORMAT", "json")
	t.Setenv("SPECSTORE_DB", "/tmp/elsewhere.db")

	cmd := NewRootCommand()
	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)

	run, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", run.Flags().Lookup("db").DefValue)
}

func TestInvalidEnvironment(t *testing.T) {
	t.Setenv("SPECSTORE_STEP_BUDGET", "-3")

	_, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestInvalidEnvironment_FallsBackToDefaults(t *testing.T) {
	t.Setenv("SPECSTORE_FORMAT", "yaml")
	t.Setenv("SPECSTORE_DB", "/tmp/ignored.db")

	cmd := NewRootCommand()
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)

	run, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	assert.Equal(t, "specstore.db", run.Flags().Lookup("db").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "compile")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}
