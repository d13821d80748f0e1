package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "open journal", cause)

	assert.Equal(t, "open journal: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, ExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, ExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "x"))))
	assert.Equal(t, ExitCommandError, ExitCode(errors.New("unknown flag")))
}

func TestOutputFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"n": 1}, "ignored"))
	var ok Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ok))
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, map[string]any{"n": float64(1)}, ok.Data)

	buf.Reset()
	require.NoError(t, f.Failure(ErrCodeNotFound, "missing", []string{"a"}))
	var fail Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fail))
	assert.Equal(t, "error", fail.Status)
	require.NotNil(t, fail.Error)
	assert.Equal(t, ErrCodeNotFound, fail.Error.Code)
	assert.Equal(t, "missing", fail.Error.Message)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success(42, ""))
	require.NoError(t, f.Success(nil, "custom\n"))
	require.NoError(t, f.Failure(ErrCodeGeneric, "broken", "hidden"))
	assert.Equal(t, "42\ncustom\nError [E001]: broken\n", buf.String())

	buf.Reset()
	f.Verbose = true
	require.NoError(t, f.Failure(ErrCodeGeneric, "broken", "shown"))
	assert.Contains(t, buf.String(), "Details: shown")
}

func TestOutputFormatter_Logf(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}

	f.Logf("quiet %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.Logf("loud %d", 2)
	assert.Equal(t, "loud 2\n", errOut.String())
	assert.Empty(t, out.String(), "diagnostics never touch the JSON stream")
}
