package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const pushOneYAML = `name: push_one
description: one push
steps:
  - speculate:
      ops: [{push: 1}]
      expect: {can_execute: true, executed: true}
final_state: [1]
notifications: 1
`

const popEmptyCUE = `name:        "pop_empty"
description: "nothing to pop"
steps: [{speculate: {ops: [{pop: true}], expect: {can_execute: false}}}]
notifications: 0
`

const wrongYAML = `name: wrong
description: expects a change that never happens
steps:
  - speculate:
      ops: [{pop: true}]
      expect: {can_execute: true}
`

// scenarioDir writes files (name -> content) into a temp directory.
func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
