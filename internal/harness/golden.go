package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/specstore/internal/ir"
)

// GoldenDir is where RunWithGolden keeps fixtures, relative to the test's
// package directory.
const GoldenDir = "testdata/golden"

// TraceSnapshot is the part of a run compared against golden files.
type TraceSnapshot struct {
	ScenarioName  string
	Session       string
	Trace         []TraceEvent
	FinalState    ir.Array
	Notifications int
}

// NewSnapshot captures result for scenario.
func NewSnapshot(scenario *Scenario, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName:  scenario.Name,
		Session:       result.Session,
		Trace:         result.Trace,
		FinalState:    result.FinalState,
		Notifications: result.Notifications,
	}
}

// toCanonicalMap builds the plain value ir.MarshalCanonical encodes.
// can_execute is written for evaluate entries only, where false is
// meaningful.
func (s TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"seq":   ev.Seq,
			"kind":  ev.Kind,
			"depth": ev.Depth,
		}
		if ev.ActionType != "" {
			m["action_type"] = ev.ActionType
		}
		if ev.Strategy != "" {
			m["strategy"] = ev.Strategy
		}
		if ev.Kind == "evaluate" {
			m["can_execute"] = ev.CanExecute
		}
		if ev.StateDigest != "" {
			m["state_digest"] = ev.StateDigest
		}
		if ev.Detail != "" {
			m["detail"] = ev.Detail
		}
		trace[i] = m
	}

	final := s.FinalState
	if final == nil {
		final = ir.Array{}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"session":       s.Session,
		"trace":         trace,
		"final_state":   final,
		"notifications": s.Notifications,
	}
}

// Marshal encodes the snapshot as canonical JSON.
func (s TraceSnapshot) Marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden runs scenario and compares its snapshot with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()
	return RunWithGoldenDir(t, GoldenDir, scenario, opts...)
}

// RunWithGoldenDir is RunWithGolden with an explicit fixture directory.
func RunWithGoldenDir(t *testing.T, dir string, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, dir, scenario.Name, NewSnapshot(scenario, result)); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing snapshot with the fixture name in dir.
func AssertGolden(t *testing.T, dir, name string, snap TraceSnapshot) error {
	t.Helper()

	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
