package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTrace = []TraceEvent{
	{Seq: 1, Kind: "dispatch", ActionType: "PUSH"},
	{Seq: 2, Kind: "notify"},
	{Seq: 3, Kind: "evaluate", Strategy: "isolated", Depth: 1, CanExecute: true},
	{Seq: 4, Kind: "commit", Strategy: "isolated", Depth: 1},
	{Seq: 5, Kind: "evaluate", Strategy: "isolated", CanExecute: true},
	{Seq: 6, Kind: "notify"},
	{Seq: 7, Kind: "commit", Strategy: "isolated"},
}

func intPtr(n int) *int { return &n }

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Kind: "notify", Count: 2}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Kind: "commit", Depth: intPtr(1), Count: 1}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Kind: "commit", Depth: intPtr(0), Count: 1}))

	err := assertTraceCount(sampleTrace, Assertion{Kind: "evaluate", Depth: intPtr(2), Count: 1})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "1 occurrences of evaluate at depth 2", ae.Expected)
	assert.Equal(t, "0 occurrences", ae.Actual)
}

func TestAssertTraceOrder(t *testing.T) {
	assert.NoError(t, assertTraceOrder(sampleTrace, Assertion{Kinds: []string{"dispatch", "evaluate", "commit"}}))
	assert.NoError(t, assertTraceOrder(sampleTrace, Assertion{Kinds: []string{"notify", "notify"}}))

	err := assertTraceOrder(sampleTrace, Assertion{Kinds: []string{"commit", "dispatch"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched 1 of 2, missing dispatch")
}

func TestEvaluateAssertions(t *testing.T) {
	errs := EvaluateAssertions(sampleTrace, []Assertion{
		{Type: AssertTraceCount, Kind: "dispatch", Count: 1},
		{Type: AssertTraceCount, Kind: "dispatch", Count: 2},
		{Type: "mystery"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[1]")
	assert.Contains(t, errs[1], `assertions[2]: unknown assertion type "mystery"`)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "1 occurrences of commit",
		Actual:   "0 occurrences",
		Trace:    sampleTrace[:3],
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "[1] dispatch PUSH")
	assert.Contains(t, msg, "[3] evaluate isolated depth=1")
}
