package harness

import (
	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/journal"
)

// TraceEvent is one journal entry of a run, without the session id.
type TraceEvent struct {
	Seq         int64  `json:"seq"`
	Kind        string `json:"kind"`
	ActionType  string `json:"action_type,omitempty"`
	Strategy    string `json:"strategy,omitempty"`
	CanExecute  bool   `json:"can_execute,omitempty"`
	Depth       int    `json:"depth"`
	StateDigest string `json:"state_digest,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func traceFromEntries(entries []journal.Entry) []TraceEvent {
	trace := make([]TraceEvent, len(entries))
	for i, e := range entries {
		trace[i] = TraceEvent{
			Seq:         e.Seq,
			Kind:        string(e.Kind),
			ActionType:  e.ActionType,
			Strategy:    e.Strategy,
			CanExecute:  e.CanExecute,
			Depth:       e.Depth,
			StateDigest: e.StateDigest,
			Detail:      e.Detail,
		}
	}
	return trace
}

// StepOutcome records what a top-level step did.
type StepOutcome struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"` // "dispatch" or "speculate"
	CanExecute bool   `json:"can_execute,omitempty"`
	Executed   bool   `json:"executed,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Session is the journal session the run was recorded under.
	Session string `json:"session"`

	// Steps has one outcome per top-level step.
	Steps []StepOutcome `json:"steps"`

	// Trace is the journal session in seq order.
	Trace []TraceEvent `json:"trace"`

	// FinalState is the root stack after the last step.
	FinalState ir.Array `json:"final_state"`

	// Notifications counts listener calls on the root store.
	Notifications int `json:"notifications"`

	// Errors lists failed expectations. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Steps:      []StepOutcome{},
		Trace:      []TraceEvent{},
		FinalState: ir.Array{},
		Errors:     []string{},
	}
}

// AddError records a failed expectation and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
