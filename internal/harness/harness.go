package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/journal"
	"github.com/roach88/specstore/internal/speculate"
	"github.com/roach88/specstore/internal/stack"
	"github.com/roach88/specstore/internal/store"
	"github.com/roach88/specstore/internal/testutil"
)

// DefaultStepBudget bounds push_until loops when neither the op, the
// scenario nor WithStepBudget sets a budget.
const DefaultStepBudget = 1000

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	ctx      context.Context
	journal  *journal.Journal
	sessions journal.SessionGenerator
	budget   int
	logger   *slog.Logger
}

// WithJournal records into j instead of a private in-memory journal. The
// caller keeps ownership of j.
func WithJournal(j *journal.Journal) Option {
	return func(c *runConfig) {
		c.journal = j
	}
}

// WithSessionGenerator supplies session ids for scenarios that do not name
// one. The default is a fixed id so traces are reproducible.
func WithSessionGenerator(g journal.SessionGenerator) Option {
	return func(c *runConfig) {
		c.sessions = g
	}
}

// WithStepBudget sets the push_until budget for scenarios without one.
func WithStepBudget(n int) Option {
	return func(c *runConfig) {
		c.budget = n
	}
}

// WithLogger sets the logger for the run and the store. Defaults to a
// discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithContext sets the context journal writes run under.
func WithContext(ctx context.Context) Option {
	return func(c *runConfig) {
		c.ctx = ctx
	}
}

type runner struct {
	budget int
	logger *slog.Logger
}

// Run executes a scenario against a fresh stack store and returns the
// result.
//
// The store is built with the journal recorder installed as middleware,
// observer and listener, so the trace shows every dispatch, evaluation,
// commit and notification. A returned error means the run itself could not
// proceed; failed expectations are reported in Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		ctx:      context.Background(),
		sessions: testutil.NewFixedSession(""),
		budget:   DefaultStepBudget,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx := cfg.ctx

	j := cfg.journal
	if j == nil {
		mem, err := journal.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("open in-memory journal: %w", err)
		}
		defer mem.Close()
		j = mem
	}

	initial, err := toStack(scenario.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial: %w", err)
	}

	session := scenario.Session
	if session == "" {
		session = cfg.sessions.Generate()
	}
	if err := j.BeginSession(ctx, session, scenario.Name); err != nil {
		return nil, err
	}
	seq, err := sequencerFor(ctx, j, session)
	if err != nil {
		return nil, err
	}

	rec := journal.NewRecorder[ir.Array](ctx, j, session,
		journal.WithSequencer(seq),
		journal.WithRecorderLogger(cfg.logger),
	)
	s := speculate.Create(stack.Reducer, initial,
		[]speculate.StoreOption{speculate.WithObserver(rec), speculate.WithLogger(cfg.logger)},
		rec.Middleware(),
	)
	rec.Attach(s)

	result := NewResult()
	result.Session = session
	s.Subscribe(func() { result.Notifications++ })

	budget := cfg.budget
	if scenario.Budget > 0 {
		budget = scenario.Budget
	}
	r := &runner{budget: budget, logger: cfg.logger}

	for i, step := range scenario.Steps {
		outcome, err := r.runStep(s, i, step, result)
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, outcome)
	}

	if err := rec.Err(); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	entries, err := j.ReadSession(ctx, session)
	if err != nil {
		return nil, err
	}
	result.Trace = traceFromEntries(entries)
	result.FinalState = s.GetState()
	if result.FinalState == nil {
		result.FinalState = ir.Array{}
	}

	for _, msg := range checkFinal(scenario, result) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}

	cfg.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"session", session,
		"pass", result.Pass,
		"entries", len(result.Trace),
	)
	return result, nil
}

// sequencerFor continues an existing session after its last seq, so a fixed
// session id reused against a file journal appends instead of colliding.
func sequencerFor(ctx context.Context, j *journal.Journal, session string) (journal.Sequencer, error) {
	existing, err := j.ReadSession(ctx, session)
	if err != nil {
		return nil, err
	}
	var last int64
	if len(existing) > 0 {
		last = existing[len(existing)-1].Seq
	}
	return journal.NewClockAt(last), nil
}

func (r *runner) runStep(s *speculate.Store[ir.Array], i int, step Step, result *Result) (StepOutcome, error) {
	if step.Dispatch != nil {
		a, err := toAction(step.Dispatch)
		if err != nil {
			return StepOutcome{}, fmt.Errorf("steps[%d]: %w", i, err)
		}
		s.Dispatch(a)
		r.logger.Debug("dispatch step", "step", i, "type", a.Type)
		return StepOutcome{Index: i, Kind: "dispatch"}, nil
	}

	sp := step.Speculate
	path := fmt.Sprintf("steps[%d]", i)
	outcome := StepOutcome{Index: i, Kind: "speculate"}

	h, err := speculate.Dispatch(s.Dispatch, r.action(path, sp))
	if h != nil {
		outcome.CanExecute = h.CanExecute
	}
	if err == nil && (sp.Execute == nil || *sp.Execute) {
		outcome.Executed, err = h.Execute()
	}
	if err != nil {
		outcome.Error = err.Error()
	}

	for _, msg := range checkExpect(path, sp.Expect, outcome) {
		result.AddError(msg)
	}
	r.logger.Debug("speculate step",
		"step", i,
		"can_execute", outcome.CanExecute,
		"executed", outcome.Executed,
		"error", outcome.Error,
	)
	return outcome, nil
}

func checkExpect(path string, want *Expect, got StepOutcome) []string {
	var errs []string
	if want == nil {
		if got.Error != "" {
			errs = append(errs, fmt.Sprintf("%s: unexpected error: %s", path, got.Error))
		}
		return errs
	}

	if want.CanExecute != nil && *want.CanExecute != got.CanExecute {
		errs = append(errs, fmt.Sprintf("%s: can_execute = %t, want %t", path, got.CanExecute, *want.CanExecute))
	}
	if want.Executed != nil && *want.Executed != got.Executed {
		errs = append(errs, fmt.Sprintf("%s: executed = %t, want %t", path, got.Executed, *want.Executed))
	}
	switch {
	case want.Error == "" && got.Error != "":
		errs = append(errs, fmt.Sprintf("%s: unexpected error: %s", path, got.Error))
	case want.Error != "" && got.Error == "":
		errs = append(errs, fmt.Sprintf("%s: expected error containing %q, got none", path, want.Error))
	case want.Error != "" && !strings.Contains(got.Error, want.Error):
		errs = append(errs, fmt.Sprintf("%s: error %q does not contain %q", path, got.Error, want.Error))
	}
	return errs
}

func checkFinal(scenario *Scenario, result *Result) []string {
	var errs []string
	if scenario.FinalState != nil {
		want, err := toStack(scenario.FinalState)
		if err != nil {
			errs = append(errs, fmt.Sprintf("final_state: %v", err))
		} else if !ir.Equal(want, result.FinalState) {
			errs = append(errs, fmt.Sprintf("final_state = %s, want %s", render(result.FinalState), render(want)))
		}
	}
	if scenario.Notifications != nil && *scenario.Notifications != result.Notifications {
		errs = append(errs, fmt.Sprintf("notifications = %d, want %d", result.Notifications, *scenario.Notifications))
	}
	return errs
}

func toStack(values []any) (ir.Array, error) {
	if values == nil {
		return nil, nil
	}
	out := make(ir.Array, len(values))
	for i, v := range values {
		conv, err := ir.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = conv
	}
	return out, nil
}

func toAction(d *DispatchStep) (store.Action, error) {
	switch d.Type {
	case stack.TypePush:
		v, err := ir.FromGo(d.Value)
		if err != nil {
			return store.Action{}, fmt.Errorf("push value: %w", err)
		}
		return stack.Push(v), nil
	case stack.TypePop:
		return stack.Pop(), nil
	}
	return store.Action{}, fmt.Errorf("unknown action type %q", d.Type)
}

func render(v ir.Value) string {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
