package speculate

import (
	"fmt"

	"github.com/roach88/specstore/internal/equality"
	"github.com/roach88/specstore/internal/store"
)

// Procedure is the body of a speculative action. It may dispatch plain and
// speculative actions and read state; it must be deterministic and free of
// side effects other than its dispatches.
type Procedure[S any] func(dispatch store.DispatchFunc, getState func() S) error

// Strategy selects how an action detects change.
type Strategy int

const (
	// Isolated evaluates against a branch of the state.
	Isolated Strategy = iota
	// Counting evaluates by counting reductions against a probe.
	Counting
)

func (s Strategy) String() string {
	switch s {
	case Isolated:
		return "isolated"
	case Counting:
		return "counting"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Option configures an Action at construction time.
type Option func(*actionConfig)

type actionConfig struct {
	branch    bool
	deepEqual bool
}

// WithBranch selects the Isolated strategy when true (the default) and the
// Counting strategy when false.
func WithBranch(branch bool) Option {
	return func(c *actionConfig) {
		c.branch = branch
	}
}

// WithDeepEqual selects Deep comparison when true (the default) and Identity
// comparison when false. Ignored by the Counting strategy.
func WithDeepEqual(deep bool) Option {
	return func(c *actionConfig) {
		c.deepEqual = deep
	}
}

// Action is a speculative action. It is immutable; dispatching the same
// Action twice evaluates it twice, independently.
type Action[S any] struct {
	store.Extension

	procedure Procedure[S]
	strategy  Strategy
	deepEqual bool
}

// New wraps procedure in a speculative action.
func New[S any](procedure Procedure[S], opts ...Option) *Action[S] {
	if procedure == nil {
		panic("speculate: nil procedure")
	}

	cfg := actionConfig{branch: true, deepEqual: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	strategy := Isolated
	if !cfg.branch {
		strategy = Counting
	}

	return &Action[S]{
		procedure: procedure,
		strategy:  strategy,
		deepEqual: cfg.deepEqual,
	}
}

// Strategy returns the action's execution strategy.
func (a *Action[S]) Strategy() Strategy {
	return a.strategy
}

// DeepEqual reports whether the deep-equal flag was set.
func (a *Action[S]) DeepEqual() bool {
	return a.deepEqual
}

// Mode is the comparison mode used by the Isolated strategy.
func (a *Action[S]) Mode() equality.Mode {
	return equality.ModeFor(a.deepEqual)
}

// evaluate runs the action against target and returns its handle.
func (a *Action[S]) evaluate(target *Store[S]) *Handle {
	var h *Handle
	if a.strategy == Counting {
		h = a.evaluateCounting(target)
	} else {
		h = a.evaluateIsolated(target)
	}

	target.observer().Evaluated(Evaluation{
		Strategy:   a.strategy,
		Depth:      target.depth,
		CanExecute: h.CanExecute,
		Err:        h.err,
	})
	target.logger().Debug("speculative evaluation",
		"strategy", a.strategy,
		"depth", target.depth,
		"can_execute", h.CanExecute,
		"error", h.err,
	)
	return h
}

func (a *Action[S]) evaluateIsolated(target *Store[S]) *Handle {
	branch := target.Branch(nil)
	before := branch.GetState()

	if err := a.procedure(branch.Dispatch, branch.GetState); err != nil {
		return failed(&EvalError{Strategy: Isolated, Phase: PhaseEvaluate, Depth: target.depth, Err: err})
	}

	after := branch.GetState()
	if equality.Unchanged(before, after, a.Mode()) {
		return noop()
	}

	return executable(func() (bool, error) {
		target.ReplaceState(after)
		target.committed(Isolated)
		return true, nil
	})
}

func (a *Action[S]) evaluateCounting(target *Store[S]) *Handle {
	reductions := 0
	probe := target.Branch(func(next store.Reducer[S]) store.Reducer[S] {
		return func(state S, action store.Action) S {
			reductions++
			next(state, action)
			return state
		}
	})
	baseline := reductions

	if err := a.procedure(probe.Dispatch, probe.GetState); err != nil {
		return failed(&EvalError{Strategy: Counting, Phase: PhaseEvaluate, Depth: target.depth, Err: err})
	}

	if reductions <= baseline {
		return noop()
	}

	return executable(func() (bool, error) {
		if err := a.procedure(target.Dispatch, target.GetState); err != nil {
			return false, &EvalError{Strategy: Counting, Phase: PhaseCommit, Depth: target.depth, Err: err}
		}
		target.committed(Counting)
		return true, nil
	})
}
