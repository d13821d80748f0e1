package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/speculate"
	"github.com/roach88/specstore/internal/stack"
	"github.com/roach88/specstore/internal/store"
)

// StepBudgetError is returned when a push_until loop runs out of iterations
// before the stack reaches its target length. Under the counting strategy
// the probe never changes state, so a loop that waits on getState exhausts
// its budget instead of terminating.
type StepBudgetError struct {
	Path   string
	Budget int
	Length int
	Seen   int
}

func (e *StepBudgetError) Error() string {
	return fmt.Sprintf("%s: step budget exhausted after %d iterations (want length %d, stack has %d)",
		e.Path, e.Budget, e.Length, e.Seen)
}

// errProcedureFailed marks errors raised by a fail op.
var errProcedureFailed = errors.New("procedure failed")

// action builds a speculative action for step.
func (r *runner) action(path string, step *SpeculateStep) *speculate.Action[ir.Array] {
	var opts []speculate.Option
	if step.Branch != nil {
		opts = append(opts, speculate.WithBranch(*step.Branch))
	}
	if step.DeepEqual != nil {
		opts = append(opts, speculate.WithDeepEqual(*step.DeepEqual))
	}
	return speculate.New(r.procedure(path, step.Ops), opts...)
}

// procedure interprets ops. The same procedure may run more than once: the
// counting strategy evaluates it against a probe and again on Execute.
func (r *runner) procedure(path string, ops []Op) speculate.Procedure[ir.Array] {
	return func(dispatch store.DispatchFunc, getState func() ir.Array) error {
		for i, op := range ops {
			opPath := fmt.Sprintf("%s.ops[%d]", path, i)

			switch {
			case op.Push != nil:
				v, err := ir.FromGo(op.Push)
				if err != nil {
					return fmt.Errorf("%s: push: %w", opPath, err)
				}
				dispatch(stack.Push(v))

			case op.Pop:
				dispatch(stack.Pop())

			case op.PushUntil != nil:
				if err := r.pushUntil(opPath, op.PushUntil, dispatch, getState); err != nil {
					return err
				}

			case op.Speculate != nil:
				if err := r.nested(opPath+".speculate", op.Speculate, dispatch); err != nil {
					return err
				}

			case op.Fail != "":
				return fmt.Errorf("%s: %w: %s", opPath, errProcedureFailed, op.Fail)
			}
		}
		return nil
	}
}

func (r *runner) pushUntil(path string, p *PushUntil, dispatch store.DispatchFunc, getState func() ir.Array) error {
	budget := p.Budget
	if budget == 0 {
		budget = r.budget
	}

	var fixed ir.Value
	if p.Value != nil {
		v, err := ir.FromGo(p.Value)
		if err != nil {
			return fmt.Errorf("%s: push_until value: %w", path, err)
		}
		fixed = v
	}

	for i := 0; len(getState()) < p.Length; i++ {
		if i >= budget {
			return &StepBudgetError{Path: path, Budget: budget, Length: p.Length, Seen: len(getState())}
		}
		v := fixed
		if v == nil {
			v = ir.Int(int64(i))
		}
		dispatch(stack.Push(v))
	}
	return nil
}

// nested dispatches a speculative action from inside a procedure and
// executes it unless execute is false.
func (r *runner) nested(path string, step *SpeculateStep, dispatch store.DispatchFunc) error {
	h, err := speculate.Dispatch(dispatch, r.action(path, step))
	if err != nil {
		return err
	}
	if step.Execute != nil && !*step.Execute {
		return nil
	}
	_, err = h.Execute()
	return err
}
