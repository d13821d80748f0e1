package speculate

import (
	"errors"
	"testing"

	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/stack"
	"github.com/roach88/specstore/internal/store"
)

var errBudget = errors.New("loop budget exhausted")

// newStackStore builds an enhanced stack store and counts notifications on it.
func newStackStore(t *testing.T, opts ...StoreOption) (*Store[ir.Array], *int) {
	t.Helper()
	s := Create(stack.Reducer, ir.Array(nil), opts)
	notifications := 0
	s.Subscribe(func() { notifications++ })
	return s, &notifications
}

// pushes returns a procedure dispatching PUSH for each value.
func pushes(values ...int64) Procedure[ir.Array] {
	return func(dispatch store.DispatchFunc, _ func() ir.Array) error {
		for _, v := range values {
			dispatch(stack.Push(ir.Int(v)))
		}
		return nil
	}
}

// pushUntil pushes until getState reports n elements, giving up after budget
// iterations.
func pushUntil(n, budget int) Procedure[ir.Array] {
	return func(dispatch store.DispatchFunc, getState func() ir.Array) error {
		for i := 0; len(getState()) < n; i++ {
			if i >= budget {
				return errBudget
			}
			dispatch(stack.Push(ir.Int(int64(i))))
		}
		return nil
	}
}

func ints(values ...int64) ir.Array {
	out := make(ir.Array, len(values))
	for i, v := range values {
		out[i] = ir.Int(v)
	}
	return out
}
