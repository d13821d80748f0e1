package speculate

import (
	"fmt"

	"github.com/roach88/specstore/internal/store"
)

// Handle is returned by dispatching a speculative Action in place of the
// store's normal dispatch result.
type Handle struct {
	// CanExecute reports whether committing would change state.
	CanExecute bool

	execute func() (bool, error)
	err     error
}

// Execute commits the evaluated action. It returns false and does nothing
// when CanExecute is false.
func (h *Handle) Execute() (bool, error) {
	if h == nil || !h.CanExecute || h.execute == nil {
		return false, nil
	}
	return h.execute()
}

// MustExecute is Execute for procedures that cannot fail; it panics on error.
func (h *Handle) MustExecute() bool {
	ok, err := h.Execute()
	if err != nil {
		panic(err)
	}
	return ok
}

// Err returns the error raised while evaluating the procedure, if any.
// A handle with an error never executes.
func (h *Handle) Err() error {
	if h == nil {
		return nil
	}
	return h.err
}

func noop() *Handle {
	return &Handle{}
}

func failed(err error) *Handle {
	return &Handle{err: err}
}

func executable(execute func() (bool, error)) *Handle {
	return &Handle{CanExecute: true, execute: execute}
}

// Dispatch sends action through dispatch and returns the handle along with
// any evaluation error. It works with a store's Dispatch method and with the
// dispatch function handed to a Procedure.
func Dispatch[S any](dispatch store.DispatchFunc, action *Action[S]) (*Handle, error) {
	out := dispatch(action)
	h, ok := out.(*Handle)
	if !ok {
		return nil, fmt.Errorf("%w: dispatch returned %T", ErrNotIntercepted, out)
	}
	return h, h.Err()
}

// Run dispatches action and executes it immediately when it can execute. It
// returns whether a commit happened.
func Run[S any](dispatch store.DispatchFunc, action *Action[S]) (bool, error) {
	h, err := Dispatch(dispatch, action)
	if err != nil {
		return false, err
	}
	return h.Execute()
}
