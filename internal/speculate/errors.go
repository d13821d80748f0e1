package speculate

import (
	"errors"
	"fmt"
)

// ErrNotIntercepted is returned by Dispatch when the dispatch chain returned
// something other than a *Handle, which means the store was not built with
// Enhance or Create.
var ErrNotIntercepted = errors.New("speculate: speculative action was not intercepted")

// Phase says when a procedure failed.
type Phase string

const (
	// PhaseEvaluate is the speculative run.
	PhaseEvaluate Phase = "evaluate"
	// PhaseCommit is the second run performed by a Counting Execute.
	PhaseCommit Phase = "commit"
)

// EvalError wraps an error returned by a Procedure.
type EvalError struct {
	Strategy Strategy
	Phase    Phase
	// Depth is the nesting depth of the store the action ran against.
	Depth int
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("speculative %s failed (strategy=%s, depth=%d): %v", e.Phase, e.Strategy, e.Depth, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// IsEvalError reports whether err wraps an EvalError.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}
