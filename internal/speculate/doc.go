// Package speculate adds speculative actions to a store.
//
// A speculative Action wraps a Procedure that dispatches zero or more actions.
// Dispatching it through a store built by Enhance or Create does not touch the
// store: the dispatch returns a *Handle saying whether applying the procedure
// would change state, and Handle.Execute commits it later.
//
// # Strategies
//
// Isolated (WithBranch(true), the default) runs the procedure against a branch:
// a fresh store seeded with the current state and the application reducer.
// The procedure sees its own dispatches through getState. Before and after
// snapshots of the branch are compared with the equality package, in Deep or
// Identity mode depending on WithDeepEqual. Execute replaces the enclosing
// store's state with the branch's final state, which is one reduction and one
// listener notification no matter how many dispatches the procedure made.
//
// Counting (WithBranch(false)) avoids copying state. The procedure runs
// against a probe whose reducer counts reductions and returns the state it was
// given, so getState always returns the pre-dispatch snapshot. Any reduction
// beyond the probe's own initialization counts as a change. Execute runs the
// procedure a second time against the enclosing store for real. A procedure
// that loops until getState reports progress never terminates under this
// strategy. WithDeepEqual has no effect here: change detection is by count,
// not by value.
//
// # Nesting
//
// A procedure receives the dispatch and getState of the store evaluating it.
// Speculative actions it dispatches are evaluated against that store (a
// branch, under Isolated), and their Execute commits into it. Effects of
// nested actions therefore compose inside the outer branch and reach the real
// store only when the outermost handle executes.
//
// # Execute semantics
//
// Execute on a handle that cannot execute returns false and does nothing.
// Calling Execute again after a successful commit is not guarded: Isolated
// re-applies the same computed state (one more notification, same value);
// Counting re-runs the procedure and so re-dispatches everything it does.
//
// Stores are not safe for concurrent use; see package store.
package speculate
