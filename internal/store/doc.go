// Package store implements the single-writer state container that the
// speculative dispatch layer is built on.
//
// A Store holds one state value of type S, a pure Reducer that folds Actions
// into that state, and a list of Listeners notified after every reduction.
// Dispatch runs through an optional middleware chain installed by
// ApplyMiddleware; the end of the chain applies the action to the reducer.
//
// # Messages
//
// Everything that can be dispatched is a Message. The set is closed:
//
//   - Action: a plain application action, the only thing a Reducer sees.
//   - Any type embedding Extension: a message that some middleware consumes
//     before it reaches the reducer (the speculate package uses this for
//     speculative actions).
//
// An Extension message that reaches the reducer means no middleware claimed
// it. That is a wiring error and Dispatch panics.
//
// # Initialization
//
// New applies exactly InitReductions reductions (one Action of type InitType)
// before returning, so reducers can derive their starting state. Callers that
// count reductions must measure their baseline after New returns instead of
// assuming this number.
//
// # Concurrency
//
// A Store is not safe for concurrent use. All dispatches, subscriptions and
// reads are expected to happen on one logical thread of control; ordering of
// state changes is the order of Dispatch calls.
package store
