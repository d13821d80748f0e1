package store

import (
	"errors"
	"fmt"
)

// ErrDispatchInReducer is the panic value raised when a reducer dispatches,
// subscribes or unsubscribes while it is running.
var ErrDispatchInReducer = errors.New("store: reducers may not dispatch or change subscriptions")

// Reducer folds an action into the current state and returns the next state.
// Reducers must be pure and must return state unchanged for action types they
// do not handle.
type Reducer[S any] func(state S, action Action) S

// Listener is called after every reduction.
type Listener func()

// DispatchFunc is one link of the dispatch chain.
type DispatchFunc func(msg Message) any

// Enhancer customizes a Store while New is building it, before the
// initialization reduction runs.
type Enhancer[S any] func(s *Store[S])

// Store holds application state and applies actions to it through a reducer.
type Store[S any] struct {
	reducer   Reducer[S]
	state     S
	dispatch  DispatchFunc
	listeners []subscription
	nextID    uint64

	// reducing guards against reducers re-entering the store.
	reducing bool
}

type subscription struct {
	id uint64
	fn Listener
}

// New creates a Store with the given reducer and initial state.
//
// Enhancers run in order and may install middleware or replace the reducer.
// After they run, one InitType action is applied through the reducer without
// passing through middleware. Listeners registered by enhancers are notified
// of that reduction.
func New[S any](reducer Reducer[S], initial S, enhancers ...Enhancer[S]) *Store[S] {
	if reducer == nil {
		panic("store: nil reducer")
	}

	s := &Store[S]{
		reducer: reducer,
		state:   initial,
	}
	s.dispatch = s.reduce

	for _, enhance := range enhancers {
		enhance(s)
	}

	s.Apply(Action{Type: InitType})
	return s
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	return s.state
}

// Reducer returns the reducer currently installed on the store.
func (s *Store[S]) Reducer() Reducer[S] {
	return s.reducer
}

// ReplaceReducer swaps the reducer used for subsequent reductions.
// It does not re-run initialization.
func (s *Store[S]) ReplaceReducer(reducer Reducer[S]) {
	if reducer == nil {
		panic("store: nil reducer")
	}
	s.reducer = reducer
}

// Dispatch sends msg through the middleware chain and returns whatever the
// chain returns. For a plain Action reaching the reducer, that is the action.
func (s *Store[S]) Dispatch(msg Message) any {
	return s.dispatch(msg)
}

// Apply reduces action directly, skipping middleware, and notifies listeners.
// It is meant for enhancers that need to change state out of band.
func (s *Store[S]) Apply(action Action) Action {
	if s.reducing {
		panic(ErrDispatchInReducer)
	}

	s.reducing = true
	func() {
		defer func() { s.reducing = false }()
		s.state = s.reducer(s.state, action)
	}()

	s.notify()
	return action
}

// Subscribe registers fn to run after every reduction and returns a function
// that removes it. The returned function is safe to call more than once.
func (s *Store[S]) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		panic("store: nil listener")
	}
	if s.reducing {
		panic(ErrDispatchInReducer)
	}

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		if s.reducing {
			panic(ErrDispatchInReducer)
		}
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// reduce is the innermost link of the dispatch chain.
func (s *Store[S]) reduce(msg Message) any {
	action, ok := msg.(Action)
	if !ok {
		panic(fmt.Sprintf("store: %T reached the reducer; no middleware handled it", msg))
	}
	return s.Apply(action)
}

// notify calls a snapshot of the listeners, so subscriptions made or removed
// by a listener take effect from the next reduction.
func (s *Store[S]) notify() {
	snapshot := make([]subscription, len(s.listeners))
	copy(snapshot, s.listeners)
	for _, sub := range snapshot {
		sub.fn()
	}
}
