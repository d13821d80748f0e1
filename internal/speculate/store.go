package speculate

import (
	"log/slog"

	"github.com/roach88/specstore/internal/store"
)

// CreateFunc builds a base store. store.New satisfies it.
type CreateFunc[S any] func(reducer store.Reducer[S], initial S, enhancers ...store.Enhancer[S]) *store.Store[S]

// Factory builds an enhanced store.
type Factory[S any] func(reducer store.Reducer[S], initial S, opts ...StoreOption) *Store[S]

// ReducerWrapper decorates the reducer of a branch.
type ReducerWrapper[S any] func(next store.Reducer[S]) store.Reducer[S]

// Store is a base store with the speculative interceptor installed in front
// of its middleware, plus the Branch and ReplaceState capabilities.
type Store[S any] struct {
	base    *store.Store[S]
	create  CreateFunc[S]
	reducer store.Reducer[S] // application reducer, without wrappers
	depth   int
	cfg     storeConfig
}

// Enhance returns a Factory that builds stores through create, with the
// speculative interceptor ahead of middlewares. Ordinary middleware keeps
// working and never sees speculative actions.
func Enhance[S any](create CreateFunc[S], middlewares ...store.Middleware[S]) Factory[S] {
	return func(reducer store.Reducer[S], initial S, opts ...StoreOption) *Store[S] {
		return build(create, reducer, nil, initial, 0, newStoreConfig(opts), middlewares)
	}
}

// Create is Enhance(store.New, middlewares...) applied to reducer and initial.
func Create[S any](reducer store.Reducer[S], initial S, opts []StoreOption, middlewares ...store.Middleware[S]) *Store[S] {
	return Enhance(store.New[S], middlewares...)(reducer, initial, opts...)
}

func build[S any](
	create CreateFunc[S],
	reducer store.Reducer[S],
	wrap ReducerWrapper[S],
	initial S,
	depth int,
	cfg storeConfig,
	middlewares []store.Middleware[S],
) *Store[S] {
	if reducer == nil {
		panic("speculate: nil reducer")
	}

	s := &Store[S]{
		create:  create,
		reducer: reducer,
		depth:   depth,
		cfg:     cfg,
	}

	top := replaceable(reducer)
	if wrap != nil {
		top = wrap(top)
	}

	chain := make([]store.Middleware[S], 0, len(middlewares)+1)
	chain = append(chain, s.intercept)
	for _, m := range middlewares {
		chain = append(chain, s.inject(m))
	}

	s.base = create(top, initial, store.ApplyMiddleware(chain...))
	return s
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	return s.base.GetState()
}

// Dispatch sends msg through the chain. Speculative actions return *Handle;
// plain actions return whatever the rest of the chain returns.
func (s *Store[S]) Dispatch(msg store.Message) any {
	return s.base.Dispatch(msg)
}

// Subscribe registers a listener on the underlying store.
func (s *Store[S]) Subscribe(fn store.Listener) (unsubscribe func()) {
	return s.base.Subscribe(fn)
}

// Depth is 0 for a store built by a Factory and parent depth + 1 for a branch.
func (s *Store[S]) Depth() int {
	return s.depth
}

// Base exposes the underlying store.
func (s *Store[S]) Base() *store.Store[S] {
	return s.base
}

// Branch returns an independent store seeded with the current state.
//
// The branch uses the application reducer, wrapped by wrap when it is non-nil,
// and carries the speculative interceptor so nested speculative actions work
// inside it. It does not carry the parent's middleware, and dispatching to it
// never affects the parent. Only the initial state value is shared; states are
// immutable by convention, so nothing mutable is shared.
func (s *Store[S]) Branch(wrap ReducerWrapper[S]) *Store[S] {
	return build(s.create, s.reducer, wrap, s.GetState(), s.depth+1, s.cfg, nil)
}

// ReplaceState sets the state to state, bypassing the application reducer
// and middleware. Listeners are notified once.
func (s *Store[S]) ReplaceState(state S) {
	s.base.Apply(store.Action{Type: replaceType, Payload: replacement[S]{state: state}})
}

// replaceType labels replacement actions for anyone inspecting reducer input.
// Recognition is by payload type, not by this string.
const replaceType = "@@speculate/REPLACE"

// replacement is unexported, so no application action can carry one.
type replacement[S any] struct {
	state S
}

// replaceable wraps reducer so replacement payloads win unconditionally.
func replaceable[S any](reducer store.Reducer[S]) store.Reducer[S] {
	return func(state S, action store.Action) S {
		if r, ok := action.Payload.(replacement[S]); ok {
			return r.state
		}
		return reducer(state, action)
	}
}

func (s *Store[S]) committed(strategy Strategy) {
	s.observer().Committed(Commit{Strategy: strategy, Depth: s.depth})
	s.logger().Debug("speculative commit", "strategy", strategy, "depth", s.depth)
}

func (s *Store[S]) observer() Observer {
	return s.cfg.observer
}

func (s *Store[S]) logger() *slog.Logger {
	if s.cfg.logger == nil {
		return slog.Default()
	}
	return s.cfg.logger
}
