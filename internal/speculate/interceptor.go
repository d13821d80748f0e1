package speculate

import "github.com/roach88/specstore/internal/store"

// intercept is the first middleware of every enhanced store. Speculative
// actions typed for this store are evaluated here and never reach later
// middleware; everything else passes through untouched.
func (s *Store[S]) intercept(api store.MiddlewareAPI[S]) func(next store.DispatchFunc) store.DispatchFunc {
	return func(next store.DispatchFunc) store.DispatchFunc {
		return func(msg store.Message) any {
			switch m := msg.(type) {
			case *Action[S]:
				return m.evaluate(s)
			default:
				return next(msg)
			}
		}
	}
}

// API is the middleware API of an enhanced store. Middleware installed by
// Enhance receives a value implementing it and may type-assert to reach
// Branch and ReplaceState.
type API[S any] interface {
	store.MiddlewareAPI[S]
	Branch(wrap ReducerWrapper[S]) *Store[S]
	ReplaceState(state S)
}

var _ API[int] = (*Store[int])(nil)

// inject hands m the enhanced store instead of the base store's API.
func (s *Store[S]) inject(m store.Middleware[S]) store.Middleware[S] {
	return func(store.MiddlewareAPI[S]) func(next store.DispatchFunc) store.DispatchFunc {
		return m(s)
	}
}
