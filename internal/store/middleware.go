package store

// MiddlewareAPI is the view of the store handed to middleware.
//
// Dispatch re-enters the full chain, so a middleware dispatching through the
// API sees its own message again.
type MiddlewareAPI[S any] interface {
	GetState() S
	Dispatch(msg Message) any
}

// Middleware wraps the next link of the dispatch chain.
type Middleware[S any] func(api MiddlewareAPI[S]) func(next DispatchFunc) DispatchFunc

// ApplyMiddleware returns an Enhancer installing middlewares around the
// store's current dispatch. The first middleware is outermost: it sees every
// message first and decides whether later ones see it at all.
func ApplyMiddleware[S any](middlewares ...Middleware[S]) Enhancer[S] {
	return func(s *Store[S]) {
		if len(middlewares) == 0 {
			return
		}

		links := make([]func(DispatchFunc) DispatchFunc, len(middlewares))
		for i, m := range middlewares {
			links[i] = m(s)
		}
		s.dispatch = Compose(links...)(s.dispatch)
	}
}

// Compose chains dispatch wrappers right to left: Compose(f, g)(d) == f(g(d)).
func Compose(links ...func(DispatchFunc) DispatchFunc) func(DispatchFunc) DispatchFunc {
	return func(next DispatchFunc) DispatchFunc {
		for i := len(links) - 1; i >= 0; i-- {
			next = links[i](next)
		}
		return next
	}
}
