package speculate

import "log/slog"

// Evaluation describes one speculative evaluation.
type Evaluation struct {
	Strategy   Strategy
	Depth      int
	CanExecute bool
	Err        error
}

// Commit describes one successful Execute.
type Commit struct {
	Strategy Strategy
	Depth    int
}

// Observer receives evaluation and commit events from a store and all of its
// branches. Depth tells them apart. Observers are called synchronously and
// must not dispatch.
type Observer interface {
	Evaluated(Evaluation)
	Committed(Commit)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnEvaluated func(Evaluation)
	OnCommitted func(Commit)
}

func (o ObserverFuncs) Evaluated(e Evaluation) {
	if o.OnEvaluated != nil {
		o.OnEvaluated(e)
	}
}

func (o ObserverFuncs) Committed(c Commit) {
	if o.OnCommitted != nil {
		o.OnCommitted(c)
	}
}

type nopObserver struct{}

func (nopObserver) Evaluated(Evaluation) {}
func (nopObserver) Committed(Commit)     {}

// StoreOption configures an enhanced store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	observer Observer
	logger   *slog.Logger
}

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := storeConfig{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithObserver attaches an observer to the store and its branches.
func WithObserver(o Observer) StoreOption {
	return func(c *storeConfig) {
		if o == nil {
			o = nopObserver{}
		}
		c.observer = o
	}
}

// WithLogger sets the logger for debug events. Defaults to slog.Default().
func WithLogger(l *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = l
	}
}
