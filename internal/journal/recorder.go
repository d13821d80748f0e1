package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/speculate"
	"github.com/roach88/specstore/internal/store"
)

// Recorder writes the activity of one enhanced store into a journal session.
//
// Install Middleware when building the store and pass the recorder to
// speculate.WithObserver, then call Attach with the built store. Recording
// failures never interrupt the store; the first one is kept and returned by
// Err, later ones are logged.
type Recorder[S any] struct {
	ctx     context.Context
	journal *Journal
	session string
	clock   Sequencer
	logger  *slog.Logger

	getState func() S
	err      error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	clock  Sequencer
	logger *slog.Logger
}

// WithSequencer replaces the recorder's logical clock.
func WithSequencer(c Sequencer) RecorderOption {
	return func(cfg *recorderConfig) {
		cfg.clock = c
	}
}

// WithRecorderLogger sets the logger used for recording failures.
func WithRecorderLogger(l *slog.Logger) RecorderOption {
	return func(cfg *recorderConfig) {
		cfg.logger = l
	}
}

// NewRecorder creates a recorder for session. The session must already be
// registered with BeginSession if it should appear in Sessions.
func NewRecorder[S any](ctx context.Context, j *Journal, session string, opts ...RecorderOption) *Recorder[S] {
	cfg := recorderConfig{clock: NewClock(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Recorder[S]{
		ctx:     ctx,
		journal: j,
		session: session,
		clock:   cfg.clock,
		logger:  cfg.logger,
	}
}

// Session returns the session id entries are written under.
func (r *Recorder[S]) Session() string {
	return r.session
}

// Middleware records every plain action before it is reduced. Speculative
// actions are consumed by the interceptor and never reach it.
func (r *Recorder[S]) Middleware() store.Middleware[S] {
	return func(api store.MiddlewareAPI[S]) func(next store.DispatchFunc) store.DispatchFunc {
		return func(next store.DispatchFunc) store.DispatchFunc {
			return func(msg store.Message) any {
				if a, ok := msg.(store.Action); ok {
					r.record(Entry{Kind: KindDispatch, ActionType: a.Type})
				}
				return next(msg)
			}
		}
	}
}

// Attach subscribes to s so each notification is recorded with a digest of
// the state at that point. It returns the unsubscribe function.
func (r *Recorder[S]) Attach(s *speculate.Store[S]) (detach func()) {
	r.getState = s.GetState
	return s.Subscribe(func() {
		r.record(Entry{Kind: KindNotify, StateDigest: r.digest()})
	})
}

// Evaluated implements speculate.Observer.
func (r *Recorder[S]) Evaluated(e speculate.Evaluation) {
	entry := Entry{
		Kind:       KindEvaluate,
		Strategy:   e.Strategy.String(),
		CanExecute: e.CanExecute,
		Depth:      e.Depth,
	}
	if e.Err != nil {
		entry.Detail = e.Err.Error()
	}
	r.record(entry)
}

// Committed implements speculate.Observer.
func (r *Recorder[S]) Committed(c speculate.Commit) {
	entry := Entry{
		Kind:     KindCommit,
		Strategy: c.Strategy.String(),
		Depth:    c.Depth,
	}
	if c.Depth == 0 {
		entry.StateDigest = r.digest()
	}
	r.record(entry)
}

// Err returns the first recording failure.
func (r *Recorder[S]) Err() error {
	return r.err
}

func (r *Recorder[S]) record(e Entry) {
	e.Session = r.session
	e.Seq = r.clock.Next()

	if err := r.journal.Record(r.ctx, e); err != nil {
		if r.err == nil {
			r.err = err
		}
		r.logger.Error("journal record failed", "session", r.session, "seq", e.Seq, "kind", e.Kind, "error", err)
	}
}

// digest hashes the root state, or returns "" when no store is attached or
// the state is not an IR value.
func (r *Recorder[S]) digest() string {
	if r.getState == nil {
		return ""
	}
	d, err := ir.StateDigest(r.getState())
	if err != nil {
		r.logger.Debug("state not digestible", "session", r.session, "error", err)
		return ""
	}
	return d
}

var _ speculate.Observer = (*Recorder[int])(nil)
