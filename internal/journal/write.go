package journal

import (
	"context"
	"fmt"
)

// BeginSession registers a session with an optional label. Registering the
// same id twice keeps the first label.
func (j *Journal) BeginSession(ctx context.Context, id, label string) error {
	if id == "" {
		return fmt.Errorf("begin session: empty id")
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label, ord)
		VALUES (?, ?, (SELECT COALESCE(MAX(ord), 0) + 1 FROM sessions))
		ON CONFLICT(id) DO NOTHING
	`, id, label)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// Record inserts e. A second entry with the same (session, seq) is ignored.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	canExecute := 0
	if e.CanExecute {
		canExecute = 1
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries
		(session, seq, kind, action_type, strategy, can_execute, depth, state_digest, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session, seq) DO NOTHING
	`,
		e.Session,
		e.Seq,
		string(e.Kind),
		e.ActionType,
		e.Strategy,
		canExecute,
		e.Depth,
		e.StateDigest,
		e.Detail,
	)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}
