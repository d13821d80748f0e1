package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// Session is a registered session.
type Session struct {
	ID      string `json:"id"`
	Label   string `json:"label,omitempty"`
	Entries int    `json:"entries"`
}

// ReadSession returns every entry of session ordered by seq. It returns an
// empty slice, not nil, for an unknown session.
func (j *Journal) ReadSession(ctx context.Context, session string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session, seq, kind, action_type, strategy, can_execute, depth, state_digest, detail
		FROM entries
		WHERE session = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Sessions lists registered sessions in registration order with entry counts.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.label, COUNT(e.seq)
		FROM sessions s
		LEFT JOIN entries e ON e.session = s.id
		GROUP BY s.id, s.label, s.ord
		ORDER BY s.ord ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Label, &s.Entries); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// CountByKind returns the number of entries of each kind in session.
func (j *Journal) CountByKind(ctx context.Context, session string) (map[Kind]int, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM entries
		WHERE session = ?
		GROUP BY kind
		ORDER BY kind ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var kind string
	var canExecute int
	if err := rows.Scan(
		&e.Session,
		&e.Seq,
		&kind,
		&e.ActionType,
		&e.Strategy,
		&canExecute,
		&e.Depth,
		&e.StateDigest,
		&e.Detail,
	); err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	e.Kind = Kind(kind)
	e.CanExecute = canExecute != 0
	return e, nil
}
