// Package journal records what an enhanced store did into SQLite.
//
// A journal is an append-only log of entries grouped by session. Entries
// describe plain dispatches, speculative evaluations, commits and listener
// notifications, in logical-clock order. The journal is for inspection (the
// trace command and the scenario harness); it never feeds state back into a
// store.
//
// # Ordering
//
// Every entry carries a seq from a logical clock, unique within its session.
// All reads are ORDER BY seq ASC; wall-clock time is never recorded.
//
// # Idempotency
//
// (session, seq) is the primary key and writes use ON CONFLICT DO NOTHING,
// so re-recording an entry is a no-op.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//
// State digests are computed by ir.StateDigest.
package journal
