// Package journal provides a SQLite-backed append-only log of committed
// store transitions.
//
// Every row records one reduction: the logical sequence number, the flow it
// belongs to, the textual action, the effects it produced and the state
// before and after. Rows are keyed by seq, so appending the same transition
// twice is a no-op.
//
// # Ordering
//
// All reads are ordered by seq, the store's logical clock, never by wall
// time. Reopening a journal and resuming the clock from LastSeq keeps the
// numbering gapless across sessions.
//
// # Replay
//
// Replay re-reduces every recorded action from its recorded predecessor
// state and reports each transition whose effects or resulting state
// differ. Because reducers are pure, a clean report means the journal is
// a faithful description of what the store did.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//
// States and effect lists are stored as canonical JSON (see internal/canon).
package journal
