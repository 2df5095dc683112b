package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadAll returns every entry ordered by seq.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) ReadAll(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, flow, action, effects, prev, state
		FROM transitions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	return scanEntries(rows)
}

// ReadFlow returns the entries of one flow ordered by seq.
func (j *Journal) ReadFlow(ctx context.Context, flow string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, flow, action, effects, prev, state
		FROM transitions
		WHERE flow = ?
		ORDER BY seq ASC
	`, flow)
	if err != nil {
		return nil, fmt.Errorf("query flow %q: %w", flow, err)
	}
	return scanEntries(rows)
}

// ListFlows returns every flow token in order of its first transition.
func (j *Journal) ListFlows(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT flow FROM transitions
		GROUP BY flow
		ORDER BY MIN(seq) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	flows := []string{}
	for rows.Next() {
		var flow string
		if err := rows.Scan(&flow); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		flows = append(flows, flow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flows: %w", err)
	}
	return flows, nil
}

// LastSeq returns the highest recorded seq, or 0 for an empty journal.
// Pass it to engine.NewClockAt to continue numbering.
func (j *Journal) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := j.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM transitions").Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
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
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                    Entry
		effects, prev, state string
	)
	if err := rows.Scan(&e.Seq, &e.Flow, &e.Action, &effects, &prev, &state); err != nil {
		return Entry{}, fmt.Errorf("scan transition: %w", err)
	}

	var err error
	if e.Effects, err = unmarshalEffects(effects); err != nil {
		return Entry{}, fmt.Errorf("transition %d: %w", e.Seq, err)
	}
	if e.Prev, err = unmarshalState(prev); err != nil {
		return Entry{}, fmt.Errorf("transition %d: prev: %w", e.Seq, err)
	}
	if e.State, err = unmarshalState(state); err != nil {
		return Entry{}, fmt.Errorf("transition %d: state: %w", e.Seq, err)
	}
	return e, nil
}
