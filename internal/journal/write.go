package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/uniflow/internal/engine"
)

// Append inserts e. Uses ON CONFLICT(seq) DO NOTHING, so writing the same
// seq twice keeps the first row.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	effects, err := marshalEffects(e.Effects)
	if err != nil {
		return fmt.Errorf("append %d: %w", e.Seq, err)
	}
	prev, err := marshalState(e.Prev)
	if err != nil {
		return fmt.Errorf("append %d: %w", e.Seq, err)
	}
	state, err := marshalState(e.State)
	if err != nil {
		return fmt.Errorf("append %d: %w", e.Seq, err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO transitions (seq, flow, action, effects, prev, state)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`, e.Seq, e.Flow, e.Action, effects, prev, state)
	if err != nil {
		return fmt.Errorf("append %d: %w", e.Seq, err)
	}
	return nil
}

// Recorder returns a hook for engine.WithRecorder that appends every
// committed transition. The hook runs on the store's owner goroutine and
// cannot fail the transition, so errors are logged and the first one is
// kept for Err.
func (j *Journal) Recorder(ctx context.Context) func(engine.Transition) {
	return func(t engine.Transition) {
		e, err := FromTransition(t)
		if err == nil {
			err = j.Append(ctx, e)
		}
		if err != nil {
			slog.Error("journal append failed", "seq", t.Seq, "action", t.Action, "error", err)
			j.mu.Lock()
			if j.lastErr == nil {
				j.lastErr = err
			}
			j.mu.Unlock()
		}
	}
}

// Err returns the first error a Recorder hook hit, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastErr
}
