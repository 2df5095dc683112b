package journal

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/canon"
)

// Divergence describes a recorded transition that replay could not
// reproduce.
type Divergence struct {
	Seq      int64  `json:"seq"`
	Action   string `json:"action"`
	Field    string `json:"field"` // "action", "effects" or "state"
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

func (d Divergence) String() string {
	return fmt.Sprintf("[%d] %s: %s recorded %s, replayed %s", d.Seq, d.Action, d.Field, d.Recorded, d.Replayed)
}

// Report summarizes a replay.
type Report struct {
	Transitions int          `json:"transitions"`
	Sessions    int          `json:"sessions"`
	Final       app.State    `json:"final_state"`
	Divergences []Divergence `json:"divergences"`
}

// OK reports whether every transition replayed identically.
func (r Report) OK() bool {
	return len(r.Divergences) == 0
}

// Replay verifies every journaled transition.
func (j *Journal) Replay(ctx context.Context) (Report, error) {
	entries, err := j.ReadAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("replay: %w", err)
	}
	return Verify(entries), nil
}

// ReplayFlow verifies the transitions of a single flow.
func (j *Journal) ReplayFlow(ctx context.Context, flow string) (Report, error) {
	entries, err := j.ReadFlow(ctx, flow)
	if err != nil {
		return Report{}, fmt.Errorf("replay flow: %w", err)
	}
	return Verify(entries), nil
}

// Verify re-reduces each entry's action from its recorded predecessor
// state and compares the effects and resulting state with what was
// recorded. A new session starts wherever an entry's predecessor differs
// from the state recorded just before it, which happens when a later run
// appended to the same journal with a different initial state. Entries
// must be ordered by seq. For a single flow, transitions of interleaved
// flows show up as session breaks too.
func Verify(entries []Entry) Report {
	report := Report{
		Transitions: len(entries),
		Divergences: []Divergence{},
	}
	var reducer app.Reducer

	for i, e := range entries {
		if i == 0 || e.Prev != entries[i-1].State {
			report.Sessions++
		}
		report.Final = e.State

		action, err := app.ParseAction(e.Action)
		if err != nil {
			report.Divergences = append(report.Divergences, Divergence{
				Seq:      e.Seq,
				Action:   e.Action,
				Field:    "action",
				Recorded: e.Action,
				Replayed: err.Error(),
			})
			continue
		}

		next, effects := reducer.Reduce(e.Prev, action)

		names := make([]string, len(effects))
		for k, eff := range effects {
			names[k] = eff.String()
		}
		if !slices.Equal(names, e.Effects) {
			report.Divergences = append(report.Divergences, Divergence{
				Seq:      e.Seq,
				Action:   e.Action,
				Field:    "effects",
				Recorded: "[" + strings.Join(e.Effects, ", ") + "]",
				Replayed: "[" + strings.Join(names, ", ") + "]",
			})
		}
		if next != e.State {
			report.Divergences = append(report.Divergences, Divergence{
				Seq:      e.Seq,
				Action:   e.Action,
				Field:    "state",
				Recorded: canonical(e.State),
				Replayed: canonical(next),
			})
		}
	}
	return report
}

func canonical(s app.State) string {
	data, err := canon.Marshal(s)
	if err != nil {
		return s.String()
	}
	return string(data)
}
