package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/engine"
	"github.com/roach88/uniflow/internal/testutil"
)

// record runs actions through a store that journals into j.
func record(t *testing.T, j *Journal, initial app.State, clock *engine.Clock, actions ...string) app.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	services := app.Services{
		Storage: testutil.NewFakeStorage(42, true),
		Network: testutil.NewFakeNetwork(17),
	}
	st := app.NewStore(initial, services,
		engine.WithRecorder(j.Recorder(ctx)),
		engine.WithFlowGenerator(testutil.NewSequenceFlowGenerator("flow")),
		engine.WithClock(clock),
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = st.Run(ctx)
	}()
	defer func() {
		st.Close()
		cancel()
		<-done
	}()

	for _, s := range actions {
		a, err := app.ParseAction(s)
		require.NoError(t, err)
		require.True(t, st.Send(a))
		require.NoError(t, st.WaitIdle(ctx))
	}
	require.NoError(t, j.Err())
	return st.State()
}

func TestReplay_RecordedSession(t *testing.T) {
	j := openTestJournal(t)
	final := record(t, j, app.State{}, engine.NewClock(),
		"counter.fetch_from_storage", "counter.increase", "theme.initialize")

	entries, err := j.ReadAll(context.Background())
	require.NoError(t, err)
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	assert.Equal(t, []string{
		"counter.fetch_from_storage",
		"loader.toggle:true",
		"counter.update:42",
		"loader.toggle:false",
		"counter.increase",
		"theme.initialize",
		"theme.set_black",
	}, actions)

	report, err := j.Replay(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK(), "divergences: %v", report.Divergences)
	assert.Equal(t, 7, report.Transitions)
	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, final, report.Final)
	assert.Equal(t, app.State{Counter: 43, IsDarkTheme: true}, report.Final)
}

func TestReplay_ResumedSessionKeepsNumbering(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	record(t, j, app.State{}, engine.NewClock(), "counter.increase")

	last, err := j.LastSeq(ctx)
	require.NoError(t, err)
	record(t, j, app.State{Counter: 10}, engine.NewClockAt(last), "counter.increase", "counter.increase")

	entries, err := j.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, seqs(entries))

	report, err := j.Replay(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Sessions)
	assert.Equal(t, 12, report.Final.Counter)
}

func TestReplay_DetectsTamperedState(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	record(t, j, app.State{}, engine.NewClock(), "counter.increase", "counter.increase")

	_, err := j.db.Exec(`UPDATE transitions SET state = '{"counter":7,"is_dark_theme":false,"is_loading":false}' WHERE seq = 2`)
	require.NoError(t, err)

	report, err := j.Replay(ctx)
	require.NoError(t, err)
	require.Len(t, report.Divergences, 1)
	d := report.Divergences[0]
	assert.Equal(t, int64(2), d.Seq)
	assert.Equal(t, "state", d.Field)
	assert.Equal(t, `{"counter":7,"is_dark_theme":false,"is_loading":false}`, d.Recorded)
	assert.Equal(t, `{"counter":2,"is_dark_theme":false,"is_loading":false}`, d.Replayed)
	assert.Contains(t, d.String(), "[2] counter.increase: state recorded")
}

func TestReplayFlow(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	record(t, j, app.State{}, engine.NewClock(), "counter.increase", "counter.save_to_storage")

	report, err := j.ReplayFlow(ctx, "flow-0002")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Transitions)
	assert.Equal(t, 1, report.Final.Counter)

	empty, err := j.ReplayFlow(ctx, "absent")
	require.NoError(t, err)
	assert.Zero(t, empty.Transitions)
	assert.Zero(t, empty.Sessions)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		entries  []Entry
		sessions int
		fields   []string
	}{
		{
			name:     "empty",
			entries:  nil,
			sessions: 0,
		},
		{
			name: "chained",
			entries: []Entry{
				entry(1, "f", "counter.update:5", app.State{}, app.State{Counter: 5}),
				entry(2, "f", "counter.save_to_storage", app.State{Counter: 5}, app.State{Counter: 5}, "counter.save:5"),
			},
			sessions: 1,
		},
		{
			name: "unknown action",
			entries: []Entry{
				entry(1, "f", "counter.explode", app.State{}, app.State{}),
			},
			sessions: 1,
			fields:   []string{"action"},
		},
		{
			name: "missing effect",
			entries: []Entry{
				entry(1, "f", "theme.initialize", app.State{}, app.State{}),
			},
			sessions: 1,
			fields:   []string{"effects"},
		},
		{
			name: "broken chain",
			entries: []Entry{
				entry(1, "f", "counter.increase", app.State{}, app.State{Counter: 1}),
				entry(2, "g", "counter.increase", app.State{Counter: 8}, app.State{Counter: 9}),
			},
			sessions: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Verify(tt.entries)
			assert.Equal(t, len(tt.entries), report.Transitions)
			assert.Equal(t, tt.sessions, report.Sessions)

			var fields []string
			for _, d := range report.Divergences {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Equal(t, len(tt.fields) == 0, report.OK())
		})
	}
}
