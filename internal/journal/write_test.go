package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/engine"
)

func entry(seq int64, flow, action string, prev, state app.State, effects ...string) Entry {
	if effects == nil {
		effects = []string{}
	}
	return Entry{Seq: seq, Flow: flow, Action: action, Effects: effects, Prev: prev, State: state}
}

func TestAppend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	want := entry(1, "flow-1", "counter.save_to_storage",
		app.State{Counter: 3}, app.State{Counter: 3}, "counter.save:3")
	require.NoError(t, j.Append(ctx, want))

	got, err := j.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestAppend_DuplicateSeqKeepsFirst(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	first := entry(1, "flow-1", "counter.increase", app.State{}, app.State{Counter: 1})
	second := entry(1, "flow-2", "counter.update:9", app.State{}, app.State{Counter: 9})
	require.NoError(t, j.Append(ctx, first))
	require.NoError(t, j.Append(ctx, second))

	got, err := j.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first, got[0])
}

func TestAppend_StoresCanonicalJSON(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	require.NoError(t, j.Append(ctx, entry(1, "f", "loader.toggle:true",
		app.State{}, app.State{IsLoading: true})))

	var effects, state string
	err := j.db.QueryRow("SELECT effects, state FROM transitions WHERE seq = 1").Scan(&effects, &state)
	require.NoError(t, err)
	assert.Equal(t, "[]", effects)
	assert.Equal(t, `{"counter":0,"is_dark_theme":false,"is_loading":true}`, state)
}

func TestFromTransition(t *testing.T) {
	e, err := FromTransition(engine.Transition{
		Seq:    4,
		Flow:   "flow-1",
		Action: "counter.increase",
		Prev:   app.State{Counter: 1},
		State:  app.State{Counter: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, entry(4, "flow-1", "counter.increase", app.State{Counter: 1}, app.State{Counter: 2}), e)

	_, err = FromTransition(engine.Transition{Seq: 5, Prev: 1, State: app.State{}})
	assert.ErrorContains(t, err, "prev is int")

	_, err = FromTransition(engine.Transition{Seq: 6, Prev: app.State{}, State: "x"})
	assert.ErrorContains(t, err, "state is string")
}

func TestRecorder_KeepsFirstError(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	record := j.Recorder(ctx)

	record(engine.Transition{Seq: 1, Action: "counter.increase", Prev: app.State{}, State: app.State{Counter: 1}})
	assert.NoError(t, j.Err())

	record(engine.Transition{Seq: 2, Action: "bad", Prev: "nope", State: app.State{}})
	record(engine.Transition{Seq: 3, Action: "bad", Prev: app.State{}, State: 7})
	require.Error(t, j.Err())
	assert.Contains(t, j.Err().Error(), "transition 2")

	n, err := j.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
