package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue[string]()

	for _, a := range []string{"A", "B", "C"} {
		require.True(t, q.Enqueue(Event[string]{Action: a, Flow: "f"}))
	}

	for _, want := range []string{"A", "B", "C"} {
		got, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, got.Action)
		assert.Equal(t, "f", got.Flow)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok, "queue should be empty")
}

func TestEventQueue_Len(t *testing.T) {
	q := newEventQueue[int]()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(Event[int]{Action: 1})
	q.Enqueue(Event[int]{Action: 2})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_SignalCoalesces(t *testing.T) {
	q := newEventQueue[int]()
	q.Enqueue(Event[int]{Action: 1})
	q.Enqueue(Event[int]{Action: 2})

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}

	select {
	case <-q.Wait():
		t.Fatal("signals should coalesce into one")
	default:
	}
}

func TestEventQueue_Close(t *testing.T) {
	q := newEventQueue[int]()
	q.Enqueue(Event[int]{Action: 1})
	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.False(t, q.Enqueue(Event[int]{Action: 2}), "enqueue after close should fail")

	// Already queued events survive the close.
	e, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, 1, e.Action)

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("closed queue should wake waiters")
	}
}

func TestEventQueue_Drain(t *testing.T) {
	q := newEventQueue[int]()
	for i := 0; i < 3; i++ {
		q.Enqueue(Event[int]{Action: i})
	}

	drained := q.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, 2, drained[2].Action)
	assert.Equal(t, 0, q.Len())
}

func TestEventQueue_ConcurrentProducers(t *testing.T) {
	q := newEventQueue[int]()
	const producers = 10
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(Event[int]{Action: p*perProducer + i})
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for {
		e, ok := q.TryDequeue()
		if !ok {
			break
		}
		seen[e.Action] = true
	}
	assert.Len(t, seen, producers*perProducer)
}
