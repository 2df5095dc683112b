package engine

import "sync"

// Event is one queued action together with the flow it belongs to.
type Event[A any] struct {
	Action A
	Flow   string
}

// eventQueue is a thread-safe, unbounded FIFO of events.
//
// Unbounded so that an effect handler re-entering the store never blocks on
// the owner loop. A buffered signal channel of size 1 lets Run wait with
// select alongside context cancellation.
type eventQueue[A any] struct {
	mu     sync.Mutex
	events []Event[A]
	closed bool
	signal chan struct{}
}

func newEventQueue[A any]() *eventQueue[A] {
	return &eventQueue[A]{
		events: make([]Event[A], 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. Returns false if the queue is closed.
func (q *eventQueue[A]) Enqueue(e Event[A]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)

	// Coalesce: one pending signal is enough to wake the loop.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front event without blocking.
func (q *eventQueue[A]) TryDequeue() (Event[A], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event[A]{}, false
	}
	e := q.events[0]
	// Zero the slot so the backing array does not pin the action.
	q.events[0] = Event[A]{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Drain removes and returns every queued event.
func (q *eventQueue[A]) Drain() []Event[A] {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Event[A], len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}

// Wait returns a channel that fires when events may be available. It is
// closed once the queue is closed.
func (q *eventQueue[A]) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue[A]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Closed reports whether Close has been called.
func (q *eventQueue[A]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close rejects further events and wakes the waiting loop.
func (q *eventQueue[A]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
