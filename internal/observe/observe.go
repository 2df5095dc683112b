// Package observe publishes the latest value of a piece of owned state to
// any number of readers.
//
// Delivery is last-value-wins: every subscription buffers exactly one value
// and a slow reader only ever sees the most recent publication. Intermediate
// values it missed are gone.
package observe

import "sync"

// Broadcaster fans a value out to subscriptions.
//
// Publish is expected to be called from the single goroutine that owns the
// value; Subscribe and Close may be called from anywhere.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	last   T
	hasVal bool
	closed bool
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscription receives published values on C.
type Subscription[T any] struct {
	ch   chan T
	b    *Broadcaster[T]
	once sync.Once
}

// C returns the receive channel. It is closed when the subscription or the
// broadcaster is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if _, ok := s.b.subs[s]; ok {
		delete(s.b.subs, s)
		s.closeChan()
	}
}

func (s *Subscription[T]) closeChan() {
	s.once.Do(func() { close(s.ch) })
}

// offer replaces any undelivered value with v. Caller holds b.mu.
func (s *Subscription[T]) offer(v T) {
	select {
	case s.ch <- v:
		return
	default:
	}
	// Buffer full: drop the stale value and retry once. A concurrent reader
	// may have drained it already, in which case the send succeeds directly.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

// Subscribe registers a new subscription. If a value has already been
// published, it is delivered immediately.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscription[T]{ch: make(chan T, 1), b: b}
	if b.closed {
		s.closeChan()
		return s
	}
	b.subs[s] = struct{}{}
	if b.hasVal {
		s.offer(b.last)
	}
	return s
}

// Publish delivers v to every subscription.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.last = v
	b.hasVal = true
	for s := range b.subs {
		s.offer(v)
	}
}

// Len returns the number of active subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription. Later publications are ignored.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.closeChan()
		delete(b.subs, s)
	}
}
