// Package router keeps a declarative navigation stack of destinations.
//
// The stack is a plain value: every operation replaces it atomically and
// publishes the new stack to subscribers. Operations clamp instead of
// failing; an out-of-range request leaves a debug record and the nearest
// valid stack.
//
// A Router has a single owner. Mutating it from two goroutines at once is a
// programmer error and panics.
package router

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/roach88/uniflow/internal/observe"
)

// ErrConcurrentMutation is the panic value for overlapping mutations.
var ErrConcurrentMutation = errors.New("router: concurrent mutation")

// Destination is a value that can sit on the stack.
type Destination interface {
	comparable
	fmt.Stringer
}

// Router owns a stack of destinations. The zero value is not usable; call
// New.
type Router[D Destination] struct {
	mu       sync.RWMutex
	stack    []D
	mutating atomic.Bool
	subs     *observe.Broadcaster[[]D]
}

// New creates a router holding initial (which may be empty).
func New[D Destination](initial ...D) *Router[D] {
	r := &Router[D]{
		stack: slices.Clone(initial),
		subs:  observe.NewBroadcaster[[]D](),
	}
	r.subs.Publish(slices.Clone(r.stack))
	return r
}

// Stack returns a copy of the current stack, root first.
func (r *Router[D]) Stack() []D {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.stack)
}

// Len returns the stack depth.
func (r *Router[D]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stack)
}

// Top returns the last destination, if any.
func (r *Router[D]) Top() (D, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.stack) == 0 {
		var zero D
		return zero, false
	}
	return r.stack[len(r.stack)-1], true
}

// Subscribe returns a last-value-wins subscription to stack changes. The
// current stack is delivered immediately.
func (r *Router[D]) Subscribe() *observe.Subscription[[]D] {
	return r.subs.Subscribe()
}

// Navigate pushes d.
func (r *Router[D]) Navigate(d D) {
	r.mutate("navigate", func(s []D) []D { return append(s, d) })
}

// NavigateAll pushes ds in order.
func (r *Router[D]) NavigateAll(ds ...D) {
	r.mutate("navigate_all", func(s []D) []D { return append(s, ds...) })
}

// Replace swaps the whole stack for ds.
func (r *Router[D]) Replace(ds ...D) {
	r.mutate("replace", func([]D) []D { return slices.Clone(ds) })
}

// Back pops n destinations. n <= 0 does nothing; n >= depth empties the
// stack.
func (r *Router[D]) Back(n int) {
	r.mutate("back", func(s []D) []D {
		switch {
		case n <= 0:
			return s
		case n >= len(s):
			if n > len(s) {
				slog.Debug("router back clamped", "steps", n, "depth", len(s))
			}
			return s[:0]
		default:
			return s[:len(s)-n]
		}
	})
}

// BackTo truncates the stack just after the last occurrence of d. When d
// is not on the stack nothing changes.
func (r *Router[D]) BackTo(d D) {
	r.mutate("back_to", func(s []D) []D {
		i := lastIndex(s, d)
		if i < 0 {
			slog.Debug("router back_to target not on stack", "destination", d.String(), "depth", len(s))
			return s
		}
		return s[:i+1]
	})
}

// ToRoot empties the stack.
func (r *Router[D]) ToRoot() {
	r.mutate("to_root", func(s []D) []D { return s[:0] })
}

// Close ends every subscription.
func (r *Router[D]) Close() {
	r.subs.Close()
}

func (r *Router[D]) mutate(op string, fn func([]D) []D) {
	if !r.mutating.CompareAndSwap(false, true) {
		panic(ErrConcurrentMutation)
	}
	defer r.mutating.Store(false)

	r.mu.Lock()
	// fn works on a private copy so readers never observe a half-built stack.
	next := fn(slices.Clone(r.stack))
	r.stack = next
	snapshot := slices.Clone(next)
	r.mu.Unlock()

	slog.Debug("router", "op", op, "depth", len(snapshot))
	r.subs.Publish(snapshot)
}

func lastIndex[D comparable](s []D, d D) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == d {
			return i
		}
	}
	return -1
}
