package engine

import "sync/atomic"

// Clock is the monotonic logical clock that stamps committed transitions.
//
// Sequence numbers order the trace; wall-clock time is never used for
// ordering. The clock is safe for concurrent use, although in practice only
// the owner goroutine advances it.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number. The first call returns 1.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
