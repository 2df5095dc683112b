package harness

import (
	"sync"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/canon"
	"github.com/roach88/uniflow/internal/engine"
)

// TraceEvent is one committed transition.
type TraceEvent struct {
	Seq     int64     `json:"seq"`
	Flow    string    `json:"flow"`
	Action  string    `json:"action"`
	Effects []string  `json:"effects"`
	State   app.State `json:"state"`
}

// Canonical implements canon.Marshaler.
func (e TraceEvent) Canonical() any {
	effects := e.Effects
	if effects == nil {
		effects = []string{}
	}
	return canon.Object{
		"seq":     e.Seq,
		"flow":    e.Flow,
		"action":  e.Action,
		"effects": effects,
		"state":   e.State,
	}
}

// Stored is what the scenario left in storage.
type Stored struct {
	Counter     int  `json:"counter"`
	IsDarkTheme bool `json:"is_dark_theme"`
}

// Canonical implements canon.Marshaler.
func (s Stored) Canonical() any {
	return canon.Object{"counter": s.Counter, "is_dark_theme": s.IsDarkTheme}
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	State  app.State `json:"state"`
	Stored Stored    `json:"stored"`

	mu sync.Mutex
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// record is installed as the store's transition recorder.
func (r *Result) record(t engine.Transition) {
	state, _ := t.State.(app.State)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     t.Seq,
		Flow:    t.Flow,
		Action:  t.Action,
		Effects: t.Effects,
		State:   state,
	})
}

// snapshot returns a copy of the trace so far.
func (r *Result) snapshot() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TraceEvent(nil), r.Trace...)
}
