package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails. It carries the trace
// to make the failure easy to read.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s\n", event.Seq, event.Action, event.Flow)
		}
	}
	return buf.String()
}

// matchAction reports whether a recorded action satisfies want, which is
// either the full textual form or only the name.
func matchAction(recorded, want string) bool {
	if recorded == want {
		return true
	}
	name, _, _ := strings.Cut(recorded, ":")
	return name == want
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if matchAction(event.Action, a.Action) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("action %s", a.Action),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that actions appear in the given relative order.
// Other actions may appear in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	pos := 0
	for _, want := range a.Actions {
		found := false
		for pos < len(trace) {
			ok := matchAction(trace[pos].Action, want)
			pos++
			if ok {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", a.Actions),
				Actual:   fmt.Sprintf("%s not found after the previous match", want),
				Trace:    trace,
			}
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if matchAction(event.Action, a.Action) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s appears %d times", a.Action, a.Count),
			Actual:   fmt.Sprintf("appears %d times", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertEffects(trace []TraceEvent, a Assertion) error {
	var got []string
	for _, event := range trace {
		got = append(got, event.Effects...)
	}
	want := a.Effects
	if len(got) == 0 && len(want) == 0 {
		return nil
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertEffects,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertFinalState(r *Result, a Assertion) error {
	if m := a.Expect.Mismatches(r.State); len(m) > 0 {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: "state matches",
			Actual:   strings.Join(m, "; "),
		}
	}
	return nil
}

func assertStored(r *Result, a Assertion) error {
	var m []string
	if a.Expect.Counter != nil && *a.Expect.Counter != r.Stored.Counter {
		m = append(m, fmt.Sprintf("counter: expected %d, got %d", *a.Expect.Counter, r.Stored.Counter))
	}
	if a.Expect.IsDarkTheme != nil && *a.Expect.IsDarkTheme != r.Stored.IsDarkTheme {
		m = append(m, fmt.Sprintf("is_dark_theme: expected %t, got %t", *a.Expect.IsDarkTheme, r.Stored.IsDarkTheme))
	}
	if len(m) > 0 {
		return &AssertionError{
			Type:     AssertStored,
			Expected: "storage matches",
			Actual:   strings.Join(m, "; "),
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	trace := r.snapshot()
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		case AssertEffects:
			err = assertEffects(trace, a)
		case AssertFinalState:
			err = assertFinalState(r, a)
		case AssertStored:
			err = assertStored(r, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %s", i, err))
		}
	}
	return errs
}
