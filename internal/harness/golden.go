package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/canon"
)

// TraceSnapshot is the golden-file form of a scenario run.
type TraceSnapshot struct {
	Scenario   string       `json:"scenario"`
	Trace      []TraceEvent `json:"trace"`
	FinalState app.State    `json:"final_state"`
	Stored     Stored       `json:"stored"`
}

// Canonical implements canon.Marshaler.
func (s TraceSnapshot) Canonical() any {
	trace := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		trace[i] = e
	}
	return canon.Object{
		"scenario":    s.Scenario,
		"trace":       trace,
		"final_state": s.FinalState,
		"stored":      s.Stored,
	}
}

// MarshalTrace renders the result of a scenario as canonical JSON.
func MarshalTrace(name string, result *Result) ([]byte, error) {
	return canon.Marshal(TraceSnapshot{
		Scenario:   name,
		Trace:      result.snapshot(),
		FinalState: result.State,
		Stored:     result.Stored,
	})
}

// RunWithGolden executes a scenario and compares its canonical trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalTrace(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
