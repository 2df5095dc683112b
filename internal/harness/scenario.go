package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/uniflow/internal/app"
)

// Scenario is a scripted run of the application store.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// FlowPrefix prefixes generated flow tokens. Defaults to "flow".
	FlowPrefix string `yaml:"flow_prefix,omitempty"`

	// Initial is the store's starting state; omitted fields are zero.
	Initial StateSpec `yaml:"initial,omitempty"`

	// Storage seeds the settings backend before the first action.
	Storage *StateSpec `yaml:"storage,omitempty"`

	// Network lists the values the network returns, in order. The last one
	// repeats.
	Network []int `yaml:"network,omitempty"`

	// Flow is dispatched step by step; the store is idle between steps.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final trace, state and storage.
	Assertions []Assertion `yaml:"assertions"`
}

// StateSpec is a partial application state. Nil fields are not checked (or
// left at their zero value when used as a seed).
type StateSpec struct {
	Counter     *int  `yaml:"counter,omitempty"`
	IsLoading   *bool `yaml:"is_loading,omitempty"`
	IsDarkTheme *bool `yaml:"is_dark_theme,omitempty"`
}

// State applies the set fields over the zero state.
func (s StateSpec) State() app.State {
	var st app.State
	if s.Counter != nil {
		st.Counter = *s.Counter
	}
	if s.IsLoading != nil {
		st.IsLoading = *s.IsLoading
	}
	if s.IsDarkTheme != nil {
		st.IsDarkTheme = *s.IsDarkTheme
	}
	return st
}

// Mismatches lists every set field that disagrees with st, sorted.
func (s StateSpec) Mismatches(st app.State) []string {
	var out []string
	if s.Counter != nil && *s.Counter != st.Counter {
		out = append(out, fmt.Sprintf("counter: expected %d, got %d", *s.Counter, st.Counter))
	}
	if s.IsDarkTheme != nil && *s.IsDarkTheme != st.IsDarkTheme {
		out = append(out, fmt.Sprintf("is_dark_theme: expected %t, got %t", *s.IsDarkTheme, st.IsDarkTheme))
	}
	if s.IsLoading != nil && *s.IsLoading != st.IsLoading {
		out = append(out, fmt.Sprintf("is_loading: expected %t, got %t", *s.IsLoading, st.IsLoading))
	}
	sort.Strings(out)
	return out
}

// Step dispatches one action.
type Step struct {
	// Dispatch is the textual action, e.g. "counter.update:5".
	Dispatch string `yaml:"dispatch"`

	// Expect is checked against the state once the store is idle.
	Expect *StateSpec `yaml:"expect,omitempty"`
}

// Assertion validates trace, state or storage.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is used by trace_contains and trace_count.
	Action string `yaml:"action,omitempty"`

	// Actions is used by trace_order.
	Actions []string `yaml:"actions,omitempty"`

	// Count is used by trace_count.
	Count int `yaml:"count,omitempty"`

	// Effects is used by effects.
	Effects []string `yaml:"effects,omitempty"`

	// Expect is used by final_state and stored.
	Expect *StateSpec `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertEffects       = "effects"
	AssertFinalState    = "final_state"
	AssertStored        = "stored"
)

// LoadScenario reads, schema-checks and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(filepath.Base(path), data)
}

// ParseScenario parses scenario YAML. source names the document in errors.
func ParseScenario(source string, data []byte) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateScenario(source, doc); err != nil {
		return nil, err
	}

	// Strict decoding still runs: the schema and the struct must agree.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	sort.Strings(paths)

	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

// validateScenario checks what the schema cannot: that every action in the
// flow parses.
func validateScenario(s *Scenario) error {
	for i, step := range s.Flow {
		if _, err := app.ParseAction(step.Dispatch); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains, AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertEffects:
	case AssertFinalState, AssertStored:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
