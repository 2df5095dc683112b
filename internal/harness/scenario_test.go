package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uniflow/internal/app"
)

const minimalScenario = `
name: minimal
description: "one step"
flow:
  - dispatch: counter.increase
assertions:
  - type: final_state
    expect: { counter: 1 }
`

func TestParseScenario_Minimal(t *testing.T) {
	sc, err := ParseScenario("minimal.yaml", []byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", sc.Name)
	require.Len(t, sc.Flow, 1)
	assert.Equal(t, "counter.increase", sc.Flow[0].Dispatch)
	require.Len(t, sc.Assertions, 1)
	require.NotNil(t, sc.Assertions[0].Expect)
	assert.Equal(t, 1, *sc.Assertions[0].Expect.Counter)
	assert.Nil(t, sc.Assertions[0].Expect.IsLoading)
}

func TestParseScenario_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing name",
			yaml: "description: x\nflow: [{dispatch: counter.increase}]\nassertions: [{type: effects, effects: []}]\n",
		},
		{
			name: "empty flow",
			yaml: "name: a\ndescription: x\nflow: []\nassertions: [{type: effects, effects: []}]\n",
		},
		{
			name: "unknown field",
			yaml: "name: a\ndescription: x\nflw: []\nflow: [{dispatch: counter.increase}]\nassertions: [{type: effects, effects: []}]\n",
		},
		{
			name: "unknown assertion type",
			yaml: "name: a\ndescription: x\nflow: [{dispatch: counter.increase}]\nassertions: [{type: nope}]\n",
		},
		{
			name: "negative count",
			yaml: "name: a\ndescription: x\nflow: [{dispatch: counter.increase}]\nassertions: [{type: trace_count, action: counter.increase, count: -1}]\n",
		},
		{
			name: "counter is not an int",
			yaml: "name: a\ndescription: x\ninitial: {counter: lots}\nflow: [{dispatch: counter.increase}]\nassertions: [{type: effects, effects: []}]\n",
		},
		{
			name: "loading cannot be stored",
			yaml: "name: a\ndescription: x\nstorage: {is_loading: true}\nflow: [{dispatch: counter.increase}]\nassertions: [{type: effects, effects: []}]\n",
		},
		{
			name: "bad name",
			yaml: "name: Not Snake\ndescription: x\nflow: [{dispatch: counter.increase}]\nassertions: [{type: effects, effects: []}]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario("bad.yaml", []byte(tt.yaml))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "expected SchemaError, got %v", err)
			assert.Equal(t, "bad.yaml", schemaErr.Source)
			assert.NotEmpty(t, schemaErr.Detail)
		})
	}
}

func TestParseScenario_UnknownAction(t *testing.T) {
	data := "name: a\ndescription: x\nflow: [{dispatch: counter.increse}]\nassertions: [{type: effects, effects: []}]\n"

	_, err := ParseScenario("typo.yaml", []byte(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrUnknownAction)
	assert.Contains(t, err.Error(), "flow[0]")
	assert.Contains(t, err.Error(), `did you mean "counter.increase"`)
}

func TestParseScenario_MalformedYAML(t *testing.T) {
	_, err := ParseScenario("broken.yaml", []byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenarios_Testdata(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.Name
	}
	assert.Equal(t, []string{"fetch_counter", "save_and_pull", "theme_toggle"}, names)
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(minimalScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("name: b\n"), 0o644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.yaml")
}

func TestStateSpec(t *testing.T) {
	counter := 7
	dark := true
	spec := StateSpec{Counter: &counter, IsDarkTheme: &dark}

	assert.Equal(t, app.State{Counter: 7, IsDarkTheme: true}, spec.State())
	assert.Empty(t, spec.Mismatches(app.State{Counter: 7, IsDarkTheme: true, IsLoading: true}))
	assert.Equal(t, []string{
		"counter: expected 7, got 1",
		"is_dark_theme: expected true, got false",
	}, spec.Mismatches(app.State{Counter: 1}))
}
