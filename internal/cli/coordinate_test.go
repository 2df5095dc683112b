package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateCommand_Demo(t *testing.T) {
	out, err := execute(t, "--format", "json", "coordinate")
	require.NoError(t, err)

	var resp struct {
		Data CoordinateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Zero(t, resp.Data.Failed)

	want := []CoordinateStep{
		{Op: "start:splash", State: "flat_root", Window: "splash{Title:Splash}"},
		{Op: "navroot:marketing", State: "nav_root", Window: "nav[marketing]"},
		{Op: "push:onboarding", State: "nav_root", Window: "nav[marketing > onboarding]"},
		{Op: "back:1", State: "nav_root", Window: "nav[marketing]"},
		{Op: "root:splash", State: "flat_root", Window: "splash{Title:Splash}"},
	}
	assert.Equal(t, want, resp.Data.Steps)
}

func TestCoordinateCommand_StrictFailures(t *testing.T) {
	out, err := execute(t, "--format", "json", "coordinate",
		"root:splash", "start:splash", "push:onboarding", "navroot:marketing", "back:1", "push:nowhere")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "4 operation(s) failed")

	var resp struct {
		Data CoordinateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	steps := resp.Data.Steps
	require.Len(t, steps, 6)

	assert.Contains(t, steps[0].Error, "no window")
	assert.Empty(t, steps[1].Error)
	assert.Contains(t, steps[2].Error, "navigation")
	assert.Empty(t, steps[3].Error)
	assert.Contains(t, steps[4].Error, "pop")
	assert.Equal(t, "nav[marketing]", steps[4].Window)
	assert.Contains(t, steps[5].Error, "nowhere")
}

func TestCoordinateCommand_PushWithCut(t *testing.T) {
	out, err := execute(t, "--format", "json", "coordinate",
		"start:splash", "navroot:splash", "push:marketing", "push:onboarding:1")
	require.NoError(t, err)

	var resp struct {
		Data CoordinateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Steps, 4)
	assert.Equal(t, "nav[splash > onboarding]", resp.Data.Steps[3].Window)
}

func TestParseCoordinateOp_Errors(t *testing.T) {
	for _, op := range []string{"start", "push:", "push:onboarding:x", "back:x", "fly:splash"} {
		t.Run(op, func(t *testing.T) {
			_, err := parseCoordinateOp(op)
			assert.Error(t, err)
		})
	}
}
