package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	called := false
	err := f.Emit(map[string]int{"counter": 3}, func(io.Writer) { called = true })
	require.NoError(t, err)
	assert.False(t, called)

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data["counter"])
}

func TestOutputFormatter_TextEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := f.Emit("ignored", func(w io.Writer) { fmt.Fprint(w, "rendered") })
	require.NoError(t, err)
	assert.Equal(t, "rendered", buf.String())
}

func TestOutputFormatter_JSONFail(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Fail("E001", "scenario failed", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "scenario failed", resp.Error.Message)
}

func TestOutputFormatter_TextFail(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Fail("E001", "scenario failed", nil))
	assert.Equal(t, "Error [E001]: scenario failed\n", buf.String())
}

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open storage", base)

	assert.Equal(t, "failed to open storage: disk full", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", err)))

	assert.Equal(t, "no scenarios", NewExitError(ExitFailure, "no scenarios").Error())
	assert.Equal(t, ExitFailure, GetExitCode(base))
}
