package cliout_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/internal/cliout"
	"github.com/vinpuli/archscribe/pkg/envelope"
)

func TestRender_JSONFormat_EncodesEnvelopeVerbatim(t *testing.T) {
	t.Parallel()

	env := envelope.Success(map[string]any{"language": "python"})

	var buf bytes.Buffer

	require.NoError(t, cliout.Render(&buf, env, cliout.Options{Format: cliout.FormatJSON}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, "python", decoded["language"])
}

func TestRender_TableFormat_SuccessPrintsOK(t *testing.T) {
	t.Parallel()

	env := envelope.Success(map[string]any{"language": "python"})

	var buf bytes.Buffer

	require.NoError(t, cliout.Render(&buf, env, cliout.Options{Format: cliout.FormatTable, NoColor: true}))
	assert.Contains(t, buf.String(), "OK")
	assert.Contains(t, buf.String(), "language: python")
}

func TestRender_TableFormat_ErrorPrintsMessageAndSkipsData(t *testing.T) {
	t.Parallel()

	env := envelope.Errorf("boom: %s", "disk full")

	var buf bytes.Buffer

	require.NoError(t, cliout.Render(&buf, env, cliout.Options{Format: cliout.FormatTable, NoColor: true}))
	assert.Contains(t, buf.String(), "ERROR: boom: disk full")
}

func TestRender_TableFormat_RendersWarnings(t *testing.T) {
	t.Parallel()

	env := envelope.Success(map[string]any{}).WithWarning("partial result")

	var buf bytes.Buffer

	require.NoError(t, cliout.Render(&buf, env, cliout.Options{Format: cliout.FormatTable, NoColor: true}))
	assert.Contains(t, buf.String(), "warning: partial result")
}

func TestRender_TableFormat_RendersCollectionAsTable(t *testing.T) {
	t.Parallel()

	env := envelope.Success(map[string]any{
		"functions": []any{
			map[string]any{"name": "main", "line": 1},
			map[string]any{"name": "helper", "line": 5},
		},
	})

	var buf bytes.Buffer

	require.NoError(t, cliout.Render(&buf, env, cliout.Options{Format: cliout.FormatTable, NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "functions:")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "helper")
	assert.Contains(t, out, "functions: 2 items")
}
