package toolschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/toolschema"
)

func TestValidate_MissingRequiredFieldFails(t *testing.T) {
	err := toolschema.Validate(toolschema.NameDetectLanguage, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect_language")
}

func TestValidate_WellFormedArgsPass(t *testing.T) {
	err := toolschema.Validate(toolschema.NameDetectLanguage, map[string]any{"path": "a/m.py"})
	assert.NoError(t, err)
}

func TestValidate_WrongTypeFails(t *testing.T) {
	err := toolschema.Validate(toolschema.NameBuildDependencyGraph, map[string]any{
		"directory_path": ".",
		"recursive":      "yes",
	})
	require.Error(t, err)
}

func TestValidate_UnknownToolFails(t *testing.T) {
	err := toolschema.Validate(toolschema.Name("not_a_real_tool"), map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, toolschema.ErrUnknownTool)
}

func TestValidate_EnumRejectsUnknownDirection(t *testing.T) {
	err := toolschema.Validate(toolschema.NameRenderMermaid, map[string]any{
		"directory_path": ".",
		"direction":      "UP",
	})
	require.Error(t, err)
}

func TestNames_ReturnsEveryRegisteredTool(t *testing.T) {
	names := toolschema.Names()
	assert.Len(t, names, 18)

	for _, n := range names {
		_, ok := toolschema.Schema(n)
		assert.True(t, ok, "missing schema for %s", n)
	}
}
