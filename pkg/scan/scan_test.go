package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/scan"
)

func TestWalk_PythonSeedRepo(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "__init__.py"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "m.py"),
		[]byte("from . import helpers\n\n\ndef f(x: int) -> int:\n    return helpers.g(x)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "helpers.py"),
		[]byte("def g():\n    pass\n"), 0o600))

	result, err := scan.Walk(scan.Options{Root: root, Recursive: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFiles)
	require.Len(t, result.ByLanguage, 1)
	assert.Equal(t, "python", result.ByLanguage[0].Language)
	assert.Equal(t, 3, result.ByLanguage[0].FileCount)
}

func TestWalk_EmptyRepository(t *testing.T) {
	root := t.TempDir()

	result, err := scan.Walk(scan.Options{Root: root, Recursive: true})
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalFiles)
	assert.Empty(t, result.ByLanguage)
	assert.Empty(t, result.ByDirectory)
}

func TestWalk_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("x = 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package main\n"), 0o600))

	result, err := scan.Walk(scan.Options{Root: root, Recursive: true, Extensions: []string{".py"}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalFiles)
}
