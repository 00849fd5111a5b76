package langdetect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/langdetect"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDetect_ByExtension(t *testing.T) {
	path := writeTemp(t, "m.py", "x = 1\n")

	result := langdetect.Detect(path)

	assert.Equal(t, "python", result.Language)
	assert.Equal(t, langdetect.ByExtension, result.DetectedBy)
	assert.InDelta(t, 0.98, result.Confidence, 1e-9)
	assert.True(t, result.IsTargetLanguage)
}

func TestDetect_ByShebang(t *testing.T) {
	path := writeTemp(t, "script", "#!/usr/bin/env python3\nprint('hi')\n")

	result := langdetect.Detect(path)

	assert.Equal(t, "python", result.Language)
	assert.Equal(t, langdetect.ByShebang, result.DetectedBy)
}

func TestDetect_ByContentVoting(t *testing.T) {
	src := "package main\n\nfunc main() {\n\tx := 1\n\tgo func() {}()\n}\n"
	path := writeTemp(t, "noext", src)

	result := langdetect.Detect(path)

	assert.Equal(t, "go", result.Language)
	assert.Equal(t, langdetect.ByContent, result.DetectedBy)
}

func TestDetect_UnknownWhenNoContentVotes(t *testing.T) {
	path := writeTemp(t, "blob", "just some prose with no code markers at all")

	result := langdetect.Detect(path)

	assert.Equal(t, langdetect.Unknown, result.Language)
	assert.Equal(t, langdetect.ByUnknown, result.DetectedBy)
	assert.InDelta(t, 0.35, result.Confidence, 1e-9)
}

func TestDetect_NeverPanicsOnMissingFile(t *testing.T) {
	result := langdetect.Detect(filepath.Join(t.TempDir(), "does-not-exist.xyz"))
	assert.Equal(t, langdetect.Unknown, result.Language)
}
