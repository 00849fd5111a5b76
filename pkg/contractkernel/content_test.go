package contractkernel_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/contractkernel"
)

func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	return string(out)
}

func TestLoader_BeforeAndAfter(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("before\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")

	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("after\n"), 0o600))

	loader := contractkernel.NewLoader(dir)

	before, err := loader.Before(context.Background(), base, "a.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "before\n", string(before))

	after, err := loader.After(context.Background(), "", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(after))
}

func TestLoader_BeforeMissingPathReturnsErrNotFound(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")

	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	loader := contractkernel.NewLoader(dir)

	_, err := loader.Before(context.Background(), base, "missing.txt", "")
	require.ErrorIs(t, err, contractkernel.ErrNotFound)
}

func trim(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}

	return s
}
