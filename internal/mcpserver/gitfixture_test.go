package mcpserver_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// initSampleRepo builds a tiny two-commit repository in root, usable as
// a fixture for diff-driven tool calls.
func initSampleRepo(t *testing.T, root string) {
	t.Helper()

	runGit(t, root, "init", "--initial-branch=main")
	runGit(t, root, "config", "user.email", "test@example.com")
	runGit(t, root, "config", "user.name", "Test")

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	runGit(t, root, "add", ".")
	runGit(t, root, "commit", "-m", "initial")

	require.NoError(t, os.WriteFile(filepath.Join(root, "util.go"), []byte("package main\n\nfunc helper() int { return 1 }\n"), 0o644))
	runGit(t, root, "add", ".")
	runGit(t, root, "commit", "-m", "add helper")
}
