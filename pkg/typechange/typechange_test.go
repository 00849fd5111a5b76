package typechange_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
	"github.com/vinpuli/archscribe/pkg/typechange"
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

func trim(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}

	return s
}

func TestAnalyze_TypedFunctionSignatureChanged(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")

	path := filepath.Join(dir, "svc.ts")
	require.NoError(t, os.WriteFile(path, []byte("function getUser(id: string): User {\n  return db.find(id)\n}\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	require.NoError(t, os.WriteFile(path, []byte("function getUser(id: string, tenant: string): User {\n  return db.find(id, tenant)\n}\n"), 0o600))

	loader := contractkernel.NewLoader(dir)
	changes := []gitdiff.FileChange{{Path: "svc.ts", Action: gitdiff.Modify}}

	findings, err := typechange.Analyze(context.Background(), loader, changes, typechange.Options{
		BaseRef:        base,
		LanguageByPath: map[string]string{"svc.ts": "typescript"},
	})
	require.NoError(t, err)

	found := false

	for _, f := range findings {
		if f.Category == "typed_function_signature_changed" && f.Symbol == "getUser" {
			found = true
		}
	}

	assert.True(t, found)
}

func TestAnalyze_SkipsNonStaticLanguages(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")

	path := filepath.Join(dir, "svc.py")
	require.NoError(t, os.WriteFile(path, []byte("def get_user(id):\n    pass\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	require.NoError(t, os.WriteFile(path, []byte("def get_user(id, tenant):\n    pass\n"), 0o600))

	loader := contractkernel.NewLoader(dir)
	changes := []gitdiff.FileChange{{Path: "svc.py", Action: gitdiff.Modify}}

	findings, err := typechange.Analyze(context.Background(), loader, changes, typechange.Options{
		BaseRef:        base,
		LanguageByPath: map[string]string{"svc.py": "python"},
	})
	require.NoError(t, err)
	assert.Empty(t, findings)
}
