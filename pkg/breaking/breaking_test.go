package breaking_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/breaking"
	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
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

func initRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")

	return dir
}

func trim(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}

	return s
}

func TestDetect_SignatureChangeOnModifiedFunction(t *testing.T) {
	requireGit(t)

	dir := initRepo(t)
	path := filepath.Join(dir, "users.ts")
	require.NoError(t, os.WriteFile(path, []byte("export function getUser(id: string): User {\n  return db.find(id)\n}\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	require.NoError(t, os.WriteFile(path, []byte("export function getUser(id: string, tenant: string): User {\n  return db.find(id, tenant)\n}\n"), 0o600))

	loader := contractkernel.NewLoader(dir)
	changes := []gitdiff.FileChange{{Path: "users.ts", Action: gitdiff.Modify}}

	findings, err := breaking.Detect(context.Background(), loader, changes, breaking.Options{
		BaseRef:        base,
		LanguageByPath: map[string]string{"users.ts": "typescript"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	found := false

	for _, f := range findings {
		if f.Category == "api_contract_signature_change" && f.Symbol == "getUser" {
			found = true

			assert.Equal(t, breaking.Medium, f.Severity)
		}
	}

	assert.True(t, found, "expected a signature-change finding for getUser")
}

func TestDetect_DeletionOfContractHintFileWithNoSurface(t *testing.T) {
	requireGit(t)

	dir := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "api"), 0o755))
	path := filepath.Join(dir, "src", "api", "users.ts")
	require.NoError(t, os.WriteFile(path, []byte("// just a comment, no parseable contract\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	loader := contractkernel.NewLoader(dir)
	changes := []gitdiff.FileChange{{Path: "src/api/users.ts", Action: gitdiff.Delete}}

	findings, err := breaking.Detect(context.Background(), loader, changes, breaking.Options{
		BaseRef:        base,
		LanguageByPath: map[string]string{"src/api/users.ts": "typescript"},
	})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "deleted_api_contract_file", findings[0].Category)
	assert.Equal(t, breaking.High, findings[0].Severity)
}

func TestDetect_DeletionWithRemovedSymbolsIsHighSeverity(t *testing.T) {
	requireGit(t)

	dir := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "api"), 0o755))
	path := filepath.Join(dir, "src", "api", "users.py")
	require.NoError(t, os.WriteFile(path, []byte("def get_user(id):\n    pass\n"), 0o600))
	runGit(t, dir, "add", "-A")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	base := trim(runGit(t, dir, "rev-parse", "HEAD"))

	loader := contractkernel.NewLoader(dir)
	changes := []gitdiff.FileChange{{Path: "src/api/users.py", Action: gitdiff.Delete}}

	findings, err := breaking.Detect(context.Background(), loader, changes, breaking.Options{
		BaseRef:        base,
		LanguageByPath: map[string]string{"src/api/users.py": "python"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	for _, f := range findings {
		if f.Category == "api_contract_removal" {
			assert.Equal(t, breaking.High, f.Severity)
			assert.Equal(t, "get_user", f.Symbol)
		}
	}
}
