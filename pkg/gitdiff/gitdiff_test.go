package gitdiff_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/gitdiff"
)

// testRepo wraps a temp git repository for integration testing, driven
// through the git CLI instead of git2go.
type testRepo struct {
	t    *testing.T
	path string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	tr := &testRepo{t: t, path: dir}

	tr.run("init", "-q")
	tr.run("config", "user.email", "test@example.com")
	tr.run("config", "user.name", "Test")

	return tr
}

func (tr *testRepo) run(args ...string) string {
	tr.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = tr.path

	out, err := cmd.CombinedOutput()
	require.NoError(tr.t, err, string(out))

	return string(out)
}

func (tr *testRepo) writeFile(name, content string) {
	tr.t.Helper()

	path := filepath.Join(tr.path, name)
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tr.t, os.WriteFile(path, []byte(content), 0o600))
}

func (tr *testRepo) commitAll(message string) {
	tr.t.Helper()

	tr.run("add", "-A")
	tr.run("commit", "-q", "-m", message)
}

func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestClassify_WorkingTreeModifyAndUntracked(t *testing.T) {
	requireGit(t)

	repo := newTestRepo(t)
	repo.writeFile("a.txt", "one\n")
	repo.commitAll("initial")

	repo.writeFile("a.txt", "two\n")
	repo.writeFile("b.txt", "new\n")

	result, err := gitdiff.Classify(context.Background(), repo.path, gitdiff.Options{
		Mode:             gitdiff.WorkingTree,
		IncludeUntracked: true,
	})
	require.NoError(t, err)

	require.Len(t, result.Modified, 1)
	assert.Equal(t, "a.txt", result.Modified[0].Path)

	require.Len(t, result.Created, 1)
	assert.Equal(t, "b.txt", result.Created[0].Path)
}

func TestClassify_RefDiffBetweenCommits(t *testing.T) {
	requireGit(t)

	repo := newTestRepo(t)
	repo.writeFile("a.txt", "one\n")
	repo.writeFile("b.txt", "keep\n")
	repo.commitAll("initial")
	base := repo.run("rev-parse", "HEAD")

	repo.writeFile("a.txt", "one\ntwo\n")
	os.Remove(filepath.Join(repo.path, "b.txt"))
	repo.writeFile("c.txt", "brand new\n")
	repo.commitAll("second")
	target := repo.run("rev-parse", "HEAD")

	result, err := gitdiff.Classify(context.Background(), repo.path, gitdiff.Options{
		Mode:      gitdiff.RefDiff,
		BaseRef:   trimNewline(base),
		TargetRef: trimNewline(target),
	})
	require.NoError(t, err)

	assert.Len(t, result.Modified, 1)
	assert.Len(t, result.Created, 1)
	assert.Len(t, result.Deleted, 1)
	assert.Equal(t, "b.txt", result.Deleted[0].Path)
}

func TestClassify_NonExistentRepoYieldsError(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()

	_, err := gitdiff.Classify(context.Background(), dir, gitdiff.Options{Mode: gitdiff.WorkingTree})
	require.Error(t, err)
}

func TestClassify_SubdirectoryScoping(t *testing.T) {
	requireGit(t)

	repo := newTestRepo(t)
	repo.writeFile("src/a.txt", "one\n")
	repo.writeFile("docs/readme.txt", "doc\n")
	repo.commitAll("initial")

	repo.writeFile("src/a.txt", "changed\n")
	repo.writeFile("docs/readme.txt", "changed too\n")

	result, err := gitdiff.Classify(context.Background(), repo.path, gitdiff.Options{
		Mode:         gitdiff.WorkingTree,
		Subdirectory: "src",
	})
	require.NoError(t, err)

	require.Len(t, result.Modified, 1)
	assert.Equal(t, "src/a.txt", result.Modified[0].Path)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}

	return s
}
