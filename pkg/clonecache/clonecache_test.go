package clonecache_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/clonecache"
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

// newOriginRepo creates a local non-bare repository with one commit
// and HEAD pointed at branchName, usable as a clone source over a
// plain filesystem path.
func newOriginRepo(t *testing.T, branchName string) string {
	t.Helper()

	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.MkdirAll(origin, 0o755))

	runGit(t, origin, "init", "--initial-branch="+branchName)
	runGit(t, origin, "config", "user.email", "test@example.com")
	runGit(t, origin, "config", "user.name", "Test")

	require.NoError(t, os.MkdirAll(filepath.Join(origin, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(origin, "src", "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(origin, "README.md"), []byte("hello\n"), 0o644))
	runGit(t, origin, "add", ".")
	runGit(t, origin, "commit", "-m", "initial")

	return origin
}

func TestCloneOrGetCached_FirstCallClonesSecondCallReusesCache(t *testing.T) {
	requireGit(t)

	origin := newOriginRepo(t, "main")

	svc, err := clonecache.New(clonecache.Options{
		CacheDir:     filepath.Join(t.TempDir(), "cache"),
		ShallowClone: false,
	})
	require.NoError(t, err)

	ctx := context.Background()

	first, err := svc.CloneOrGetCached(ctx, origin, "main", nil, clonecache.Credentials{})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.NotEmpty(t, first.CommitSHA)
	assert.Equal(t, "main", first.BranchName)
	assert.DirExists(t, first.LocalPath)

	second, err := svc.CloneOrGetCached(ctx, origin, "main", nil, clonecache.Credentials{})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.LocalPath, second.LocalPath)
	assert.Equal(t, first.CommitSHA, second.CommitSHA)
}

func TestCloneOrGetCached_DirectoryScopeAppliesSparseCheckout(t *testing.T) {
	requireGit(t)

	origin := newOriginRepo(t, "main")

	svc, err := clonecache.New(clonecache.Options{
		CacheDir:     filepath.Join(t.TempDir(), "cache"),
		ShallowClone: false,
	})
	require.NoError(t, err)

	result, err := svc.CloneOrGetCached(context.Background(), origin, "main", []string{"src"}, clonecache.Credentials{})
	require.NoError(t, err)

	assert.Equal(t, []string{"src"}, result.DirectoryScope)
	assert.FileExists(t, filepath.Join(result.LocalPath, "src", "main.go"))
	// Cone-mode sparse checkout always keeps the files at the repository root.
	assert.FileExists(t, filepath.Join(result.LocalPath, "README.md"))
}

func TestCloneOrGetCached_DefaultBranchResolvedWhenUnspecified(t *testing.T) {
	requireGit(t)

	origin := newOriginRepo(t, "trunk")

	svc, err := clonecache.New(clonecache.Options{
		CacheDir:     filepath.Join(t.TempDir(), "cache"),
		ShallowClone: false,
	})
	require.NoError(t, err)

	result, err := svc.CloneOrGetCached(context.Background(), origin, "", nil, clonecache.Credentials{})
	require.NoError(t, err)

	assert.Equal(t, "trunk", result.BranchName)
}

func TestCloneOrGetCached_RejectsTraversalScope(t *testing.T) {
	requireGit(t)

	origin := newOriginRepo(t, "main")

	svc, err := clonecache.New(clonecache.Options{CacheDir: filepath.Join(t.TempDir(), "cache")})
	require.NoError(t, err)

	_, err = svc.CloneOrGetCached(context.Background(), origin, "main", []string{"../escape"}, clonecache.Credentials{})
	require.Error(t, err)
	assert.ErrorIs(t, err, clonecache.ErrInvalidScope)
}
