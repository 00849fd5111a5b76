package contractkernel

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/vinpuli/archscribe/pkg/gitexec"
)

// ErrNotFound is returned when the requested revision of path could not
// be loaded: a missing working-tree file, or any failed `git show`
// (deleted, not yet created, renamed away, but also an unknown ref or
// any other git error). A missing git binary is not mapped to it.
var ErrNotFound = errors.New("contractkernel: path not found at revision")

// Loader loads before/after file content for C10/C11, sharing one
// gitexec.Runner so both components read through the same subprocess
// path instead of re-implementing `git show`.
type Loader struct {
	runner *gitexec.Runner
}

// NewLoader returns a Loader rooted at repoRoot.
func NewLoader(repoRoot string) *Loader {
	return &Loader{runner: gitexec.NewRunner(repoRoot)}
}

// Before loads path's content as of ref (typically base_ref). oldPath
// is used instead of path when the file was renamed.
func (l *Loader) Before(ctx context.Context, ref, path, oldPath string) ([]byte, error) {
	target := path
	if oldPath != "" {
		target = oldPath
	}

	out, err := l.runner.Show(ctx, ref, target)
	if err != nil {
		var gitErr *gitexec.Error
		if errors.As(err, &gitErr) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return []byte(out), nil
}

// After loads path's current content: from the working tree when
// targetRef is empty, otherwise from that ref via `git show`.
func (l *Loader) After(ctx context.Context, targetRef, path string) ([]byte, error) {
	if targetRef == "" {
		content, err := os.ReadFile(filepath.Join(l.runner.RepoRoot, path)) //nolint:gosec // path is caller-scoped to the repo root
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrNotFound
			}

			return nil, err
		}

		return content, nil
	}

	out, err := l.runner.Show(ctx, targetRef, path)
	if err != nil {
		var gitErr *gitexec.Error
		if errors.As(err, &gitErr) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return []byte(out), nil
}
