// Package gitexec runs the git CLI as a subprocess rather than linking a
// cgo library such as libgit2/git2go, so callers work from `git`'s own
// plumbing output instead of in-process trees.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error wraps a failed git invocation with its captured stderr. The
// classifier components treat every Error as non-transient: callers
// must not retry on missing git, missing repo, or subprocess failure.
type Error struct {
	Args   []string
	Stderr string
	Cause  error
}

func (e *Error) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Cause)
	}

	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), stderr)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrGitNotFound is returned when the git binary cannot be located on
// PATH.
var ErrGitNotFound = errors.New("git executable not found")

// Runner invokes git against one repository root.
type Runner struct {
	RepoRoot string
	Binary   string
}

// NewRunner returns a Runner rooted at repoRoot, defaulting to the
// "git" binary resolved from PATH.
func NewRunner(repoRoot string) *Runner {
	return &Runner{RepoRoot: repoRoot, Binary: "git"}
}

// Run executes `git <args...>` with the runner's root as working
// directory and returns trimmed stdout.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}

	if _, err := exec.LookPath(binary); err != nil {
		return "", fmt.Errorf("%w: %s", ErrGitNotFound, binary)
	}

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec // args are built internally from validated refs/pathspecs
	cmd.Dir = r.RepoRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{Args: args, Stderr: stderr.String(), Cause: err}
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}

// RunLines is Run split on newlines, empty output yielding nil.
func (r *Runner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	if out == "" {
		return nil, nil
	}

	return strings.Split(out, "\n"), nil
}

// Show returns the content of path as it existed at ref. Any failed
// `git show` (including a path absent at that ref) yields an *Error;
// ErrGitNotFound is returned only when the git binary is missing.
func (r *Runner) Show(ctx context.Context, ref, path string) (string, error) {
	return r.Run(ctx, "show", ref+":"+path)
}
