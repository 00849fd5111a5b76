// Package gitdiff classifies changed files in a
// git repository, either against the working tree or between two refs,
// using the `git` CLI (see pkg/gitexec) rather than a linked git
// library.
package gitdiff

import (
	"context"
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/gitexec"
)

// Action is one of the three change classes a path can settle into.
type Action string

const (
	Create Action = "create"
	Modify Action = "modify"
	Delete Action = "delete"
)

// actionPriority implements merge rule: when a path
// shows up under more than one raw status (e.g. staged-modify plus
// unstaged-delete), the higher-priority action wins.
var actionPriority = map[Action]int{Delete: 3, Create: 2, Modify: 1}

// RawStatus is one parsed `git diff --name-status` entry (or an
// untracked path from `git ls-files --others`, recorded with code "A"),
// kept verbatim alongside the merged classification.
type RawStatus struct {
	Code     string `json:"code"`
	Path     string `json:"path"`
	OldPath  string `json:"old_path,omitempty"`
	IsRename bool   `json:"is_rename"`
}

// FileChange is one path's merged classification.
type FileChange struct {
	Path    string `json:"path"`
	Action  Action `json:"action"`
	OldPath string `json:"old_path,omitempty"`
}

// Result is the C8 output payload.
type Result struct {
	Created     []FileChange `json:"create"`
	Modified    []FileChange `json:"modify"`
	Deleted     []FileChange `json:"delete"`
	RawStatuses []RawStatus  `json:"raw_statuses"`
}

// Mode selects between the two classification modes.
type Mode string

const (
	WorkingTree Mode = "working_tree"
	RefDiff     Mode = "ref_diff"
)

// Options configures a Classify invocation.
type Options struct {
	Mode Mode

	// ref_diff mode.
	BaseRef   string
	TargetRef string // defaults to the working tree content when empty

	// working_tree mode.
	IncludeUntracked bool

	// Both modes: restricts output to paths under this subdirectory.
	Subdirectory string
}

// Classify runs git against repoRoot and returns the classified file
// set. A non-nil error wraps either a *gitexec.Error or
// gitexec.ErrGitNotFound and is non-transient — callers must not retry.
func Classify(ctx context.Context, repoRoot string, opts Options) (Result, error) {
	runner := gitexec.NewRunner(repoRoot)

	var raw []RawStatus

	var err error

	switch opts.Mode {
	case RefDiff:
		raw, err = refDiffStatuses(ctx, runner, opts)
	default:
		raw, err = workingTreeStatuses(ctx, runner, opts)
	}

	if err != nil {
		return Result{}, err
	}

	raw = scopeToSubdirectory(raw, opts.Subdirectory)

	return merge(raw), nil
}

func refDiffStatuses(ctx context.Context, runner *gitexec.Runner, opts Options) ([]RawStatus, error) {
	args := []string{"diff", "--name-status", "-z", opts.BaseRef}
	if opts.TargetRef != "" {
		args = append(args, opts.TargetRef)
	}

	args = append(args, pathspecArgs(opts.Subdirectory)...)

	out, err := runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	return parseNameStatusZ(out), nil
}

func workingTreeStatuses(ctx context.Context, runner *gitexec.Runner, opts Options) ([]RawStatus, error) {
	var raw []RawStatus

	staged, err := runner.Run(ctx, append([]string{"diff", "--cached", "--name-status", "-z"}, pathspecArgs(opts.Subdirectory)...)...)
	if err != nil {
		return nil, err
	}

	raw = append(raw, parseNameStatusZ(staged)...)

	unstaged, err := runner.Run(ctx, append([]string{"diff", "--name-status", "-z"}, pathspecArgs(opts.Subdirectory)...)...)
	if err != nil {
		return nil, err
	}

	raw = append(raw, parseNameStatusZ(unstaged)...)

	if opts.IncludeUntracked {
		untrackedArgs := append([]string{"ls-files", "--others", "--exclude-standard"}, pathspecArgs(opts.Subdirectory)...)

		untracked, lsErr := runner.RunLines(ctx, untrackedArgs...)
		if lsErr != nil {
			return nil, lsErr
		}

		for _, path := range untracked {
			if path == "" {
				continue
			}

			raw = append(raw, RawStatus{Code: "A", Path: path})
		}
	}

	return raw, nil
}

func pathspecArgs(subdirectory string) []string {
	if subdirectory == "" {
		return nil
	}

	return []string{"--", subdirectory}
}

// parseNameStatusZ parses NUL-separated `git diff --name-status -z`
// output, including the two-field rename/copy records.
func parseNameStatusZ(out string) []RawStatus {
	if out == "" {
		return nil
	}

	fields := strings.Split(out, "\x00")

	var statuses []RawStatus

	for i := 0; i < len(fields); i++ {
		code := fields[i]
		if code == "" {
			continue
		}

		switch code[0] {
		case 'R', 'C':
			if i+2 >= len(fields) {
				continue
			}

			statuses = append(statuses, RawStatus{
				Code: code, OldPath: fields[i+1], Path: fields[i+2], IsRename: code[0] == 'R',
			})
			i += 2
		default:
			if i+1 >= len(fields) {
				continue
			}

			statuses = append(statuses, RawStatus{Code: code, Path: fields[i+1]})
			i++
		}
	}

	return statuses
}

func scopeToSubdirectory(raw []RawStatus, subdirectory string) []RawStatus {
	if subdirectory == "" {
		return raw
	}

	prefix := strings.TrimSuffix(subdirectory, "/") + "/"

	var scoped []RawStatus

	for _, r := range raw {
		if strings.HasPrefix(r.Path, prefix) || (r.OldPath != "" && strings.HasPrefix(r.OldPath, prefix)) {
			scoped = append(scoped, r)
		}
	}

	return scoped
}

func classify(code string) Action {
	switch {
	case strings.HasPrefix(code, "A"):
		return Create
	case strings.HasPrefix(code, "D"):
		return Delete
	case strings.HasPrefix(code, "R"), strings.HasPrefix(code, "C"):
		return Modify
	default:
		return Modify
	}
}

// merge applies the delete>create>modify priority per path and groups
// the result into the three ordered sets plus the
// flat raw list.
func merge(raw []RawStatus) Result {
	best := make(map[string]FileChange)

	for _, r := range raw {
		action := classify(r.Code)

		existing, ok := best[r.Path]
		if ok && actionPriority[existing.Action] >= actionPriority[action] {
			if existing.OldPath == "" && r.OldPath != "" {
				existing.OldPath = r.OldPath
				best[r.Path] = existing
			}

			continue
		}

		best[r.Path] = FileChange{Path: r.Path, Action: action, OldPath: r.OldPath}
	}

	var created, modified, deleted []FileChange

	for _, fc := range best {
		switch fc.Action {
		case Create:
			created = append(created, fc)
		case Delete:
			deleted = append(deleted, fc)
		default:
			modified = append(modified, fc)
		}
	}

	sortByPath(created)
	sortByPath(modified)
	sortByPath(deleted)

	sort.Slice(raw, func(i, j int) bool { return raw[i].Path < raw[j].Path })

	return Result{Created: created, Modified: modified, Deleted: deleted, RawStatuses: raw}
}

func sortByPath(changes []FileChange) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
}
