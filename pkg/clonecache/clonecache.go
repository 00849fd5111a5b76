// Package clonecache is the repository-clone external collaborator: it
// clones a repository or reuses a cached working copy keyed by (url,
// branch, directory scope), shelling out to git the same way
// pkg/gitexec does for the in-process analyzers. It is the one
// component that writes outside its own output envelope (under a
// configured cache directory) and the one component that reads the
// environment (REPO_CACHE_DIR, REPO_SHALLOW_CLONE, REPO_CLONE_DEPTH).
package clonecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vinpuli/archscribe/pkg/gitexec"
)

// defaultCacheDir mirrors the original collaborator's "tmp/repo_cache"
// default.
const defaultCacheDir = "tmp/repo_cache"

const defaultCloneDepth = 1

const defaultTimeout = 180 * time.Second

// cacheKeyLength is the sha256-hex prefix length used as the on-disk
// directory name (`sha256(url|branch|scope)[:24]`).
const cacheKeyLength = 24

// ErrInvalidScope is returned when a requested directory-scope entry
// escapes the repository root.
var ErrInvalidScope = errors.New("clonecache: invalid directory scope path")

// Credentials carries optional host tokens used to build an
// authenticated clone URL. Zero value performs an unauthenticated
// clone.
type Credentials struct {
	GithubAccessToken string
	GitlabAccessToken string
	GitlabBaseURL     string
}

// Result is the outcome of a clone-or-reuse preparation.
type Result struct {
	LocalPath      string   `json:"local_path"`
	CacheHit       bool     `json:"cache_hit"`
	ShallowClone   bool     `json:"shallow_clone"`
	CloneDepth     int      `json:"clone_depth,omitempty"`
	DirectoryScope []string `json:"directory_scope,omitempty"`
	BranchName     string   `json:"branch_name,omitempty"`
	CommitSHA      string   `json:"commit_sha,omitempty"`
}

// Options configures a Service. A zero value is invalid; use
// OptionsFromEnv or fill in CacheDir explicitly.
type Options struct {
	CacheDir     string
	ShallowClone bool
	CloneDepth   int
	Timeout      time.Duration
}

// OptionsFromEnv reads REPO_CACHE_DIR, REPO_SHALLOW_CLONE, and
// REPO_CLONE_DEPTH, falling back to the same defaults as the original
// collaborator when unset or unparsable.
func OptionsFromEnv() Options {
	cacheDir := os.Getenv("REPO_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}

	shallow := parseBoolEnv(os.Getenv("REPO_SHALLOW_CLONE"), true)
	depth := parseIntEnv(os.Getenv("REPO_CLONE_DEPTH"), defaultCloneDepth)

	return Options{
		CacheDir:     cacheDir,
		ShallowClone: shallow,
		CloneDepth:   depth,
		Timeout:      defaultTimeout,
	}
}

func parseBoolEnv(v string, fallback bool) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return fallback
	}

	switch v {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseIntEnv(v string, fallback int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

// Service clones repositories into, or reuses working copies from, a
// shared on-disk cache. A Service is safe for concurrent use: the same
// (url, branch, scope) key is serialized via a per-key lock; unrelated
// keys proceed in parallel.
type Service struct {
	opts Options

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheHits returns the number of CloneOrGetCached calls that reused an
// existing checkout. Implements observability.CacheStatsProvider.
func (s *Service) CacheHits() int64 { return s.hits.Load() }

// CacheMisses returns the number of CloneOrGetCached calls that performed a
// fresh clone. Implements observability.CacheStatsProvider.
func (s *Service) CacheMisses() int64 { return s.misses.Load() }

// New returns a Service rooted at opts.CacheDir, creating the
// directory if it does not exist. Depth is floored at 1, matching the
// original collaborator.
func New(opts Options) (*Service, error) {
	if opts.CacheDir == "" {
		opts.CacheDir = defaultCacheDir
	}

	if opts.CloneDepth < 1 {
		opts.CloneDepth = defaultCloneDepth
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("clonecache: create cache dir: %w", err)
	}

	return &Service{opts: opts, locks: make(map[string]*sync.Mutex)}, nil
}

// CloneOrGetCached clones repositoryURL or reuses an existing cached
// checkout, checks out branchName (or the remote's default branch
// when empty), narrows to directoryScope via sparse-checkout when
// given, and returns the resulting local path and resolved commit.
func (s *Service) CloneOrGetCached(ctx context.Context, repositoryURL, branchName string, directoryScope []string, creds Credentials) (Result, error) {
	scope, err := normalizeDirectoryScope(directoryScope)
	if err != nil {
		return Result{}, err
	}

	key := buildCacheKey(repositoryURL, branchName, scope)

	keyLock := s.lockFor(key)
	keyLock.Lock()
	defer keyLock.Unlock()

	return s.cloneOrGetCachedLocked(ctx, key, repositoryURL, branchName, scope, creds)
}

func (s *Service) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}

	return l
}

func (s *Service) cloneOrGetCachedLocked(ctx context.Context, key, repositoryURL, branchName string, scope []string, creds Credentials) (Result, error) {
	repoPath := filepath.Join(s.opts.CacheDir, key)
	runner := &gitexec.Runner{RepoRoot: repoPath}

	authenticatedURL := buildAuthenticatedURL(repositoryURL, creds)

	cacheHit := dirExists(filepath.Join(repoPath, ".git"))
	if cacheHit {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}

	if cacheHit {
		fetchArgs := []string{"fetch", "--all", "--prune"}
		if s.opts.ShallowClone && isShallowRepo(ctx, runner) {
			fetchArgs = append(fetchArgs, fmt.Sprintf("--depth=%d", s.opts.CloneDepth))
		}

		if _, err := runner.Run(ctx, fetchArgs...); err != nil {
			return Result{}, err
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(repoPath), 0o755); err != nil {
			return Result{}, fmt.Errorf("clonecache: create parent dir: %w", err)
		}

		cloneArgs := []string{"clone"}
		if s.opts.ShallowClone {
			cloneArgs = append(cloneArgs, "--depth", strconv.Itoa(s.opts.CloneDepth), "--single-branch")
		}

		if branchName != "" {
			cloneArgs = append(cloneArgs, "--branch", branchName)
		}

		cloneArgs = append(cloneArgs, authenticatedURL, repoPath)

		cloneRunner := &gitexec.Runner{RepoRoot: "."}
		if _, err := cloneRunner.Run(ctx, cloneArgs...); err != nil {
			return Result{}, err
		}
	}

	effectiveBranch := branchName
	if effectiveBranch == "" {
		effectiveBranch = resolveDefaultBranch(ctx, runner)
	}

	if effectiveBranch != "" {
		if _, err := runner.Run(ctx, "checkout", effectiveBranch); err != nil {
			return Result{}, err
		}

		if s.opts.ShallowClone && isShallowRepo(ctx, runner) {
			if _, err := runner.Run(ctx, "fetch", "origin", effectiveBranch, fmt.Sprintf("--depth=%d", s.opts.CloneDepth)); err != nil {
				return Result{}, err
			}
		}

		if _, err := runner.Run(ctx, "pull", "--ff-only", "origin", effectiveBranch); err != nil {
			return Result{}, err
		}
	}

	if len(scope) > 0 {
		if err := applyDirectoryScope(ctx, runner, scope); err != nil {
			return Result{}, err
		}
	}

	commitSHA, err := runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return Result{}, err
	}

	result := Result{
		LocalPath:      repoPath,
		CacheHit:       cacheHit,
		ShallowClone:   s.opts.ShallowClone,
		DirectoryScope: scope,
		BranchName:     effectiveBranch,
		CommitSHA:      commitSHA,
	}

	if s.opts.ShallowClone {
		result.CloneDepth = s.opts.CloneDepth
	}

	return result, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func resolveDefaultBranch(ctx context.Context, runner *gitexec.Runner) string {
	out, err := runner.Run(ctx, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err != nil {
		return ""
	}

	const prefix = "refs/remotes/origin/"
	if !strings.HasPrefix(out, prefix) {
		return ""
	}

	return strings.TrimPrefix(out, prefix)
}

func isShallowRepo(ctx context.Context, runner *gitexec.Runner) bool {
	out, err := runner.Run(ctx, "rev-parse", "--is-shallow-repository")
	if err != nil {
		return false
	}

	return strings.ToLower(strings.TrimSpace(out)) == "true"
}

func applyDirectoryScope(ctx context.Context, runner *gitexec.Runner, scope []string) error {
	if _, err := runner.Run(ctx, "sparse-checkout", "init", "--cone"); err != nil {
		return err
	}

	args := append([]string{"sparse-checkout", "set"}, scope...)
	if _, err := runner.Run(ctx, args...); err != nil {
		return err
	}

	return nil
}

// buildCacheKey reproduces the original collaborator's key derivation:
// sha256 of "normalized-url|branch|sorted,scope", truncated to
// cacheKeyLength hex characters.
func buildCacheKey(repositoryURL, branchName string, scope []string) string {
	normalized := strings.ToLower(strings.TrimSpace(sanitizeURL(repositoryURL)))
	sortedScope := append([]string(nil), scope...)
	sort.Strings(sortedScope)
	scopePart := strings.Join(sortedScope, ",")
	src := normalized + "|" + branchName + "|" + scopePart

	sum := sha256.Sum256([]byte(src))

	return hex.EncodeToString(sum[:])[:cacheKeyLength]
}

// sanitizeURL strips userinfo from a repository URL before it is
// hashed or logged, so cached keys are stable across callers
// supplying different embedded credentials for the same repository.
func sanitizeURL(repositoryURL string) string {
	parsed, err := url.Parse(repositoryURL)
	if err != nil || parsed.Host == "" {
		return repositoryURL
	}

	parsed.User = nil

	return parsed.String()
}

// buildAuthenticatedURL embeds a host-appropriate token into
// repositoryURL's userinfo when a matching credential is supplied,
// following the original collaborator's GitHub/GitLab detection
// rules. Returns repositoryURL unchanged when no applicable token is
// present.
func buildAuthenticatedURL(repositoryURL string, creds Credentials) string {
	raw := repositoryURL
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return repositoryURL
	}

	hostname := strings.ToLower(parsed.Hostname())
	isGitHub := strings.Contains(hostname, "github.com")
	isGitLab := strings.Contains(hostname, "gitlab")

	if !isGitLab && creds.GitlabBaseURL != "" {
		base := creds.GitlabBaseURL
		if !strings.Contains(base, "://") {
			base = "https://" + base
		}

		if baseParsed, err := url.Parse(base); err == nil && baseParsed.Hostname() != "" {
			if strings.EqualFold(baseParsed.Hostname(), hostname) {
				isGitLab = true
			}
		}
	}

	var username, password string

	switch {
	case isGitHub && creds.GithubAccessToken != "":
		username, password = "x-access-token", creds.GithubAccessToken
	case isGitLab && creds.GitlabAccessToken != "":
		username, password = "oauth2", creds.GitlabAccessToken
	default:
		return repositoryURL
	}

	parsed.User = url.UserPassword(username, password)

	return parsed.String()
}

// normalizeDirectoryScope cleans, deduplicates, and sorts scope
// entries, rejecting any path that escapes the repository root.
func normalizeDirectoryScope(scope []string) ([]string, error) {
	if len(scope) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(scope))
	normalized := make([]string, 0, len(scope))

	for _, raw := range scope {
		p := strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/")

		for strings.HasPrefix(p, "./") {
			p = strings.TrimPrefix(p, "./")
		}

		p = strings.Trim(p, "/")

		if p == "" {
			continue
		}

		if strings.HasPrefix(p, "..") || strings.Contains(p, "/../") || strings.HasSuffix(p, "/..") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidScope, raw)
		}

		if strings.Contains(p, ":") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidScope, raw)
		}

		if _, ok := seen[p]; ok {
			continue
		}

		seen[p] = struct{}{}

		normalized = append(normalized, p)
	}

	if len(normalized) == 0 {
		return nil, nil
	}

	sort.Strings(normalized)

	return normalized, nil
}
