// Package testimpact classifies test files,
// computes the tests impacted by a set of changed source files, finds
// coverage gaps, and derives a regression scope.
package testimpact

import (
	"path"
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/calltrace"
	"github.com/vinpuli/archscribe/pkg/contractkernel"
)

// knownTestSuffixes is "known suffix" set, extended
// with the obvious per-language analogues it elides behind "…".
var knownTestSuffixes = []string{
	"_test.py", ".test.ts", ".spec.ts", ".test.tsx", ".spec.tsx",
	".test.js", ".spec.js", ".feature", "_test.go", "Test.java", "Tests.cs",
}

const minTokenLength = 3

// IsTestFile reports whether p is a test file under the three-way rule:
// a path segment in contractkernel.TestDirHints, a known suffix, or a
// stem starting with "test_" or ending in "_test"/"_spec".
func IsTestFile(p string) bool {
	p = path.Clean(p)

	for _, segment := range strings.Split(path.Dir(p), "/") {
		if contractkernel.TestDirHints[segment] {
			return true
		}
	}

	base := path.Base(p)

	for _, suffix := range knownTestSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	stem := strings.TrimSuffix(base, path.Ext(base))
	if strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") || strings.HasSuffix(stem, "_spec") {
		return true
	}

	return false
}

// tokens splits a path into its path-keys: lowercase word fragments of
// at least minTokenLength, excluding noise and test-directory segments
// ("token intersection" relatedness signal).
func tokens(p string) map[string]bool {
	out := make(map[string]bool)

	replacer := strings.NewReplacer("/", " ", ".", " ", "_", " ", "-", " ")
	for _, tok := range strings.Fields(replacer.Replace(strings.ToLower(p))) {
		if len(tok) < minTokenLength {
			continue
		}

		if contractkernel.NoiseParts[tok] || contractkernel.TestDirHints[tok] {
			continue
		}

		out[tok] = true
	}

	return out
}

func intersects(a, b map[string]bool) bool {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	for k := range small {
		if large[k] {
			return true
		}
	}

	return false
}

// RegressionScope is closed regression-scope set.
type RegressionScope string

const (
	FullSuite          RegressionScope = "full_suite"
	BroadRegression    RegressionScope = "broad_regression"
	TargetedRegression RegressionScope = "targeted_regression"
	Smoke              RegressionScope = "smoke"
)

// Options configures an Assess invocation.
type Options struct {
	// ChangedPaths are the repository-relative paths reported changed
	// by the git change classifier (C8).
	ChangedPaths []string
	// AllPaths is every test-or-source file path under consideration,
	// used to enumerate candidate related tests.
	AllPaths []string
	// Edges is the refined call graph (C9) used to downstream-trace
	// from changed source files to dependent test files.
	Edges []calltrace.RefinedEdge
	// MaxDepth bounds the downstream trace; zero uses calltrace's default.
	MaxDepth int
}

// Result is Test-impact Result.
type Result struct {
	ChangedSourceFiles   []string        `json:"changed_source_files"`
	DirectlyChangedTests []string        `json:"directly_changed_tests"`
	DownstreamTests      []string        `json:"downstream_tests"`
	RelatedTests         []string        `json:"related_tests"`
	ImpactedTests        []string        `json:"impacted_tests"`
	CoverageGaps         []string        `json:"coverage_gaps"`
	RegressionScope      RegressionScope `json:"regression_scope"`
}

// Assess classifies opts.ChangedPaths into source/test files, computes
// related and downstream-traced tests, and derives the regression
// scope
func Assess(opts Options) Result {
	var changedSource, directTests []string

	for _, p := range opts.ChangedPaths {
		if IsTestFile(p) {
			directTests = append(directTests, p)
		} else {
			changedSource = append(changedSource, p)
		}
	}

	sort.Strings(changedSource)
	sort.Strings(directTests)

	var allTests []string

	for _, p := range opts.AllPaths {
		if IsTestFile(p) {
			allTests = append(allTests, p)
		}
	}

	sort.Strings(allTests)

	downstreamSet := make(map[string]bool)
	relatedSet := make(map[string]bool)
	gapSet := make(map[string]bool)

	sourceTokens := make(map[string]map[string]bool, len(changedSource))
	for _, s := range changedSource {
		sourceTokens[s] = tokens(s)
	}

	for _, s := range changedSource {
		ownedDownstream := false

		for _, d := range calltrace.Trace(opts.Edges, calltrace.Options{Seeds: []string{s}, MaxDepth: opts.MaxDepth}) {
			if !IsTestFile(d.Path) {
				continue
			}

			downstreamSet[d.Path] = true
			ownedDownstream = true
		}

		hasRelated := false

		for _, test := range allTests {
			if intersects(sourceTokens[s], tokens(test)) {
				relatedSet[test] = true
				hasRelated = true
			}
		}

		if !hasRelated && !ownedDownstream {
			gapSet[s] = true
		}
	}

	downstream := sortedKeys(downstreamSet)
	related := sortedKeys(relatedSet)

	impactedSet := make(map[string]bool)
	for _, t := range directTests {
		impactedSet[t] = true
	}

	for t := range downstreamSet {
		impactedSet[t] = true
	}

	for t := range relatedSet {
		impactedSet[t] = true
	}

	impacted := sortedKeys(impactedSet)
	gaps := sortedKeys(gapSet)

	return Result{
		ChangedSourceFiles:   changedSource,
		DirectlyChangedTests: directTests,
		DownstreamTests:      downstream,
		RelatedTests:         related,
		ImpactedTests:        impacted,
		CoverageGaps:         gaps,
		RegressionScope:      regressionScope(len(impacted), len(opts.ChangedPaths), len(gaps)),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

func regressionScope(impacted, changed, gaps int) RegressionScope {
	switch {
	case impacted >= 40 || changed >= 25:
		return FullSuite
	case impacted >= 10 || changed >= 8 || gaps >= 5:
		return BroadRegression
	case impacted > 0 || gaps > 0:
		return TargetedRegression
	default:
		return Smoke
	}
}
