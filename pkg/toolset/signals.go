package toolset

import (
	"context"
	"strings"

	"github.com/vinpuli/archscribe/pkg/breaking"
	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
	"github.com/vinpuli/archscribe/pkg/langdetect"
	"github.com/vinpuli/archscribe/pkg/risk"
	"github.com/vinpuli/archscribe/pkg/testimpact"
	"github.com/vinpuli/archscribe/pkg/typechange"
)

// signalBundle is every upstream signal computed over one ref-diff
// scope, composed by the risk, feature-attribution, and change-plan
// tools. Each sub-signal degrades independently: a failed signal sets
// its ok flag false and records a warning, mirroring pkg/risk.Inputs's
// own per-signal tolerance. The ok flags exist because a nil
// Breaking/TypeChanges slice is itself a valid zero-findings result,
// not evidence of failure.
type signalBundle struct {
	Change        gitdiff.Result
	Breaking      []breaking.Finding
	BreakingOK    bool
	TypeChanges   []typechange.Finding
	TypeChangesOK bool
	TestImpact    *testimpact.Result
	Warnings      []string
}

func classifyMode(req refDiffRequest) gitdiff.Options {
	mode := gitdiff.WorkingTree
	if req.BaseRef != "" {
		mode = gitdiff.RefDiff
	}

	return gitdiff.Options{
		Mode:             mode,
		BaseRef:          req.BaseRef,
		TargetRef:        req.TargetRef,
		IncludeUntracked: req.IncludeUntracked,
	}
}

// changedLanguageByPath detects each changed path's language from its
// extension alone: several changed files (deletions, or files outside
// the current ref) may not be readable from the working tree.
func changedLanguageByPath(changes gitdiff.Result) map[string]string {
	out := make(map[string]string)

	for _, group := range [][]gitdiff.FileChange{changes.Created, changes.Modified, changes.Deleted} {
		for _, c := range group {
			out[c.Path] = langdetect.DetectBytes(c.Path, nil).Language
		}
	}

	return out
}

func allChangedPaths(changes gitdiff.Result) []string {
	out := make([]string, 0, len(changes.Created)+len(changes.Modified)+len(changes.Deleted))
	for _, group := range [][]gitdiff.FileChange{changes.Created, changes.Modified, changes.Deleted} {
		for _, c := range group {
			out = append(out, c.Path)
		}
	}

	return out
}

// computeSignals runs the C8-C12 signal chain over req's ref-diff
// scope, rooted at req.DirectoryPath. maxDepth bounds the downstream
// test-impact trace; zero uses calltrace's default.
func computeSignals(ctx context.Context, req refDiffRequest, maxDepth int) (signalBundle, error) {
	var bundle signalBundle

	changes, err := gitdiff.Classify(ctx, req.DirectoryPath, classifyMode(req))
	if err != nil {
		return bundle, err
	}

	bundle.Change = changes

	langByPath := changedLanguageByPath(changes)

	loader := contractkernel.NewLoader(req.DirectoryPath)

	allChanges := append(append(append([]gitdiff.FileChange{}, changes.Created...), changes.Modified...), changes.Deleted...)

	breakingFindings, breakingErr := breaking.Detect(ctx, loader, allChanges, breaking.Options{
		BaseRef: req.BaseRef, TargetRef: req.TargetRef, LanguageByPath: langByPath,
	})
	if breakingErr != nil {
		bundle.Warnings = append(bundle.Warnings, "breaking change detection failed: "+breakingErr.Error())
	} else {
		bundle.Breaking = breakingFindings
		bundle.BreakingOK = true
	}

	typeFindings, typeErr := typechange.Analyze(ctx, loader, allChanges, typechange.Options{
		BaseRef: req.BaseRef, TargetRef: req.TargetRef, LanguageByPath: langByPath,
	})
	if typeErr != nil {
		bundle.Warnings = append(bundle.Warnings, "type-change analysis failed: "+typeErr.Error())
	} else {
		bundle.TypeChanges = typeFindings
		bundle.TypeChangesOK = true
	}

	allFiles, walkErr := walkDirectory(req.DirectoryPath, true, nil)
	if walkErr != nil {
		bundle.Warnings = append(bundle.Warnings, "repository walk failed: "+walkErr.Error())

		return bundle, nil
	}

	edges, paths, edgeErr := refinedEdges(req.DirectoryPath, true, nil)

	allPaths := paths
	if edgeErr != nil {
		allPaths = make([]string, 0, len(allFiles))
		for _, f := range allFiles {
			allPaths = append(allPaths, f.Path)
		}
	}

	impact := testimpact.Assess(testimpact.Options{
		ChangedPaths: allChangedPaths(changes),
		AllPaths:     allPaths,
		Edges:        edges,
		MaxDepth:     maxDepth,
	})
	bundle.TestImpact = &impact

	return bundle, nil
}

func aggregateRisk(bundle signalBundle) risk.Result {
	in := risk.Inputs{
		Change:           risk.ChangeInput{Result: &bundle.Change},
		BreakingFindings: bundle.Breaking,
		TypeFindings:     bundle.TypeChanges,
		TestImpact:       bundle.TestImpact,
	}

	if !bundle.BreakingOK {
		in.BreakingWarning = findWarning(bundle.Warnings, "breaking change detection failed")
	}

	if !bundle.TypeChangesOK {
		in.TypeWarning = findWarning(bundle.Warnings, "type-change analysis failed")
	}

	if bundle.TestImpact == nil {
		in.TestImpactWarning = findWarning(bundle.Warnings, "repository walk failed")
	}

	return risk.Aggregate(in)
}

// findWarning returns the first recorded warning beginning with
// prefix, or prefix itself if none was recorded (so a caller always
// gets a non-empty warning to report alongside a failed signal).
func findWarning(warnings []string, prefix string) string {
	for _, w := range warnings {
		if strings.HasPrefix(w, prefix) {
			return w
		}
	}

	return prefix
}
