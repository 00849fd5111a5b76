package commands

import (
	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// refDiffFlags holds the flags shared by every git-diff-driven tool.
type refDiffFlags struct {
	directoryPath    string
	baseRef          string
	targetRef        string
	includeUntracked bool
}

func (rf *refDiffFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.directoryPath, "directory-path", ".", "repository root")
	cmd.Flags().StringVar(&rf.baseRef, "base-ref", "", "base ref to diff from; empty means working tree")
	cmd.Flags().StringVar(&rf.targetRef, "target-ref", "", "target ref to diff to; empty means working tree")
	cmd.Flags().BoolVar(&rf.includeUntracked, "include-untracked", false, "include untracked working-tree files")
}

func (rf *refDiffFlags) args() map[string]any {
	args := map[string]any{
		"directory_path":    rf.directoryPath,
		"include_untracked": rf.includeUntracked,
	}
	if rf.baseRef != "" {
		args["base_ref"] = rf.baseRef
	}

	if rf.targetRef != "" {
		args["target_ref"] = rf.targetRef
	}

	return args
}

// NewDiffCommand groups the git-diff-driven tools (change
// classification, breaking-change and type-change detection, test
// impact, risk aggregation, and feature attribution) under one parent
// command.
func NewDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Analyze a git diff for risk, breakage, and test impact",
	}

	cmd.AddCommand(
		newClassifyGitChangesCommand(),
		newDetectBreakingChangesCommand(),
		newAnalyzeTypeChangesCommand(),
		newAssessTestImpactCommand(),
		newAggregateRiskCommand(),
		newAttributeFeaturesCommand(),
	)

	return cmd
}

func newClassifyGitChangesCommand() *cobra.Command {
	var rf refDiffFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "classify-git-changes",
		Short: "Bucket a diff's changed files by kind (created/modified/deleted)",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameClassifyGitChanges, rf.args(), &of)
		},
	}

	rf.register(cmd)
	of.Register(cmd)

	return cmd
}

func newDetectBreakingChangesCommand() *cobra.Command {
	var rf refDiffFlags

	var maxFindings int

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "detect-breaking-changes",
		Short: "Detect signature and export-surface breaking changes in a diff",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := rf.args()
			args["max_findings"] = maxFindings

			return runTool(cobraCmd.Context(), toolschema.NameDetectBreaking, args, &of)
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&maxFindings, "max-findings", 200, "cap on findings returned")
	of.Register(cmd)

	return cmd
}

func newAnalyzeTypeChangesCommand() *cobra.Command {
	var rf refDiffFlags

	var maxFindings int

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "analyze-type-changes",
		Short: "Diff exported type signatures between two refs",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := rf.args()
			args["max_findings"] = maxFindings

			return runTool(cobraCmd.Context(), toolschema.NameAnalyzeTypeChanges, args, &of)
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&maxFindings, "max-findings", 200, "cap on findings returned")
	of.Register(cmd)

	return cmd
}

func newAssessTestImpactCommand() *cobra.Command {
	var rf refDiffFlags

	var maxDepth int

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "assess-test-impact",
		Short: "Trace a diff's changed files downstream into the tests that cover them",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := rf.args()
			args["max_depth"] = maxDepth

			return runTool(cobraCmd.Context(), toolschema.NameAssessTestImpact, args, &of)
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&maxDepth, "max-depth", 5, "maximum downstream trace depth")
	of.Register(cmd)

	return cmd
}

func newAggregateRiskCommand() *cobra.Command {
	var rf refDiffFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "aggregate-risk",
		Short: "Aggregate a diff's signals into a single risk assessment",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameAggregateRisk, rf.args(), &of)
		},
	}

	rf.register(cmd)
	of.Register(cmd)

	return cmd
}

func newAttributeFeaturesCommand() *cobra.Command {
	var rf refDiffFlags

	var maxFeatures int

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "attribute-features",
		Short: "Attribute a diff's changed files to the features they belong to",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := rf.args()
			args["max_features"] = maxFeatures

			return runTool(cobraCmd.Context(), toolschema.NameAttributeFeatures, args, &of)
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&maxFeatures, "max-features", 50, "cap on attributed features returned")
	of.Register(cmd)

	return cmd
}
