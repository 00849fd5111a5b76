package commands

import (
	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// fileToolFlags holds the flags shared by every single-file tool.
type fileToolFlags struct {
	path          string
	language      string
	contentBase64 string
}

func (ff *fileToolFlags) register(cmd *cobra.Command, needsLanguage bool) {
	cmd.Flags().StringVar(&ff.path, "path", "", "path of the file to analyze (required)")
	cmd.Flags().StringVar(&ff.contentBase64, "content-base64", "", "base64-encoded file content, used instead of reading path from disk")

	if needsLanguage {
		cmd.Flags().StringVar(&ff.language, "language", "", "language identifier returned by detect-language (required)")
	}
}

func (ff *fileToolFlags) args() map[string]any {
	args := map[string]any{
		"path": ff.path,
	}
	if ff.contentBase64 != "" {
		args["content_base64"] = ff.contentBase64
	}

	if ff.language != "" {
		args["language"] = ff.language
	}

	return args
}

// NewAnalyzeCommand groups the file-scoped analysis tools (detect
// language through dynamic-risk analysis) under one parent command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run single-file analysis tools",
	}

	cmd.AddCommand(
		newDetectLanguageCommand(),
		newExtractFunctionsCommand(),
		newExtractImportsCommand(),
		newComputeMetricsCommand(),
		newTypeSignatureCommand(),
		newDynamicRiskCommand(),
	)

	return cmd
}

func newDetectLanguageCommand() *cobra.Command {
	var ff fileToolFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "detect-language",
		Short: "Classify a file's language from its path and content",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameDetectLanguage, ff.args(), &of)
		},
	}

	ff.register(cmd, false)
	of.Register(cmd)

	return cmd
}

func newExtractFunctionsCommand() *cobra.Command {
	var ff fileToolFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "extract-functions",
		Short: "Extract function and class declarations from a file",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameExtractFunctions, ff.args(), &of)
		},
	}

	ff.register(cmd, true)
	of.Register(cmd)

	return cmd
}

func newExtractImportsCommand() *cobra.Command {
	var ff fileToolFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "extract-imports",
		Short: "Extract import/require statements from a file",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameExtractImports, ff.args(), &of)
		},
	}

	ff.register(cmd, true)
	of.Register(cmd)

	return cmd
}

func newComputeMetricsCommand() *cobra.Command {
	var ff fileToolFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "compute-metrics",
		Short: "Compute size and complexity metrics for a file",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameComputeMetrics, ff.args(), &of)
		},
	}

	ff.register(cmd, true)
	of.Register(cmd)

	return cmd
}

func newTypeSignatureCommand() *cobra.Command {
	var ff fileToolFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "type-signature",
		Short: "Summarize a file's type annotations and signatures",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameAnalyzeTypeSummary, ff.args(), &of)
		},
	}

	ff.register(cmd, true)
	of.Register(cmd)

	return cmd
}

func newDynamicRiskCommand() *cobra.Command {
	var ff fileToolFlags

	var of OutputFlags

	cmd := &cobra.Command{
		Use:   "dynamic-risk",
		Short: "Flag duck-typing and reflection risk in a file",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runTool(cobraCmd.Context(), toolschema.NameAnalyzeDynamicRisk, ff.args(), &of)
		},
	}

	ff.register(cmd, true)
	of.Register(cmd)

	return cmd
}
