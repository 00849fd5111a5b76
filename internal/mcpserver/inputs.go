// Package mcpserver exposes every archscribe tool from pkg/toolset as a
// Model Context Protocol tool over stdio transport: serverName,
// ServerDeps, and withMetrics/withTracing middleware wrap all eighteen
// tools pkg/toolschema registers.
package mcpserver

// Input types carry jsonschema struct tags so the MCP SDK can derive an
// advertised input schema by reflection. Runtime validation
// of the decoded arguments still goes through pkg/toolschema by way of
// toolset.New, which is the single source of truth for required fields
// and defaults; these tags exist for tool discovery, not enforcement.

// DetectLanguageInput is the input schema for the detect_language tool.
type DetectLanguageInput struct {
	Path          string `json:"path"                     jsonschema:"path of the file to classify"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"optional base64-encoded file content, used instead of reading path from disk"`
}

// fileToolInput is the shape shared by every single-file analysis tool.
type fileToolInput struct {
	Path          string `json:"path"                     jsonschema:"path of the file to analyze"`
	Language      string `json:"language"                 jsonschema:"language identifier returned by detect_language"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"optional base64-encoded file content, used instead of reading path from disk"`
}

// ExtractFunctionsInput is the input schema for the extract_functions tool.
type ExtractFunctionsInput struct {
	fileToolInput
}

// ExtractImportsInput is the input schema for the extract_imports tool.
type ExtractImportsInput struct {
	fileToolInput
}

// ComputeMetricsInput is the input schema for the compute_metrics tool.
type ComputeMetricsInput struct {
	fileToolInput
}

// AnalyzeTypeSignatureInput is the input schema for the analyze_type_signature tool.
type AnalyzeTypeSignatureInput struct {
	fileToolInput
}

// AnalyzeDynamicRiskInput is the input schema for the analyze_dynamic_risk tool.
type AnalyzeDynamicRiskInput struct {
	fileToolInput
}

// directoryToolInput is the shape shared by directory-scoped tools.
type directoryToolInput struct {
	DirectoryPath string   `json:"directory_path"        jsonschema:"root directory to scan"`
	Recursive     bool     `json:"recursive,omitempty"   jsonschema:"recurse into subdirectories, default true"`
	Extensions    []string `json:"extensions,omitempty"  jsonschema:"limit the scan to these file extensions"`
}

// ScanDirectoryInput is the input schema for the scan_directory tool.
type ScanDirectoryInput struct {
	directoryToolInput

	MaxFileSizeBytes int64 `json:"max_file_size_bytes,omitempty" jsonschema:"skip files larger than this size, default 5MB"`
}

// BuildDependencyGraphInput is the input schema for the build_dependency_graph tool.
type BuildDependencyGraphInput struct {
	directoryToolInput

	IncludeExternalDependencies bool `json:"include_external_dependencies,omitempty" jsonschema:"include third-party modules as graph nodes"`
}

// refDiffToolInput is the shape shared by every git-diff-driven tool.
type refDiffToolInput struct {
	DirectoryPath    string `json:"directory_path"          jsonschema:"repository root"`
	BaseRef          string `json:"base_ref,omitempty"      jsonschema:"base ref to diff from; empty means working tree"`
	TargetRef        string `json:"target_ref,omitempty"    jsonschema:"target ref to diff to; empty means working tree"`
	IncludeUntracked bool   `json:"include_untracked,omitempty" jsonschema:"include untracked working-tree files"`
}

// ClassifyGitChangesInput is the input schema for the classify_git_changes tool.
type ClassifyGitChangesInput struct {
	refDiffToolInput
}

// TraceDownstreamInput is the input schema for the trace_downstream_dependencies tool.
type TraceDownstreamInput struct {
	DirectoryPath string   `json:"directory_path"     jsonschema:"repository root"`
	Seeds         []string `json:"seeds"              jsonschema:"changed file paths to trace downstream from"`
	MaxDepth      int      `json:"max_depth,omitempty" jsonschema:"maximum trace depth, default 5"`
}

// DetectBreakingChangesInput is the input schema for the detect_breaking_changes tool.
type DetectBreakingChangesInput struct {
	refDiffToolInput

	MaxFindings int `json:"max_findings,omitempty" jsonschema:"cap on findings returned, default 200"`
}

// AnalyzeTypeChangesInput is the input schema for the analyze_type_changes tool.
type AnalyzeTypeChangesInput struct {
	refDiffToolInput

	MaxFindings int `json:"max_findings,omitempty" jsonschema:"cap on findings returned, default 200"`
}

// AssessTestImpactInput is the input schema for the assess_test_impact tool.
type AssessTestImpactInput struct {
	refDiffToolInput

	MaxDepth int `json:"max_depth,omitempty" jsonschema:"maximum downstream trace depth, default 5"`
}

// AggregateRiskInput is the input schema for the aggregate_risk tool.
type AggregateRiskInput struct {
	refDiffToolInput
}

// AttributeFeaturesInput is the input schema for the attribute_features tool.
type AttributeFeaturesInput struct {
	refDiffToolInput

	MaxFeatures int `json:"max_features,omitempty" jsonschema:"cap on attributed features returned, default 50"`
}

// InferArchitectureInput is the input schema for the infer_architecture tool.
type InferArchitectureInput struct {
	DirectoryPath string `json:"directory_path"        jsonschema:"repository root"`
	SystemName    string `json:"system_name,omitempty" jsonschema:"system name used as the C4 context root, default system"`
	Recursive     bool   `json:"recursive,omitempty"   jsonschema:"recurse into subdirectories, default true"`
}

// RenderMermaidInput is the input schema for the render_mermaid_diagrams tool.
type RenderMermaidInput struct {
	DirectoryPath string `json:"directory_path"        jsonschema:"repository root"`
	SystemName    string `json:"system_name,omitempty" jsonschema:"system name used as the C4 context root, default system"`
	Direction     string `json:"direction,omitempty"   jsonschema:"flowchart direction, LR or TB, default LR"`
}

// GenerateChangePlanInput is the input schema for the generate_change_plan tool.
type GenerateChangePlanInput struct {
	DirectoryPath            string   `json:"directory_path"                       jsonschema:"repository root"`
	Objective                string   `json:"objective"                            jsonschema:"one-sentence description of the change's intent"`
	TicketID                 string   `json:"ticket_id,omitempty"                  jsonschema:"tracker ticket id, embedded in the branch name and commits"`
	ChangeType               string   `json:"change_type,omitempty"                jsonschema:"one of breaking, hotfix, refactor, feature, fix, chore, exp"`
	BaseBranch               string   `json:"base_branch,omitempty"                jsonschema:"branch the change plan diffs against, default main"`
	DeploymentEnvironment    string   `json:"deployment_environment,omitempty"     jsonschema:"target deployment environment, default production"`
	Environments             []string `json:"environments,omitempty"               jsonschema:"ordered rollout environments"`
	IncludeCommandExamples   bool     `json:"include_command_examples,omitempty"   jsonschema:"include example git/CLI commands in the procedure, default true"`
	IncludeRollbackPlan      bool     `json:"include_rollback_plan,omitempty"      jsonschema:"include a rollback plan, default true"`
	IncludeDataSafetyChecks  bool     `json:"include_data_safety_checks,omitempty" jsonschema:"include a migration strategy, default true"`
	IncludeExperimentSupport bool     `json:"include_experiment_support,omitempty" jsonschema:"include a feature-flag strategy, default false"`
	FlagKeyPrefix            string   `json:"flag_key_prefix,omitempty"            jsonschema:"prefix for generated feature-flag keys"`
	MigrationTool            string   `json:"migration_tool,omitempty"             jsonschema:"migration tool name referenced by the migration strategy"`
	DatabaseEngine           string   `json:"database_engine,omitempty"            jsonschema:"database engine referenced by the migration strategy"`
	MaxPhases                int      `json:"max_phases,omitempty"                 jsonschema:"cap on rollout phases, default 5"`
}

// ToolOutput wraps every tool's envelope.Envelope as structured output.
type ToolOutput struct {
	Data any `json:"data"`
}
