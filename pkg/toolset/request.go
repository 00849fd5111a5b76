// Package toolset turns dynamic dispatch-by-name into a sum-typed
// request: the closed tool set becomes a Request interface with
// exactly one constructor per toolschema.Name, so an unrecognized
// tool name is rejected at construction time by New (which validates
// against pkg/toolschema) rather than discovered by a runtime map
// lookup deep inside Dispatch. Dispatch then type-switches over the
// concrete Request, the Go analogue of a tagged union match.
package toolset

import (
	"fmt"

	"github.com/vinpuli/archscribe/pkg/mermaid"
	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// Request is implemented by every concrete per-tool request type.
// Kind identifies which arm of Dispatch's type switch handles it.
type Request interface {
	Kind() toolschema.Name
}

// DetectLanguageRequest is C1's request: classify one file's language.
type DetectLanguageRequest struct {
	Path          string
	ContentBase64 string
}

func (DetectLanguageRequest) Kind() toolschema.Name { return toolschema.NameDetectLanguage }

// fileRequest is the shape shared by C3/C4/C5's single-file tools.
type fileRequest struct {
	Path          string
	Language      string
	ContentBase64 string
}

// ExtractFunctionsRequest is C3's function/class extraction request.
type ExtractFunctionsRequest struct{ fileRequest }

func (ExtractFunctionsRequest) Kind() toolschema.Name { return toolschema.NameExtractFunctions }

// ExtractImportsRequest is C3's import extraction request.
type ExtractImportsRequest struct{ fileRequest }

func (ExtractImportsRequest) Kind() toolschema.Name { return toolschema.NameExtractImports }

// ComputeMetricsRequest is C3's per-file metrics request.
type ComputeMetricsRequest struct{ fileRequest }

func (ComputeMetricsRequest) Kind() toolschema.Name { return toolschema.NameComputeMetrics }

// AnalyzeTypeSignatureRequest is C4's type-signature summary request.
type AnalyzeTypeSignatureRequest struct{ fileRequest }

func (AnalyzeTypeSignatureRequest) Kind() toolschema.Name { return toolschema.NameAnalyzeTypeSummary }

// AnalyzeDynamicRiskRequest is C5's dynamic/duck-typing risk request.
type AnalyzeDynamicRiskRequest struct{ fileRequest }

func (AnalyzeDynamicRiskRequest) Kind() toolschema.Name { return toolschema.NameAnalyzeDynamicRisk }

// directoryRequest is the shape shared by every directory-scoped tool.
type directoryRequest struct {
	DirectoryPath string
	Recursive     bool
	Extensions    []string
}

// ScanDirectoryRequest is C6's request: walk a directory tree and
// aggregate per-language and per-directory summaries.
type ScanDirectoryRequest struct {
	directoryRequest

	MaxFileSizeBytes int64
}

func (ScanDirectoryRequest) Kind() toolschema.Name { return toolschema.NameScanDirectory }

// BuildDependencyGraphRequest is C7's request.
type BuildDependencyGraphRequest struct {
	directoryRequest

	IncludeExternalDependencies bool
}

func (BuildDependencyGraphRequest) Kind() toolschema.Name { return toolschema.NameBuildDependencyGraph }

// refDiffRequest is the shape shared by every git-diff-driven tool.
type refDiffRequest struct {
	DirectoryPath    string
	BaseRef          string
	TargetRef        string
	IncludeUntracked bool
}

// ClassifyGitChangesRequest is C8's request.
type ClassifyGitChangesRequest struct{ refDiffRequest }

func (ClassifyGitChangesRequest) Kind() toolschema.Name { return toolschema.NameClassifyGitChanges }

// TraceDownstreamRequest is C9's request.
type TraceDownstreamRequest struct {
	DirectoryPath string
	Seeds         []string
	MaxDepth      int
}

func (TraceDownstreamRequest) Kind() toolschema.Name { return toolschema.NameTraceDownstream }

// DetectBreakingChangesRequest is C10's request.
type DetectBreakingChangesRequest struct {
	refDiffRequest

	MaxFindings int
}

func (DetectBreakingChangesRequest) Kind() toolschema.Name { return toolschema.NameDetectBreaking }

// AnalyzeTypeChangesRequest is C11's request.
type AnalyzeTypeChangesRequest struct {
	refDiffRequest

	MaxFindings int
}

func (AnalyzeTypeChangesRequest) Kind() toolschema.Name { return toolschema.NameAnalyzeTypeChanges }

// AssessTestImpactRequest is C12's request.
type AssessTestImpactRequest struct {
	refDiffRequest

	MaxDepth int
}

func (AssessTestImpactRequest) Kind() toolschema.Name { return toolschema.NameAssessTestImpact }

// AggregateRiskRequest is C13's request.
type AggregateRiskRequest struct{ refDiffRequest }

func (AggregateRiskRequest) Kind() toolschema.Name { return toolschema.NameAggregateRisk }

// AttributeFeaturesRequest is C14's request.
type AttributeFeaturesRequest struct {
	refDiffRequest

	MaxFeatures int
}

func (AttributeFeaturesRequest) Kind() toolschema.Name { return toolschema.NameAttributeFeatures }

// InferArchitectureRequest is C15's component-inventory/pattern/C4
// request.
type InferArchitectureRequest struct {
	DirectoryPath string
	SystemName    string
	Recursive     bool
}

func (InferArchitectureRequest) Kind() toolschema.Name { return toolschema.NameInferArchitecture }

// RenderMermaidRequest is the Mermaid-rendering request.
type RenderMermaidRequest struct {
	DirectoryPath string
	SystemName    string
	Direction     mermaid.Direction
}

func (RenderMermaidRequest) Kind() toolschema.Name { return toolschema.NameRenderMermaid }

// GenerateChangePlanRequest is C16's composite change-planning
// request.
type GenerateChangePlanRequest struct {
	DirectoryPath            string
	Objective                string
	TicketID                 string
	ChangeType               string
	BaseBranch               string
	DeploymentEnvironment    string
	Environments             []string
	IncludeCommandExamples   bool
	IncludeRollbackPlan      bool
	IncludeDataSafetyChecks  bool
	IncludeExperimentSupport bool
	FlagKeyPrefix            string
	MigrationTool            string
	DatabaseEngine           string
	MaxPhases                int
}

func (GenerateChangePlanRequest) Kind() toolschema.Name { return toolschema.NameGenerateChangePlan }

// New validates args against name's registered schema and builds the
// matching concrete Request. An unrecognized name or a schema
// violation is returned as an error — never a panic — so a caller
// driving this from an external wire format (CLI flags, MCP tool
// call) gets the same validation an in-process caller would.
func New(name toolschema.Name, args map[string]any) (Request, error) {
	if err := toolschema.Validate(name, args); err != nil {
		return nil, err
	}

	switch name {
	case toolschema.NameDetectLanguage:
		return DetectLanguageRequest{
			Path:          str(args, "path", ""),
			ContentBase64: str(args, "content_base64", ""),
		}, nil

	case toolschema.NameExtractFunctions:
		return ExtractFunctionsRequest{newFileRequest(args)}, nil

	case toolschema.NameExtractImports:
		return ExtractImportsRequest{newFileRequest(args)}, nil

	case toolschema.NameComputeMetrics:
		return ComputeMetricsRequest{newFileRequest(args)}, nil

	case toolschema.NameAnalyzeTypeSummary:
		return AnalyzeTypeSignatureRequest{newFileRequest(args)}, nil

	case toolschema.NameAnalyzeDynamicRisk:
		return AnalyzeDynamicRiskRequest{newFileRequest(args)}, nil

	case toolschema.NameScanDirectory:
		return ScanDirectoryRequest{
			directoryRequest: newDirectoryRequest(args),
			MaxFileSizeBytes: int64(integer(args, "max_file_size_bytes", 0)),
		}, nil

	case toolschema.NameBuildDependencyGraph:
		return BuildDependencyGraphRequest{
			directoryRequest:            newDirectoryRequest(args),
			IncludeExternalDependencies: boolean(args, "include_external_dependencies", false),
		}, nil

	case toolschema.NameClassifyGitChanges:
		return ClassifyGitChangesRequest{newRefDiffRequest(args)}, nil

	case toolschema.NameTraceDownstream:
		return TraceDownstreamRequest{
			DirectoryPath: str(args, "directory_path", "."),
			Seeds:         strSlice(args, "seeds"),
			MaxDepth:      integer(args, "max_depth", 5),
		}, nil

	case toolschema.NameDetectBreaking:
		return DetectBreakingChangesRequest{
			refDiffRequest: newRefDiffRequest(args),
			MaxFindings:    integer(args, "max_findings", 200),
		}, nil

	case toolschema.NameAnalyzeTypeChanges:
		return AnalyzeTypeChangesRequest{
			refDiffRequest: newRefDiffRequest(args),
			MaxFindings:    integer(args, "max_findings", 200),
		}, nil

	case toolschema.NameAssessTestImpact:
		return AssessTestImpactRequest{
			refDiffRequest: newRefDiffRequest(args),
			MaxDepth:       integer(args, "max_depth", 5),
		}, nil

	case toolschema.NameAggregateRisk:
		return AggregateRiskRequest{newRefDiffRequest(args)}, nil

	case toolschema.NameAttributeFeatures:
		return AttributeFeaturesRequest{
			refDiffRequest: newRefDiffRequest(args),
			MaxFeatures:    integer(args, "max_features", 50),
		}, nil

	case toolschema.NameInferArchitecture:
		return InferArchitectureRequest{
			DirectoryPath: str(args, "directory_path", "."),
			SystemName:    str(args, "system_name", "system"),
			Recursive:     boolean(args, "recursive", true),
		}, nil

	case toolschema.NameRenderMermaid:
		return RenderMermaidRequest{
			DirectoryPath: str(args, "directory_path", "."),
			SystemName:    str(args, "system_name", "system"),
			Direction:     mermaid.Direction(str(args, "direction", string(mermaid.LeftRight))),
		}, nil

	case toolschema.NameGenerateChangePlan:
		return GenerateChangePlanRequest{
			DirectoryPath:            str(args, "directory_path", "."),
			Objective:                str(args, "objective", ""),
			TicketID:                 str(args, "ticket_id", ""),
			ChangeType:               str(args, "change_type", ""),
			BaseBranch:               str(args, "base_branch", "main"),
			DeploymentEnvironment:    str(args, "deployment_environment", "production"),
			Environments:             strSlice(args, "environments"),
			IncludeCommandExamples:   boolean(args, "include_command_examples", true),
			IncludeRollbackPlan:      boolean(args, "include_rollback_plan", true),
			IncludeDataSafetyChecks:  boolean(args, "include_data_safety_checks", true),
			IncludeExperimentSupport: boolean(args, "include_experiment_support", false),
			FlagKeyPrefix:            str(args, "flag_key_prefix", ""),
			MigrationTool:            str(args, "migration_tool", ""),
			DatabaseEngine:           str(args, "database_engine", ""),
			MaxPhases:                integer(args, "max_phases", 5),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s", toolschema.ErrUnknownTool, name)
	}
}

func newFileRequest(args map[string]any) fileRequest {
	return fileRequest{
		Path:          str(args, "path", ""),
		Language:      str(args, "language", ""),
		ContentBase64: str(args, "content_base64", ""),
	}
}

func newDirectoryRequest(args map[string]any) directoryRequest {
	return directoryRequest{
		DirectoryPath: str(args, "directory_path", "."),
		Recursive:     boolean(args, "recursive", true),
		Extensions:    strSlice(args, "extensions"),
	}
}

func newRefDiffRequest(args map[string]any) refDiffRequest {
	return refDiffRequest{
		DirectoryPath:    str(args, "directory_path", "."),
		BaseRef:          str(args, "base_ref", ""),
		TargetRef:        str(args, "target_ref", ""),
		IncludeUntracked: boolean(args, "include_untracked", false),
	}
}

func str(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}

	return fallback
}

func boolean(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}

	return fallback
}

func integer(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func strSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))

	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
