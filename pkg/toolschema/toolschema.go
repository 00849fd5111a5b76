// Package toolschema is the closed tool-name registry and JSON Schema
// validator for every tool's flat named-argument dictionary: each tool
// accepts a flat dictionary matching its declared input schema, with
// recognized options enumerated explicitly. It uses
// github.com/xeipuuv/gojsonschema to validate each tool's arguments
// against that tool's declared schema.
package toolschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Name is one of the closed set of tool identifiers. Unlike a bare
// string, every Name this package hands out is guaranteed to have a
// registered schema — see Names.
type Name string

// The closed tool set. Each corresponds to one tool
// operation; pkg/toolset's Request sum type has exactly one
// constructor per Name.
const (
	NameDetectLanguage       Name = "detect_language"
	NameExtractFunctions     Name = "extract_functions"
	NameExtractImports       Name = "extract_imports"
	NameComputeMetrics       Name = "compute_metrics"
	NameAnalyzeTypeSummary   Name = "analyze_type_signature"
	NameAnalyzeDynamicRisk   Name = "analyze_dynamic_risk"
	NameScanDirectory        Name = "scan_directory"
	NameBuildDependencyGraph Name = "build_dependency_graph"
	NameClassifyGitChanges   Name = "classify_git_changes"
	NameTraceDownstream      Name = "trace_downstream_dependencies"
	NameDetectBreaking       Name = "detect_breaking_changes"
	NameAnalyzeTypeChanges   Name = "analyze_type_changes"
	NameAssessTestImpact     Name = "assess_test_impact"
	NameAggregateRisk        Name = "aggregate_risk"
	NameAttributeFeatures    Name = "attribute_features"
	NameInferArchitecture    Name = "infer_architecture"
	NameRenderMermaid        Name = "render_mermaid_diagrams"
	NameGenerateChangePlan   Name = "generate_change_plan"
)

// Names lists every registered tool name, sorted by declaration order
// above (component order), for catalog/listing endpoints.
func Names() []Name {
	out := make([]Name, len(order))
	copy(out, order)

	return out
}

var order = []Name{
	NameDetectLanguage,
	NameExtractFunctions,
	NameExtractImports,
	NameComputeMetrics,
	NameAnalyzeTypeSummary,
	NameAnalyzeDynamicRisk,
	NameScanDirectory,
	NameBuildDependencyGraph,
	NameClassifyGitChanges,
	NameTraceDownstream,
	NameDetectBreaking,
	NameAnalyzeTypeChanges,
	NameAssessTestImpact,
	NameAggregateRisk,
	NameAttributeFeatures,
	NameInferArchitecture,
	NameRenderMermaid,
	NameGenerateChangePlan,
}

// schemas holds one JSON Schema document per tool, covering exactly
// the named-argument fields recognized for that family of
// tool (directory_path/recursive/extensions for file-scoped tools,
// base_ref/target_ref/include_untracked for diff-driven tools,
// max_* bounds, and the planning-specific fields).
var schemas = map[Name]string{
	NameDetectLanguage: `{
		"type": "object",
		"required": ["path"],
		"properties": {
			"path": {"type": "string", "minLength": 1},
			"content_base64": {"type": "string"}
		}
	}`,
	NameExtractFunctions: `{
		"type": "object",
		"required": ["path", "language"],
		"properties": {
			"path": {"type": "string", "minLength": 1},
			"language": {"type": "string", "minLength": 1},
			"content_base64": {"type": "string"}
		}
	}`,
	NameExtractImports: `{
		"type": "object",
		"required": ["path", "language"],
		"properties": {
			"path": {"type": "string", "minLength": 1},
			"language": {"type": "string", "minLength": 1},
			"content_base64": {"type": "string"}
		}
	}`,
	NameComputeMetrics: `{
		"type": "object",
		"required": ["path", "language"],
		"properties": {
			"path": {"type": "string", "minLength": 1},
			"language": {"type": "string", "minLength": 1},
			"content_base64": {"type": "string"}
		}
	}`,
	NameAnalyzeTypeSummary: `{
		"type": "object",
		"required": ["path", "language"],
		"properties": {
			"path": {"type": "string", "minLength": 1},
			"language": {"type": "string", "minLength": 1},
			"content_base64": {"type": "string"}
		}
	}`,
	NameAnalyzeDynamicRisk: `{
		"type": "object",
		"required": ["path", "language"],
		"properties": {
			"path": {"type": "string", "minLength": 1},
			"language": {"type": "string", "minLength": 1},
			"content_base64": {"type": "string"}
		}
	}`,
	NameScanDirectory: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"recursive": {"type": "boolean", "default": true},
			"extensions": {"type": "array", "items": {"type": "string"}},
			"max_file_size_bytes": {"type": "integer", "minimum": 1}
		}
	}`,
	NameBuildDependencyGraph: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"recursive": {"type": "boolean", "default": true},
			"extensions": {"type": "array", "items": {"type": "string"}},
			"include_external_dependencies": {"type": "boolean", "default": false}
		}
	}`,
	NameClassifyGitChanges: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"base_ref": {"type": "string"},
			"target_ref": {"type": "string"},
			"include_untracked": {"type": "boolean", "default": false}
		}
	}`,
	NameTraceDownstream: `{
		"type": "object",
		"required": ["directory_path", "seeds"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"seeds": {"type": "array", "items": {"type": "string"}, "minItems": 1},
			"max_depth": {"type": "integer", "default": 5, "minimum": 1}
		}
	}`,
	NameDetectBreaking: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"base_ref": {"type": "string"},
			"target_ref": {"type": "string"},
			"max_findings": {"type": "integer", "default": 200, "minimum": 1}
		}
	}`,
	NameAnalyzeTypeChanges: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"base_ref": {"type": "string"},
			"target_ref": {"type": "string"},
			"max_findings": {"type": "integer", "default": 200, "minimum": 1}
		}
	}`,
	NameAssessTestImpact: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"base_ref": {"type": "string"},
			"target_ref": {"type": "string"},
			"max_depth": {"type": "integer", "default": 5, "minimum": 1}
		}
	}`,
	NameAggregateRisk: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"base_ref": {"type": "string"},
			"target_ref": {"type": "string"}
		}
	}`,
	NameAttributeFeatures: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"base_ref": {"type": "string"},
			"target_ref": {"type": "string"},
			"max_features": {"type": "integer", "default": 50, "minimum": 1}
		}
	}`,
	NameInferArchitecture: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"system_name": {"type": "string", "default": "system"},
			"recursive": {"type": "boolean", "default": true}
		}
	}`,
	NameRenderMermaid: `{
		"type": "object",
		"required": ["directory_path"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"system_name": {"type": "string", "default": "system"},
			"direction": {"type": "string", "enum": ["LR", "TB"], "default": "LR"}
		}
	}`,
	NameGenerateChangePlan: `{
		"type": "object",
		"required": ["directory_path", "objective"],
		"properties": {
			"directory_path": {"type": "string", "default": "."},
			"objective": {"type": "string", "minLength": 1},
			"ticket_id": {"type": "string"},
			"change_type": {"type": "string"},
			"base_branch": {"type": "string", "default": "main"},
			"deployment_environment": {"type": "string", "default": "production"},
			"environments": {"type": "array", "items": {"type": "string"}},
			"include_command_examples": {"type": "boolean", "default": true},
			"include_rollback_plan": {"type": "boolean", "default": true},
			"include_data_safety_checks": {"type": "boolean", "default": true},
			"include_experiment_support": {"type": "boolean", "default": false},
			"flag_key_prefix": {"type": "string"},
			"migration_tool": {"type": "string"},
			"database_engine": {"type": "string"},
			"max_phases": {"type": "integer", "default": 5, "minimum": 1}
		}
	}`,
}

var loaders = map[Name]gojsonschema.JSONLoader{}

func init() {
	for name, doc := range schemas {
		loaders[name] = gojsonschema.NewStringLoader(doc)
	}
}

// ErrUnknownTool is returned when a caller names a tool outside the
// closed Name set.
var ErrUnknownTool = errors.New("toolschema: unknown tool")

// Validate checks args against name's registered JSON Schema,
// returning a single error joining every schema violation when args
// is invalid, or nil when it conforms.
func Validate(name Name, args map[string]any) error {
	loader, ok := loaders[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}

	result, err := gojsonschema.Validate(loader, gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("toolschema: validating %s: %w", name, err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		messages = append(messages, verr.String())
	}

	return fmt.Errorf("toolschema: %s: %s", name, strings.Join(messages, "; "))
}

// Schema returns the raw JSON Schema document registered for name, as
// a decoded map, for callers (e.g. an MCP tool listing) that need to
// advertise input schemas rather than just validate against them.
func Schema(name Name) (map[string]any, bool) {
	doc, ok := schemas[name]
	if !ok {
		return nil, false
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(doc), &decoded); err != nil {
		return nil, false
	}

	return decoded, true
}
