package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vinpuli/archscribe/pkg/envelope"
	"github.com/vinpuli/archscribe/pkg/toolschema"
	"github.com/vinpuli/archscribe/pkg/toolset"
)

// callTool is the shared body behind every handleX function: it turns a
// typed Input struct into the flat argument map toolset.New validates
// and constructs from, dispatches the resulting Request, and renders
// the envelope as the tool's result. This keeps pkg/toolschema, not a
// second copy of field names here, as the single source of truth for
// what's required and what defaults apply.
func callTool(ctx context.Context, name toolschema.Name, input any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return errorResult(fmt.Errorf("encode %s input: %w", name, err))
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("decode %s input: %w", name, err))
	}

	req, err := toolset.New(name, args)
	if err != nil {
		return errorResult(err)
	}

	env := toolset.Dispatch(ctx, req)

	return envelopeResult(env)
}

// errorResult builds a CallToolResult with isError set, for failures
// that happen before a Request could be dispatched (bad input
// encoding, schema validation).
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// envelopeResult renders a dispatched envelope.Envelope as the tool's
// result. A StatusError envelope is a successful MCP call carrying an
// error payload, not a transport-level failure, except it also sets
// CallToolResult.IsError so callers that only check that flag still
// see it.
func envelopeResult(env envelope.Envelope) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	result := &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
		IsError: !env.OK(),
	}

	return result, ToolOutput{Data: env}, nil
}

func handleDetectLanguage(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input DetectLanguageInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameDetectLanguage, input)
}

func handleExtractFunctions(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ExtractFunctionsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameExtractFunctions, input)
}

func handleExtractImports(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ExtractImportsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameExtractImports, input)
}

func handleComputeMetrics(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ComputeMetricsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameComputeMetrics, input)
}

func handleAnalyzeTypeSignature(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AnalyzeTypeSignatureInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameAnalyzeTypeSummary, input)
}

func handleAnalyzeDynamicRisk(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AnalyzeDynamicRiskInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameAnalyzeDynamicRisk, input)
}

func handleScanDirectory(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ScanDirectoryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameScanDirectory, input)
}

func handleBuildDependencyGraph(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input BuildDependencyGraphInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameBuildDependencyGraph, input)
}

func handleClassifyGitChanges(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ClassifyGitChangesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameClassifyGitChanges, input)
}

func handleTraceDownstream(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input TraceDownstreamInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameTraceDownstream, input)
}

func handleDetectBreakingChanges(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input DetectBreakingChangesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameDetectBreaking, input)
}

func handleAnalyzeTypeChanges(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AnalyzeTypeChangesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameAnalyzeTypeChanges, input)
}

func handleAssessTestImpact(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AssessTestImpactInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameAssessTestImpact, input)
}

func handleAggregateRisk(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AggregateRiskInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameAggregateRisk, input)
}

func handleAttributeFeatures(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input AttributeFeaturesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameAttributeFeatures, input)
}

func handleInferArchitecture(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input InferArchitectureInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameInferArchitecture, input)
}

func handleRenderMermaid(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input RenderMermaidInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameRenderMermaid, input)
}

func handleGenerateChangePlan(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input GenerateChangePlanInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return callTool(ctx, toolschema.NameGenerateChangePlan, input)
}
