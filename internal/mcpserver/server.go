package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vinpuli/archscribe/pkg/observability"
	"github.com/vinpuli/archscribe/pkg/toolschema"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "archscribe"
	// serverVersion is the MCP server implementation version.
	serverVersion = "1.0.0"

	// toolCount is the number of tools registered, one per toolschema.Name.
	toolCount = 18
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with archscribe's toolset registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
}

// NewServer creates a new MCP server with every toolschema.Name registered
// as an MCP tool, dispatched through pkg/toolset.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		opts,
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds every pkg/toolschema tool to the server.
func (s *Server) registerTools() {
	register(s, toolschema.NameDetectLanguage, detectLanguageDescription, handleDetectLanguage)
	register(s, toolschema.NameExtractFunctions, extractFunctionsDescription, handleExtractFunctions)
	register(s, toolschema.NameExtractImports, extractImportsDescription, handleExtractImports)
	register(s, toolschema.NameComputeMetrics, computeMetricsDescription, handleComputeMetrics)
	register(s, toolschema.NameAnalyzeTypeSummary, analyzeTypeSignatureDescription, handleAnalyzeTypeSignature)
	register(s, toolschema.NameAnalyzeDynamicRisk, analyzeDynamicRiskDescription, handleAnalyzeDynamicRisk)
	register(s, toolschema.NameScanDirectory, scanDirectoryDescription, handleScanDirectory)
	register(s, toolschema.NameBuildDependencyGraph, buildDependencyGraphDescription, handleBuildDependencyGraph)
	register(s, toolschema.NameClassifyGitChanges, classifyGitChangesDescription, handleClassifyGitChanges)
	register(s, toolschema.NameTraceDownstream, traceDownstreamDescription, handleTraceDownstream)
	register(s, toolschema.NameDetectBreaking, detectBreakingChangesDescription, handleDetectBreakingChanges)
	register(s, toolschema.NameAnalyzeTypeChanges, analyzeTypeChangesDescription, handleAnalyzeTypeChanges)
	register(s, toolschema.NameAssessTestImpact, assessTestImpactDescription, handleAssessTestImpact)
	register(s, toolschema.NameAggregateRisk, aggregateRiskDescription, handleAggregateRisk)
	register(s, toolschema.NameAttributeFeatures, attributeFeaturesDescription, handleAttributeFeatures)
	register(s, toolschema.NameInferArchitecture, inferArchitectureDescription, handleInferArchitecture)
	register(s, toolschema.NameRenderMermaid, renderMermaidDescription, handleRenderMermaid)
	register(s, toolschema.NameGenerateChangePlan, generateChangePlanDescription, handleGenerateChangePlan)
}

// register wires one MCP tool through the withMetrics/withTracing
// middleware chain.
func register[Input any](
	s *Server,
	name toolschema.Name,
	description string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        string(name),
		Description: description,
	}, withMetrics(s.metrics, string(name), withTracing(s.tracer, string(name), handler)))

	s.trackTool(string(name))
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, "mcp."+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordRequest(ctx, "mcp."+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants, one per toolschema.Name.
const (
	detectLanguageDescription = "Classify a file's programming language by extension, shebang, " +
		"or content-regex voting. Accepts a file path or inline base64 content."

	extractFunctionsDescription = "Extract function and class declarations from a source file " +
		"using per-language declaration patterns."

	extractImportsDescription = "Extract import/require/use statements from a source file."

	computeMetricsDescription = "Compute structural metrics (line counts, decision points, " +
		"cyclomatic complexity, maintainability index, line lengths) for a source file."

	analyzeTypeSignatureDescription = "Summarize a source file's type-annotation coverage " +
		"(explicit type ratio, typed symbols, function signatures, type definitions, generics, casts)."

	analyzeDynamicRiskDescription = "Flag dynamic/duck-typing constructs (reflection, eval, " +
		"dynamic attribute access) that weaken static guarantees."

	scanDirectoryDescription = "Walk a directory tree and aggregate file counts, sizes, and " +
		"complexity metrics by language and by directory."

	buildDependencyGraphDescription = "Walk a directory and build an import-derived dependency " +
		"graph with cycle detection."

	classifyGitChangesDescription = "Classify a Git diff's file changes into created/modified/deleted " +
		"buckets, scoped to a ref range or the working tree."

	traceDownstreamDescription = "Trace which files transitively depend on a set of seed paths " +
		"through the dependency graph, up to a max depth."

	detectBreakingChangesDescription = "Detect breaking API changes (removed/renamed exports, " +
		"signature changes) introduced by a Git diff."

	analyzeTypeChangesDescription = "Detect type-safety regressions (removed or changed typed functions, " +
		"symbols and type definitions, explicit-typing drops, cast and unsafe-type increases) introduced by a Git diff."

	assessTestImpactDescription = "Assess which tests are impacted by a Git diff by tracing " +
		"downstream dependents of the changed files."

	aggregateRiskDescription = "Aggregate breaking-change, type-change, and test-impact signals " +
		"for a Git diff into a single risk level and rationale."

	attributeFeaturesDescription = "Group a Git diff's file changes into feature-level buckets " +
		"by shared directory, breaking-change, and type-change signals."

	inferArchitectureDescription = "Infer a C4 context/container/component model and architectural " +
		"patterns from a directory's dependency graph."

	renderMermaidDescription = "Render a directory's inferred C4 context, container, and " +
		"component models as Mermaid diagrams."

	generateChangePlanDescription = "Generate a complete change plan (branch name, commit sequence, " +
		"rollout, migration, rollback, and feature-flag strategy) for an objective."
)
