package toolset

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/arch"
	"github.com/vinpuli/archscribe/pkg/breaking"
	"github.com/vinpuli/archscribe/pkg/calltrace"
	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/depgraph"
	"github.com/vinpuli/archscribe/pkg/dynrisk"
	"github.com/vinpuli/archscribe/pkg/envelope"
	"github.com/vinpuli/archscribe/pkg/extract"
	"github.com/vinpuli/archscribe/pkg/feature"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
	"github.com/vinpuli/archscribe/pkg/langdetect"
	"github.com/vinpuli/archscribe/pkg/mermaid"
	"github.com/vinpuli/archscribe/pkg/plangen"
	"github.com/vinpuli/archscribe/pkg/scan"
	"github.com/vinpuli/archscribe/pkg/typechange"
	"github.com/vinpuli/archscribe/pkg/typesig"
)

// Dispatch routes req to the real library call its Kind names and
// wraps the result in an envelope.Envelope. It never panics across its
// public boundary: a recovered panic becomes an error envelope, since
// every tool must catch unexpected exceptions at its own boundary.
func Dispatch(ctx context.Context, req Request) (result envelope.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			result = envelope.Errorf("panic in %s: %v", req.Kind(), r)
		}
	}()

	switch r := req.(type) {
	case DetectLanguageRequest:
		return dispatchDetectLanguage(r)
	case ExtractFunctionsRequest:
		return dispatchExtractFunctions(r)
	case ExtractImportsRequest:
		return dispatchExtractImports(r)
	case ComputeMetricsRequest:
		return dispatchComputeMetrics(r)
	case AnalyzeTypeSignatureRequest:
		return dispatchAnalyzeTypeSignature(r)
	case AnalyzeDynamicRiskRequest:
		return dispatchAnalyzeDynamicRisk(r)
	case ScanDirectoryRequest:
		return dispatchScanDirectory(r)
	case BuildDependencyGraphRequest:
		return dispatchBuildDependencyGraph(r)
	case ClassifyGitChangesRequest:
		return dispatchClassifyGitChanges(ctx, r)
	case TraceDownstreamRequest:
		return dispatchTraceDownstream(r)
	case DetectBreakingChangesRequest:
		return dispatchDetectBreaking(ctx, r)
	case AnalyzeTypeChangesRequest:
		return dispatchAnalyzeTypeChanges(ctx, r)
	case AssessTestImpactRequest:
		return dispatchAssessTestImpact(ctx, r)
	case AggregateRiskRequest:
		return dispatchAggregateRisk(ctx, r)
	case AttributeFeaturesRequest:
		return dispatchAttributeFeatures(ctx, r)
	case InferArchitectureRequest:
		return dispatchInferArchitecture(r)
	case RenderMermaidRequest:
		return dispatchRenderMermaid(r)
	case GenerateChangePlanRequest:
		return dispatchGenerateChangePlan(ctx, r)
	default:
		return envelope.Errorf("toolset: no dispatch handler for %s", req.Kind())
	}
}

// loadContent resolves a request's bytes: an inline content_base64
// wins, otherwise path is read from disk.
func loadContent(path, contentBase64 string) ([]byte, error) {
	if contentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(contentBase64)
		if err != nil {
			return nil, fmt.Errorf("decoding content_base64: %w", err)
		}

		return decoded, nil
	}

	content, err := os.ReadFile(path) //nolint:gosec // path is caller-supplied tool input, the same trust boundary as every file-scoped tool
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return content, nil
}

// asData flattens a JSON-tagged value into a map[string]any for
// envelope.Success, so every dispatch handler returns the same shape
// its JSON tags already describe instead of hand-listing fields twice.
func asData(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"value": fmt.Sprintf("%v", v)}
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{"value": fmt.Sprintf("%v", v)}
	}

	return out
}

func dispatchDetectLanguage(r DetectLanguageRequest) envelope.Envelope {
	if r.ContentBase64 != "" {
		content, err := loadContent(r.Path, r.ContentBase64)
		if err != nil {
			return envelope.FromError(err)
		}

		return envelope.Success(asData(langdetect.DetectBytes(r.Path, content)))
	}

	return envelope.Success(asData(langdetect.Detect(r.Path)))
}

func dispatchExtractFunctions(r ExtractFunctionsRequest) envelope.Envelope {
	content, err := loadContent(r.Path, r.ContentBase64)
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(map[string]any{"declarations": extract.Functions(r.Language, content)})
}

func dispatchExtractImports(r ExtractImportsRequest) envelope.Envelope {
	content, err := loadContent(r.Path, r.ContentBase64)
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(map[string]any{"imports": extract.Imports(r.Language, content)})
}

func dispatchComputeMetrics(r ComputeMetricsRequest) envelope.Envelope {
	content, err := loadContent(r.Path, r.ContentBase64)
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(asData(extract.ComputeMetrics(r.Language, content)))
}

func dispatchAnalyzeTypeSignature(r AnalyzeTypeSignatureRequest) envelope.Envelope {
	content, err := loadContent(r.Path, r.ContentBase64)
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(asData(typesig.Analyze(r.Language, content)))
}

func dispatchAnalyzeDynamicRisk(r AnalyzeDynamicRiskRequest) envelope.Envelope {
	content, err := loadContent(r.Path, r.ContentBase64)
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(asData(dynrisk.Analyze(r.Language, content)))
}

func dispatchScanDirectory(r ScanDirectoryRequest) envelope.Envelope {
	result, err := scan.Walk(scan.Options{
		Root:             r.DirectoryPath,
		Recursive:        r.Recursive,
		Extensions:       r.Extensions,
		MaxFileSizeBytes: r.MaxFileSizeBytes,
	})
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(asData(result))
}

func dispatchBuildDependencyGraph(r BuildDependencyGraphRequest) envelope.Envelope {
	graph, _, err := buildDependencyGraph(r.DirectoryPath, r.Recursive, r.Extensions, r.IncludeExternalDependencies)
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(asData(graph))
}

func dispatchClassifyGitChanges(ctx context.Context, r ClassifyGitChangesRequest) envelope.Envelope {
	changes, err := gitdiff.Classify(ctx, r.DirectoryPath, classifyMode(r.refDiffRequest))
	if err != nil {
		return envelope.FromError(err)
	}

	return envelope.Success(asData(changes))
}

func dispatchTraceDownstream(r TraceDownstreamRequest) envelope.Envelope {
	edges, _, err := refinedEdges(r.DirectoryPath, true, nil)
	if err != nil {
		return envelope.FromError(err)
	}

	dependents := calltrace.Trace(edges, calltrace.Options{Seeds: r.Seeds, MaxDepth: r.MaxDepth})

	return envelope.Success(map[string]any{"dependents": dependents})
}

func dispatchDetectBreaking(ctx context.Context, r DetectBreakingChangesRequest) envelope.Envelope {
	changes, err := gitdiff.Classify(ctx, r.DirectoryPath, classifyMode(r.refDiffRequest))
	if err != nil {
		return envelope.FromError(err)
	}

	loader := contractkernel.NewLoader(r.DirectoryPath)
	allChanges := allFileChanges(changes)
	langByPath := changedLanguageByPath(changes)

	findings, err := breaking.Detect(ctx, loader, allChanges, breaking.Options{
		BaseRef: r.BaseRef, TargetRef: r.TargetRef, LanguageByPath: langByPath,
	})
	if err != nil {
		return envelope.FromError(err)
	}

	findings, truncated := truncateBreaking(findings, r.MaxFindings)
	env := envelope.Success(map[string]any{"findings": findings})

	if truncated {
		env = env.WithWarning(fmt.Sprintf("truncated to max_findings=%d", r.MaxFindings))
	}

	return env
}

func dispatchAnalyzeTypeChanges(ctx context.Context, r AnalyzeTypeChangesRequest) envelope.Envelope {
	changes, err := gitdiff.Classify(ctx, r.DirectoryPath, classifyMode(r.refDiffRequest))
	if err != nil {
		return envelope.FromError(err)
	}

	loader := contractkernel.NewLoader(r.DirectoryPath)
	allChanges := allFileChanges(changes)
	langByPath := changedLanguageByPath(changes)

	findings, err := typechange.Analyze(ctx, loader, allChanges, typechange.Options{
		BaseRef: r.BaseRef, TargetRef: r.TargetRef, LanguageByPath: langByPath,
	})
	if err != nil {
		return envelope.FromError(err)
	}

	findings, truncated := truncateTypeChanges(findings, r.MaxFindings)
	env := envelope.Success(map[string]any{"findings": findings})

	if truncated {
		env = env.WithWarning(fmt.Sprintf("truncated to max_findings=%d", r.MaxFindings))
	}

	return env
}

func dispatchAssessTestImpact(ctx context.Context, r AssessTestImpactRequest) envelope.Envelope {
	bundle, err := computeSignals(ctx, r.refDiffRequest, r.MaxDepth)
	if err != nil {
		return envelope.FromError(err)
	}

	if bundle.TestImpact == nil {
		return envelope.Errorf("assess_test_impact: %s", findWarning(bundle.Warnings, "repository walk failed"))
	}

	env := envelope.Success(asData(*bundle.TestImpact))
	for _, w := range bundle.Warnings {
		env = env.WithWarning(w)
	}

	return env
}

func dispatchAggregateRisk(ctx context.Context, r AggregateRiskRequest) envelope.Envelope {
	bundle, err := computeSignals(ctx, r.refDiffRequest, 0)
	if err != nil {
		return envelope.FromError(err)
	}

	result := aggregateRisk(bundle)
	env := envelope.Success(asData(result))

	for _, w := range bundle.Warnings {
		env = env.WithWarning(w)
	}

	return env
}

func dispatchAttributeFeatures(ctx context.Context, r AttributeFeaturesRequest) envelope.Envelope {
	bundle, err := computeSignals(ctx, r.refDiffRequest, 0)
	if err != nil {
		return envelope.FromError(err)
	}

	var coverageGaps []string
	if bundle.TestImpact != nil {
		coverageGaps = bundle.TestImpact.CoverageGaps
	}

	buckets := feature.Attribute(feature.Inputs{
		Changes:      allFileChanges(bundle.Change),
		Breaking:     bundle.Breaking,
		TypeSafety:   bundle.TypeChanges,
		CoverageGaps: coverageGaps,
	})

	if r.MaxFeatures > 0 && len(buckets) > r.MaxFeatures {
		buckets = buckets[:r.MaxFeatures]
	}

	env := envelope.Success(map[string]any{"buckets": buckets})
	for _, w := range bundle.Warnings {
		env = env.WithWarning(w)
	}

	return env
}

func dispatchInferArchitecture(r InferArchitectureRequest) envelope.Envelope {
	model, patterns, _, err := buildArchModel(r.DirectoryPath, r.SystemName, r.Recursive)
	if err != nil {
		return envelope.FromError(err)
	}

	data := asData(model)
	data["patterns"] = patterns

	return envelope.Success(data)
}

func dispatchRenderMermaid(r RenderMermaidRequest) envelope.Envelope {
	model, _, _, err := buildArchModel(r.DirectoryPath, r.SystemName, true)
	if err != nil {
		return envelope.FromError(err)
	}

	direction := r.Direction
	if direction == "" {
		direction = mermaid.LeftRight
	}

	markdown := mermaid.RenderMarkdown(model.Context, model.Containers, model.Components, direction)

	return envelope.Success(map[string]any{"markdown": markdown})
}

// buildArchModel walks root, infers the component inventory and
// architectural patterns (C15), and assembles the three C4 views into
// one arch.Model shared by the architecture-inference and
// mermaid-rendering tools.
func buildArchModel(root, systemName string, recursive bool) (arch.Model, []arch.Pattern, []string, error) {
	graph, files, err := buildDependencyGraph(root, recursive, nil, true)
	if err != nil {
		return arch.Model{}, nil, nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	langByPath := languageByPath(files)

	components := arch.Inventory(paths)
	patterns := arch.InferPatterns(components, len(graph.Cycles))

	containerModel := arch.BuildContainerModel(systemName, components, graph.Edges, langByPath)
	componentModel := arch.BuildComponentModel(containerModel, components, graph.Edges, langByPath)

	context := arch.Context{
		System:          systemName,
		ExternalSystems: externalModules(graph),
		Relationships:   containerModel.Relationships,
	}

	model := arch.Model{Context: context, Containers: containerModel, Components: componentModel}

	return model, patterns, paths, nil
}

func externalModules(graph depgraph.Result) []string {
	seen := make(map[string]bool)

	var out []string

	for _, e := range graph.Edges {
		if !e.External || seen[e.Module] {
			continue
		}

		seen[e.Module] = true
		out = append(out, e.Module)
	}

	sort.Strings(out)

	return out
}

func allFileChanges(changes gitdiff.Result) []gitdiff.FileChange {
	out := make([]gitdiff.FileChange, 0, len(changes.Created)+len(changes.Modified)+len(changes.Deleted))
	out = append(out, changes.Created...)
	out = append(out, changes.Modified...)
	out = append(out, changes.Deleted...)

	return out
}

func truncateBreaking(findings []breaking.Finding, max int) ([]breaking.Finding, bool) {
	if max <= 0 || len(findings) <= max {
		return findings, false
	}

	return findings[:max], true
}

func truncateTypeChanges(findings []typechange.Finding, max int) ([]typechange.Finding, bool) {
	if max <= 0 || len(findings) <= max {
		return findings, false
	}

	return findings[:max], true
}

// recognizedBranchPrefixes is the set of change_type values a caller
// may pass through directly as ResolveBranchPrefix's ExplicitPrefix,
// matching plangen's own prefix vocabulary.
var recognizedBranchPrefixes = map[string]bool{
	"breaking": true, "hotfix": true, "refactor": true,
	"feature": true, "fix": true, "chore": true, "exp": true,
}

func dispatchGenerateChangePlan(ctx context.Context, r GenerateChangePlanRequest) envelope.Envelope {
	scope := rootFeatureScope(r.DirectoryPath)

	bundle, err := computeSignals(ctx, refDiffRequest{DirectoryPath: r.DirectoryPath, BaseRef: r.BaseBranch}, 0)
	if err != nil {
		return envelope.FromError(err)
	}

	riskResult := aggregateRisk(bundle)

	branchInputs := plangen.BranchInputs{
		ExplicitPrefix: explicitPrefixFor(r.ChangeType),
		TicketID:       r.TicketID,
		Scope:          scope,
		Description:    r.Objective,
		BreakingCount:  len(bundle.Breaking),
		IsHotfix:       r.ChangeType == "hotfix",
		HasDeletions:   len(bundle.Change.Deleted) > 0,
		HasCreations:   len(bundle.Change.Created) > 0,
		RiskLevel:      riskResult.Level,
	}

	workflow := plangen.GenerateGitWorkflow(branchInputs)
	resolvedPrefix := plangen.ResolveBranchPrefix(branchInputs)

	commitScopes := commitScopesFromBuckets(feature.Attribute(feature.Inputs{
		Changes:    allFileChanges(bundle.Change),
		Breaking:   bundle.Breaking,
		TypeSafety: bundle.TypeChanges,
	}), r.Objective)

	commits := plangen.GenerateCommitSequence(commitScopes, resolvedPrefix, r.TicketID)

	complexity := complexityFromChangeCount(len(allFileChanges(bundle.Change)))
	rollout := plangen.GenerateRolloutPlan(complexity, riskResult.Level)

	schemaChanges := countSchemaChanges(allFileChanges(bundle.Change))
	migration := plangen.GenerateMigrationStrategy(riskResult.Level, len(bundle.Breaking), schemaChanges, r.DeploymentEnvironment, r.MigrationTool)

	rollback := plangen.GenerateRollbackPlan(riskResult.Level, migration.Strategy != plangen.DirectMigration)

	data := map[string]any{
		"branch_name":  plangen.BranchName(branchInputs),
		"git_workflow": workflow,
		"commit_plan":  commits,
		"rollout_plan": rollout,
		"risk_level":   riskResult.Level,
	}

	if r.IncludeDataSafetyChecks {
		data["migration_strategy"] = migration
	}

	if r.IncludeRollbackPlan {
		data["rollback_plan"] = rollback
	}

	var featureFlag *plangen.FeatureFlagStrategy

	if r.IncludeExperimentSupport {
		strategy := plangen.GenerateFeatureFlagStrategy(flagScope(r.FlagKeyPrefix, scope), riskResult.Level)
		featureFlag = &strategy
		data["feature_flag_strategy"] = strategy
	}

	procedure := plangen.GenerateProcedure(plangen.ProcedureInputs{
		Workflow:    workflow,
		Commits:     commits,
		Rollout:     rollout,
		Migration:   &migration,
		Rollback:    rollback,
		FeatureFlag: featureFlag,
	})

	data["procedure"] = procedure

	env := envelope.Success(data)
	for _, w := range bundle.Warnings {
		env = env.WithWarning(w)
	}

	return env
}

func explicitPrefixFor(changeType string) string {
	if recognizedBranchPrefixes[changeType] {
		return changeType
	}

	return ""
}

func rootFeatureScope(directoryPath string) string {
	if directoryPath == "" || directoryPath == "." {
		return "root"
	}

	return directoryPath
}

func flagScope(prefix, scope string) string {
	if prefix == "" {
		return scope
	}

	return prefix + "_" + scope
}

func commitScopesFromBuckets(buckets []feature.Bucket, objective string) []plangen.CommitScope {
	scopes := make([]plangen.CommitScope, 0, len(buckets))

	for _, b := range buckets {
		summary := objective
		if summary == "" {
			summary = "update " + b.Feature
		}

		scopes = append(scopes, plangen.CommitScope{
			Scope:   b.Feature,
			Summary: summary,
			Files:   b.Files,
		})
	}

	return scopes
}

func complexityFromChangeCount(n int) plangen.ComplexityLevel {
	switch {
	case n >= 20:
		return plangen.ComplexityHigh
	case n >= 5:
		return plangen.ComplexityMedium
	default:
		return plangen.ComplexityLow
	}
}

func countSchemaChanges(changes []gitdiff.FileChange) int {
	count := 0

	for _, c := range changes {
		path := strings.ToLower(c.Path)
		if strings.Contains(path, "schema") || strings.Contains(path, "migration") {
			count++
		}
	}

	return count
}
