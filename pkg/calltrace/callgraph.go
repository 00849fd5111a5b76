// Package calltrace refines the dependency
// graph's edges into call-kind or import-reference edges, then traces
// downstream dependents from a seed set via bounded BFS.
package calltrace

import (
	"sort"

	"github.com/vinpuli/archscribe/pkg/depgraph"
	"github.com/vinpuli/archscribe/pkg/extract"
)

// EdgeKind classifies a refined dependency-graph edge.
type EdgeKind string

const (
	Call            EdgeKind = "call"
	ImportReference EdgeKind = "import_reference"
)

// RefinedEdge is a depgraph.Edge annotated with the call-graph
// refinement's Call Graph definition.
type RefinedEdge struct {
	Source        string   `json:"source"`
	Target        string   `json:"target"`
	Module        string   `json:"module"`
	LineNumber    int      `json:"line_number"`
	Kind          EdgeKind `json:"edge_kind"`
	CalledSymbols []string `json:"called_symbols"`
}

// FileContent supplies a source file's language and bytes so call
// tokens and function names can be extracted for refinement.
type FileContent struct {
	Path     string
	Language string
	Content  []byte
}

// Refine classifies every non-external dependency-graph edge: an edge
// s -> t is call-kind when extract_call_tokens(s) intersects
// extract_function_names(t), else import-reference.
func Refine(graph depgraph.Result, files []FileContent) []RefinedEdge {
	byPath := make(map[string]FileContent, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	callTokens := make(map[string]map[string]bool)
	functionNames := make(map[string]map[string]bool)

	tokensOf := func(path string) map[string]bool {
		if cached, ok := callTokens[path]; ok {
			return cached
		}

		f, ok := byPath[path]
		set := map[string]bool{}

		if ok {
			for _, tok := range extract.CallTokens(f.Language, f.Content) {
				set[tok] = true
			}
		}

		callTokens[path] = set

		return set
	}

	namesOf := func(path string) map[string]bool {
		if cached, ok := functionNames[path]; ok {
			return cached
		}

		f, ok := byPath[path]
		set := map[string]bool{}

		if ok {
			for _, decl := range extract.Functions(f.Language, f.Content) {
				set[decl.Name] = true
			}
		}

		functionNames[path] = set

		return set
	}

	refined := make([]RefinedEdge, 0, len(graph.Edges))

	for _, e := range graph.Edges {
		if e.External {
			continue
		}

		sourceTokens := tokensOf(e.Source)
		targetNames := namesOf(e.Target)

		var called []string

		for tok := range sourceTokens {
			if targetNames[tok] {
				called = append(called, tok)
			}
		}

		kind := ImportReference
		if len(called) > 0 {
			kind = Call
		}

		refined = append(refined, RefinedEdge{
			Source: e.Source, Target: e.Target, Module: e.Module,
			LineNumber: e.LineNumber, Kind: kind, CalledSymbols: sortStrings(called),
		})
	}

	return refined
}

func sortStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)

	return out
}
