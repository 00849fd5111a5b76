package calltrace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/calltrace"
	"github.com/vinpuli/archscribe/pkg/depgraph"
)

func TestRefine_CallKindWhenTokensIntersectFunctionNames(t *testing.T) {
	graph := depgraph.Result{
		Edges: []depgraph.Edge{
			{Source: "a.py", Target: "b.py", Module: "b", LineNumber: 1},
		},
	}

	files := []calltrace.FileContent{
		{Path: "a.py", Language: "python", Content: []byte("import b\nb.g()\n")},
		{Path: "b.py", Language: "python", Content: []byte("def g():\n    pass\n")},
	}

	refined := calltrace.Refine(graph, files)

	require.Len(t, refined, 1)
	assert.Equal(t, calltrace.Call, refined[0].Kind)
	assert.Contains(t, refined[0].CalledSymbols, "g")
}

func TestRefine_ImportReferenceWhenNoCallTokenMatches(t *testing.T) {
	graph := depgraph.Result{
		Edges: []depgraph.Edge{
			{Source: "a.py", Target: "b.py", Module: "b", LineNumber: 1},
		},
	}

	files := []calltrace.FileContent{
		{Path: "a.py", Language: "python", Content: []byte("import b\n")},
		{Path: "b.py", Language: "python", Content: []byte("def g():\n    pass\n")},
	}

	refined := calltrace.Refine(graph, files)

	require.Len(t, refined, 1)
	assert.Equal(t, calltrace.ImportReference, refined[0].Kind)
}

func TestTrace_BFSRecordsShallowestDepth(t *testing.T) {
	edges := []calltrace.RefinedEdge{
		{Source: "a.py", Target: "seed.py", Kind: calltrace.Call},
		{Source: "b.py", Target: "a.py", Kind: calltrace.ImportReference},
		{Source: "c.py", Target: "seed.py", Kind: calltrace.ImportReference},
		{Source: "b.py", Target: "c.py", Kind: calltrace.ImportReference},
	}

	deps := calltrace.Trace(edges, calltrace.Options{Seeds: []string{"seed.py"}, MaxDepth: 5})

	byPath := make(map[string]calltrace.Dependent)
	for _, d := range deps {
		byPath[d.Path] = d
	}

	require.Contains(t, byPath, "a.py")
	assert.Equal(t, 1, byPath["a.py"].Depth)

	require.Contains(t, byPath, "b.py")
	assert.Equal(t, 2, byPath["b.py"].Depth, "b.py reachable via a.py(depth2) or c.py(depth2), not deeper")
}

func TestTrace_RespectsMaxDepth(t *testing.T) {
	edges := []calltrace.RefinedEdge{
		{Source: "a.py", Target: "seed.py", Kind: calltrace.ImportReference},
		{Source: "b.py", Target: "a.py", Kind: calltrace.ImportReference},
	}

	deps := calltrace.Trace(edges, calltrace.Options{Seeds: []string{"seed.py"}, MaxDepth: 1})

	for _, d := range deps {
		assert.NotEqual(t, "b.py", d.Path)
	}
}

func TestTrace_ExcludesSeedsFromResult(t *testing.T) {
	edges := []calltrace.RefinedEdge{
		{Source: "a.py", Target: "seed.py", Kind: calltrace.Call},
	}

	deps := calltrace.Trace(edges, calltrace.Options{Seeds: []string{"seed.py", "a.py"}})

	for _, d := range deps {
		assert.NotEqual(t, "a.py", d.Path)
		assert.NotEqual(t, "seed.py", d.Path)
	}
}
