// Package depgraph resolves each source
// file's imports to other files in scope using per-language resolution
// rules, then reports the edge set, reverse adjacency, and any cycles.
package depgraph

import (
	"sort"
	"strconv"

	"github.com/vinpuli/archscribe/pkg/extract"
)

// SourceFile is one file's C3 extraction results, the input unit this
// package consumes, generalized to carry line numbers per import.
type SourceFile struct {
	Path     string
	Language string
	Imports  []extract.Import
	Error    error
}

// Edge is a single resolved (or external) import occurrence.
type Edge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Module     string `json:"module"`
	LineNumber int    `json:"line_number"`
	External   bool   `json:"external"`
}

func (e Edge) key() [4]string {
	return [4]string{e.Source, e.Target, e.Module, strconv.Itoa(e.LineNumber)}
}

// Options configures a graph Build.
type Options struct {
	IncludeExternal bool
}

// Result is the C7 output payload.
type Result struct {
	Nodes        []string            `json:"nodes"`
	Edges        []Edge              `json:"edges"`
	ReverseEdges map[string][]string `json:"reverse_edges"`
	Cycles       [][]string          `json:"cycles"`
}

// Build resolves imports across the given files and returns the
// dependency graph. Resolution is deterministic and order-independent:
// the file slice is sorted by path before processing and edges are
// deduplicated and sorted, so identical input bytes always produce a
// byte-identical result.
func Build(files []SourceFile, opts Options) Result {
	sorted := make([]SourceFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	paths := make([]string, 0, len(sorted))
	for _, f := range sorted {
		paths = append(paths, f.Path)
	}

	idx := buildAliasIndex(paths)

	seen := make(map[[4]string]bool)
	var edges []Edge

	for _, f := range sorted {
		if f.Error != nil {
			continue
		}

		for _, e := range resolveFileImports(f, idx) {
			if e.External && !opts.IncludeExternal {
				continue
			}

			k := e.key()
			if seen[k] {
				continue
			}

			seen[k] = true
			edges = append(edges, e)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}

		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}

		if edges[i].Module != edges[j].Module {
			return edges[i].Module < edges[j].Module
		}

		return edges[i].LineNumber < edges[j].LineNumber
	})

	reverse := make(map[string][]string)
	for _, e := range edges {
		reverse[e.Target] = appendUnique(reverse[e.Target], e.Source)
	}

	for k := range reverse {
		sort.Strings(reverse[k])
	}

	return Result{
		Nodes:        paths,
		Edges:        edges,
		ReverseEdges: reverse,
		Cycles:       findCycles(paths, edges),
	}
}

// resolveFileImports pairs python's "from" entries with their sibling
// "from-member" entries (by line number) so the member name can stand
// in for the dotted body when a relative import names no submodule
// path directly (e.g. "from . import helpers").
func resolveFileImports(f SourceFile, idx *aliasIndex) []Edge {
	var edges []Edge

	memberByLine := make(map[int][]string)
	if f.Language == "python" {
		for _, imp := range f.Imports {
			if imp.ImportType == "from-member" {
				memberByLine[imp.LineNumber] = append(memberByLine[imp.LineNumber], imp.Module)
			}
		}
	}

	for _, imp := range f.Imports {
		if imp.ImportType == "from-member" {
			continue
		}

		member := ""

		if f.Language == "python" && imp.ImportType == "from" {
			for _, m := range memberByLine[imp.LineNumber] {
				member = trimPythonMember(imp.Module, m)
				break
			}
		}

		res := resolveImport(f.Language, f.Path, imp.Module, member, idx)
		if res.path == f.Path {
			continue // same-file self-references aren't true self-imports
		}

		edges = append(edges, Edge{
			Source:     f.Path,
			Target:     res.path,
			Module:     imp.Module,
			LineNumber: imp.LineNumber,
			External:   res.external,
		})
	}

	return edges
}

func trimPythonMember(dottedBody, fromMemberModule string) string {
	prefix := dottedBody + "."
	if len(fromMemberModule) > len(prefix) && fromMemberModule[:len(prefix)] == prefix {
		return fromMemberModule[len(prefix):]
	}

	return ""
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}

	return append(list, v)
}

