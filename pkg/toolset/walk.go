package toolset

import (
	"os"
	"path/filepath"

	"github.com/vinpuli/archscribe/pkg/calltrace"
	"github.com/vinpuli/archscribe/pkg/depgraph"
	"github.com/vinpuli/archscribe/pkg/extract"
	"github.com/vinpuli/archscribe/pkg/scan"
)

// walkedFile is one file discovered under a directory scope, with its
// detected language and raw content already loaded — the shared input
// unit the directory-scoped tools build their package-level Options
// structs from.
type walkedFile struct {
	Path     string
	Language string
	Content  []byte
}

// maxWalkFileBytes bounds how much of a single file is read while
// building source-file/call-graph input, matching scan.Walk's own
// per-file ceiling.
const maxWalkFileBytes = 5 * 1024 * 1024

// walkDirectory lists every file scan.Walk would report under root
// and loads each one's content and detected language. Unreadable
// files are skipped rather than failing the whole tool, mirroring
// scan.Walk's own tolerance.
func walkDirectory(root string, recursive bool, extensions []string) ([]walkedFile, error) {
	report, err := scan.Walk(scan.Options{
		Root:       root,
		Recursive:  recursive,
		Extensions: extensions,
	})
	if err != nil {
		return nil, err
	}

	files := make([]walkedFile, 0, len(report.Files))

	for _, f := range report.Files {
		full := filepath.Join(root, f.Node.Path)

		info, statErr := os.Stat(full)
		if statErr != nil || info.Size() > maxWalkFileBytes {
			continue
		}

		content, readErr := os.ReadFile(full) //nolint:gosec // full is joined from a scan.Walk-reported relative path under root
		if readErr != nil {
			continue
		}

		files = append(files, walkedFile{
			Path:     f.Node.Path,
			Language: f.Node.Language,
			Content:  content,
		})
	}

	return files, nil
}

// buildDependencyGraph loads every file under root and resolves the
// dependency graph, returning both the graph and the loaded files so
// callers needing call-graph refinement don't re-walk the tree.
func buildDependencyGraph(root string, recursive bool, extensions []string, includeExternal bool) (depgraph.Result, []walkedFile, error) {
	files, err := walkDirectory(root, recursive, extensions)
	if err != nil {
		return depgraph.Result{}, nil, err
	}

	sources := make([]depgraph.SourceFile, 0, len(files))
	for _, f := range files {
		sources = append(sources, depgraph.SourceFile{
			Path:     f.Path,
			Language: f.Language,
			Imports:  extract.Imports(f.Language, f.Content),
		})
	}

	graph := depgraph.Build(sources, depgraph.Options{IncludeExternal: includeExternal})

	return graph, files, nil
}

// refinedEdges builds the call-graph refinement (C9) over every file
// under root.
func refinedEdges(root string, recursive bool, extensions []string) ([]calltrace.RefinedEdge, []string, error) {
	graph, files, err := buildDependencyGraph(root, recursive, extensions, false)
	if err != nil {
		return nil, nil, err
	}

	contents := make([]calltrace.FileContent, 0, len(files))
	paths := make([]string, 0, len(files))

	for _, f := range files {
		contents = append(contents, calltrace.FileContent{Path: f.Path, Language: f.Language, Content: f.Content})
		paths = append(paths, f.Path)
	}

	return calltrace.Refine(graph, contents), paths, nil
}

// languageByPath builds the path->language map C15's C4-model builders
// need from an already-loaded file set.
func languageByPath(files []walkedFile) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = f.Language
	}

	return out
}
