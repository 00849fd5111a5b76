// Package extract performs regex-based extraction of
// functions, classes, and imports per language, plus per-file code
// metrics. It backs function/class/import extraction for every
// language on its own; it does not consult pkg/uastlite.
package extract

import (
	"regexp"
	"strconv"
)

// Declaration is one extracted function/class/struct/type/method.
type Declaration struct {
	Name        string `json:"name"`
	Signature   string `json:"signature,omitempty"`
	Extends     string `json:"extends,omitempty"`
	LineContent string `json:"line_content"`
	Kind        string `json:"kind"`
	LineNumber  int    `json:"line_number"`
}

// Import is one normalized import/require/use statement.
type Import struct {
	Module     string `json:"module"`
	ImportType string `json:"import_type"`
	LineNumber int     `json:"line_number"`
	IsExternal bool    `json:"is_external"`
}

// declPattern pairs a regex with the declaration kind it signals and the
// capture-group index holding the symbol name.
type declPattern struct {
	re         *regexp.Regexp
	kind       string
	nameIdx    int
	extendsIdx int
	returnIdx  int
}

// Functions extracts function/class/struct/type/method declarations from
// file content for the given language. Unsupported languages return nil,
// never an error (this is a best-effort heuristic layer).
func Functions(language string, content []byte) []Declaration {
	patterns, ok := declPatterns[language]
	if !ok {
		return nil
	}

	return scanDeclarations(content, patterns)
}

// Imports extracts and normalizes import/require/use statements.
func Imports(language string, content []byte) []Import {
	extractor, ok := importExtractors[language]
	if !ok {
		return nil
	}

	return dedupeImports(extractor(content))
}

func dedupeImports(imports []Import) []Import {
	seen := make(map[string]bool, len(imports))
	out := make([]Import, 0, len(imports))

	for _, imp := range imports {
		key := imp.Module + "|" + imp.ImportType + "|" + strconv.Itoa(imp.LineNumber)
		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, imp)
	}

	return out
}
