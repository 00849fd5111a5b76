package depgraph

import (
	"path"
	"strings"
)

// relativeLanguages supports "./x" / "../x" style imports resolved
// against the importing file's directory.
var relativeLanguages = map[string]bool{
	"javascript": true,
	"typescript": true,
	"php":        true,
	"ruby":       true,
}

// indexBasenames are file names that also stand for their parent
// directory when referenced by a bare directory import.
var indexBasenames = map[string]bool{
	"index.js":  true,
	"index.ts":  true,
	"index.jsx": true,
	"index.tsx": true,
	"index.mjs": true,
	"index.cjs": true,
}

var languageExtensions = map[string][]string{
	"python":     {".py"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs"},
	"typescript": {".ts", ".tsx"},
	"java":       {".java"},
	"go":         {".go"},
	"csharp":     {".cs"},
	"rust":       {".rs"},
	"php":        {".php"},
	"ruby":       {".rb"},
}

// aliasIndex maps a derived alias (dotted path, or directory path for
// index files) to every file path that answers to it.
type aliasIndex struct {
	byAlias map[string][]string
	exists  map[string]bool
}

func buildAliasIndex(paths []string) *aliasIndex {
	idx := &aliasIndex{byAlias: make(map[string][]string), exists: make(map[string]bool)}

	for _, p := range paths {
		idx.exists[p] = true
	}

	for _, p := range paths {
		dir, base := path.Split(p)
		dir = strings.TrimSuffix(dir, "/")
		ext := path.Ext(base)
		stem := strings.TrimSuffix(base, ext)

		dotted := dottedPath(p)
		idx.add(dotted, p)

		switch {
		case base == "__init__.py":
			if dir != "" {
				idx.add(dottedPath(dir), p)
			}
		case indexBasenames[base]:
			if dir != "" {
				idx.add(dottedPath(dir), p)
				idx.add(strings.ReplaceAll(dir, "/", "."), p)
			}
		case base == "mod.rs":
			if dir != "" {
				idx.add(strings.ReplaceAll(dir, "/", "::"), p)
			}
		default:
			idx.add(strings.ReplaceAll(path.Join(dir, stem), "/", "::"), p)
		}
	}

	return idx
}

func (a *aliasIndex) add(alias, p string) {
	if alias == "" {
		return
	}

	for _, existing := range a.byAlias[alias] {
		if existing == p {
			return
		}
	}

	a.byAlias[alias] = append(a.byAlias[alias], p)
}

// resolveUnique returns the single path bound to alias, or "" if the
// alias is absent or ambiguous.
func (a *aliasIndex) resolveUnique(alias string) string {
	candidates := a.byAlias[alias]
	if len(candidates) == 1 {
		return candidates[0]
	}

	return ""
}

func dottedPath(p string) string {
	ext := path.Ext(p)
	stem := strings.TrimSuffix(p, ext)

	return strings.ReplaceAll(stem, "/", ".")
}

// resolution is the outcome of attempting to locate a module's file.
type resolution struct {
	path     string
	external bool
}

// resolveImport applies the language-specific rule
// appropriate to the source file and its import module string.
func resolveImport(language, sourcePath, module, memberHint string, idx *aliasIndex) resolution {
	switch {
	case relativeLanguages[language] && isRelativeModule(module):
		return resolveRelative(language, sourcePath, module, idx)
	case language == "python":
		return resolvePython(sourcePath, module, memberHint, idx)
	case language == "java" || language == "csharp":
		return resolveDotted(module, idx)
	case language == "rust":
		return resolveRust(sourcePath, module, idx)
	default:
		return resolveGeneric(language, sourcePath, module, idx)
	}
}

func isRelativeModule(module string) bool {
	return strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../") || strings.HasPrefix(module, "/")
}

// resolveRelative handles TS/JS/PHP/Ruby "./x" and "../x" forms: rule 1.
func resolveRelative(language, sourcePath, module string, idx *aliasIndex) resolution {
	dir := path.Dir(sourcePath)
	target := path.Clean(path.Join(dir, module))

	if idx.exists[target] {
		return resolution{path: target}
	}

	for _, ext := range languageExtensions[language] {
		if candidate := target + ext; idx.exists[candidate] {
			return resolution{path: candidate}
		}
	}

	for _, ext := range languageExtensions[language] {
		if candidate := path.Join(target, "index"+ext); idx.exists[candidate] {
			return resolution{path: candidate}
		}
	}

	return resolution{path: module, external: true}
}

// resolvePython implements rule 2: dot-depth traversal from the
// importing file's package directory, then module/__init__.py or
// module.py expansion. memberHint is the symbol imported by a
// "from X import Y" statement, used when the dotted body is empty
// (i.e. "from . import Y" names a sibling submodule Y).
func resolvePython(sourcePath, module, memberHint string, idx *aliasIndex) resolution {
	dots := 0
	for dots < len(module) && module[dots] == '.' {
		dots++
	}

	rest := module[dots:]

	if dots == 0 {
		return resolveDotted(module, idx)
	}

	dir := path.Dir(sourcePath)
	for up := 0; up < dots-1; up++ {
		dir = path.Dir(dir)
	}

	target := dir
	if rest != "" {
		target = path.Join(dir, strings.ReplaceAll(rest, ".", "/"))
	} else if memberHint != "" {
		target = path.Join(dir, memberHint)
	}

	if candidate := target + ".py"; idx.exists[candidate] {
		return resolution{path: candidate}
	}

	if candidate := path.Join(target, "__init__.py"); idx.exists[candidate] {
		return resolution{path: candidate}
	}

	return resolution{path: module, external: true}
}

// resolveDotted implements rule 3 (Java/C# a.b.C -> a/b/C.{java,cs}) via
// the shared alias index built from every file's dotted path.
func resolveDotted(module string, idx *aliasIndex) resolution {
	module = strings.TrimSuffix(module, ".*")

	if p := idx.resolveUnique(module); p != "" {
		return resolution{path: p}
	}

	return resolution{path: module, external: true}
}

// resolveRust implements rule 4: crate::/super:: paths map to
// filesystem paths with .rs or mod.rs fallback.
func resolveRust(sourcePath, module string, idx *aliasIndex) resolution {
	dir := path.Dir(sourcePath)

	switch {
	case strings.HasPrefix(module, "crate::"):
		rest := strings.TrimPrefix(module, "crate::")
		return resolveRustPath(rootDir(sourcePath), rest, idx)
	case strings.HasPrefix(module, "super::"):
		rest := module
		d := dir

		for strings.HasPrefix(rest, "super::") {
			rest = strings.TrimPrefix(rest, "super::")
			d = path.Dir(d)
		}

		return resolveRustPath(d, rest, idx)
	case strings.HasPrefix(module, "self::"):
		return resolveRustPath(dir, strings.TrimPrefix(module, "self::"), idx)
	default:
		return resolveRustPath(dir, module, idx)
	}
}

func resolveRustPath(base, rest string, idx *aliasIndex) resolution {
	rest = strings.Split(rest, "::{")[0]
	rest = strings.TrimSuffix(rest, "::*")
	segment := strings.ReplaceAll(rest, "::", "/")
	target := path.Join(base, segment)

	if candidate := target + ".rs"; idx.exists[candidate] {
		return resolution{path: candidate}
	}

	if candidate := path.Join(target, "mod.rs"); idx.exists[candidate] {
		return resolution{path: candidate}
	}

	return resolution{path: "crate::" + rest, external: true}
}

func rootDir(sourcePath string) string {
	dir := path.Dir(sourcePath)
	for {
		parent := path.Dir(dir)
		if parent == dir || parent == "." {
			return dir
		}

		dir = parent
	}
}

// resolveGeneric covers Go's plain package-path imports and anything
// else without a bespoke rule, via the shared alias index (rule 5/6).
func resolveGeneric(_, _, module string, idx *aliasIndex) resolution {
	if p := idx.resolveUnique(strings.ReplaceAll(module, "/", ".")); p != "" {
		return resolution{path: p}
	}

	return resolution{path: module, external: true}
}
