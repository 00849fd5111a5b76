package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

type importExtractorFunc func(content []byte) []Import

var importExtractors = map[string]importExtractorFunc{
	"python":     extractPythonImports,
	"javascript": extractJSImports,
	"typescript": extractJSImports,
	"java":       extractJavaImports,
	"go":         extractGoImports,
	"csharp":     extractCSharpImports,
	"rust":       extractRustImports,
	"php":        extractPHPImports,
	"ruby":       extractRubyImports,
}

var (
	pyImportRe     = regexp.MustCompile(`^\s*import\s+([\w.]+)(?:\s+as\s+\w+)?`)
	pyFromRe       = regexp.MustCompile(`^\s*from\s+([\w.]*)\s+import\s+(.+)`)
	pyFromMemberRe = regexp.MustCompile(`^(\w+)(?:\s+as\s+\w+)?$`)
)

// extractPythonImports distinguishes import, from, and from-member forms,
// synthesizing "package.member" keys for "from pkg import member".
func extractPythonImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		if m := pyImportRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[1], ImportType: "import", LineNumber: lineNo})

			return
		}

		if m := pyFromRe.FindStringSubmatch(line); m != nil {
			module := m[1]
			imports = append(imports, Import{Module: module, ImportType: "from", LineNumber: lineNo})

			for _, member := range strings.Split(m[2], ",") {
				member = strings.TrimSpace(member)
				if member == "" || member == "*" {
					continue
				}

				if mm := pyFromMemberRe.FindStringSubmatch(member); mm != nil {
					key := mm[1]
					if module != "" {
						key = module + "." + mm[1]
					}

					imports = append(imports, Import{Module: key, ImportType: "from-member", LineNumber: lineNo})
				}
			}
		}
	})

	return imports
}

var (
	jsStaticImportRe    = regexp.MustCompile(`^\s*import\s+(?:type\s+)?(?:[\w*{},\s]+\s+from\s+)?['"]([^'"]+)['"]`)
	jsSideEffectRe       = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]\s*;?\s*$`)
	jsRequireRe          = regexp.MustCompile(`\brequire\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDynamicImportRe    = regexp.MustCompile(`\bimport\(\s*['"]([^'"]+)['"]\s*\)`)
)

// extractJSImports distinguishes static import, side-effect import,
// require, and import() forms.
func extractJSImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		switch {
		case jsSideEffectRe.MatchString(line):
			m := jsSideEffectRe.FindStringSubmatch(line)
			imports = append(imports, Import{Module: m[1], ImportType: "side_effect_import", LineNumber: lineNo})
		case jsStaticImportRe.MatchString(line):
			m := jsStaticImportRe.FindStringSubmatch(line)
			imports = append(imports, Import{Module: m[1], ImportType: "static_import", LineNumber: lineNo})
		}

		for _, m := range jsDynamicImportRe.FindAllStringSubmatch(line, -1) {
			imports = append(imports, Import{Module: m[1], ImportType: "dynamic_import", LineNumber: lineNo})
		}

		for _, m := range jsRequireRe.FindAllStringSubmatch(line, -1) {
			imports = append(imports, Import{Module: m[1], ImportType: "require", LineNumber: lineNo})
		}
	})

	return imports
}

var javaImportRe = regexp.MustCompile(`^\s*import\s+(static\s+)?([\w.]+\*?)\s*;`)

func extractJavaImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		m := javaImportRe.FindStringSubmatch(line)
		if m == nil {
			return
		}

		typ := "import"
		if m[1] != "" {
			typ = "static_import"
		}

		imports = append(imports, Import{Module: m[2], ImportType: typ, LineNumber: lineNo})
	})

	return imports
}

var (
	goSingleImportRe = regexp.MustCompile(`^import\s+(?:(\w+)\s+)?"([^"]+)"`)
	goBlockStartRe   = regexp.MustCompile(`^import\s*\(`)
	goBlockEntryRe   = regexp.MustCompile(`^\s*(?:(\w+|_|\.)\s+)?"([^"]+)"`)
	goBlockEndRe     = regexp.MustCompile(`^\s*\)`)
)

// extractGoImports parses both single-line and block import forms.
func extractGoImports(content []byte) []Import {
	var imports []Import

	inBlock := false

	forEachLine(content, func(lineNo int, line string) {
		switch {
		case goBlockStartRe.MatchString(line):
			inBlock = true
		case inBlock && goBlockEndRe.MatchString(line):
			inBlock = false
		case inBlock:
			if m := goBlockEntryRe.FindStringSubmatch(line); m != nil {
				imports = append(imports, Import{Module: m[2], ImportType: "import", LineNumber: lineNo})
			}
		default:
			if m := goSingleImportRe.FindStringSubmatch(line); m != nil {
				imports = append(imports, Import{Module: m[2], ImportType: "import", LineNumber: lineNo})
			}
		}
	})

	return imports
}

var (
	csUsingRe       = regexp.MustCompile(`^\s*using\s+(static\s+)?([\w.]+)\s*;`)
)

func extractCSharpImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		m := csUsingRe.FindStringSubmatch(line)
		if m == nil {
			return
		}

		typ := "using"
		if m[1] != "" {
			typ = "using_static"
		}

		imports = append(imports, Import{Module: m[2], ImportType: typ, LineNumber: lineNo})
	})

	return imports
}

var (
	rustUseRe   = regexp.MustCompile(`^\s*(?:pub\s+)?use\s+([\w:]+(?:::\{[^}]*\})?)\s*;`)
	rustExternRe = regexp.MustCompile(`^\s*extern\s+crate\s+(\w+)\s*;`)
)

func extractRustImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		if m := rustUseRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[1], ImportType: "use", LineNumber: lineNo})

			return
		}

		if m := rustExternRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[1], ImportType: "extern_crate", LineNumber: lineNo})
		}
	})

	return imports
}

var (
	phpUseRe      = regexp.MustCompile(`^\s*use\s+([\w\\]+)(?:\s+as\s+\w+)?\s*;`)
	phpRequireRe  = regexp.MustCompile(`\b(require|require_once|include|include_once)\s*\(?\s*['"]([^'"]+)['"]`)
)

func extractPHPImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		if m := phpUseRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[1], ImportType: "use", LineNumber: lineNo})
		}

		if m := phpRequireRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[2], ImportType: m[1], LineNumber: lineNo})
		}
	})

	return imports
}

var (
	rubyRequireRe     = regexp.MustCompile(`^\s*require\s+['"]([^'"]+)['"]`)
	rubyRequireRelRe  = regexp.MustCompile(`^\s*require_relative\s+['"]([^'"]+)['"]`)
)

func extractRubyImports(content []byte) []Import {
	var imports []Import

	forEachLine(content, func(lineNo int, line string) {
		if m := rubyRequireRelRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[1], ImportType: "require_relative", LineNumber: lineNo})

			return
		}

		if m := rubyRequireRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{Module: m[1], ImportType: "require", LineNumber: lineNo})
		}
	})

	return imports
}

func forEachLine(content []byte, fn func(lineNo int, line string)) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20) //nolint:mnd

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fn(lineNo, scanner.Text())
	}
}
