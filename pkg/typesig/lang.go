package typesig

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// --- Type definitions (interface/type/struct/enum/class) ---

var typeDefPatterns = map[string][]struct {
	re   *regexp.Regexp
	kind string
}{
	"typescript": {
		{regexp.MustCompile(`\binterface\s+(\w+)`), "interface"},
		{regexp.MustCompile(`\btype\s+(\w+)\s*=`), "type"},
		{regexp.MustCompile(`\benum\s+(\w+)`), "enum"},
	},
	"go": {
		{regexp.MustCompile(`^type\s+(\w+)\s+interface\b`), "interface"},
		{regexp.MustCompile(`^type\s+(\w+)\s+struct\b`), "struct"},
		{regexp.MustCompile(`^type\s+(\w+)\s+\w`), "type"},
	},
	"java": {
		{regexp.MustCompile(`\binterface\s+(\w+)`), "interface"},
		{regexp.MustCompile(`\benum\s+(\w+)`), "enum"},
	},
	"csharp": {
		{regexp.MustCompile(`\binterface\s+(\w+)`), "interface"},
		{regexp.MustCompile(`\benum\s+(\w+)`), "enum"},
		{regexp.MustCompile(`\bstruct\s+(\w+)`), "struct"},
	},
	"rust": {
		{regexp.MustCompile(`\bstruct\s+(\w+)`), "struct"},
		{regexp.MustCompile(`\benum\s+(\w+)`), "enum"},
		{regexp.MustCompile(`\btrait\s+(\w+)`), "interface"},
		{regexp.MustCompile(`\btype\s+(\w+)\s*=`), "type"},
	},
}

func extractTypeDefinitions(language string, content []byte) []TypeDefinition {
	patterns := typeDefPatterns[language]
	if len(patterns) == 0 {
		return nil
	}

	var defs []TypeDefinition

	forEachLine(content, func(lineNo int, line string) {
		for _, p := range patterns {
			if m := p.re.FindStringSubmatch(line); m != nil {
				defs = append(defs, TypeDefinition{Name: m[1], Kind: p.kind, LineNumber: lineNo})

				break
			}
		}
	})

	return defs
}

// --- Typed symbols (variable/const/field declarations) ---

var typedSymbolPatterns = map[string]*regexp.Regexp{
	"typescript": regexp.MustCompile(`\b(?:const|let|var)\s+(\w+)\s*:\s*([\w<>\[\],\s|]+?)\s*(?:=|;|$)`),
	"go":         regexp.MustCompile(`\bvar\s+(\w+)\s+([\w\[\]\*\.]+)`),
	"java":       regexp.MustCompile(`\b(?:private|public|protected|final|static|\s)*\s*([\w<>\[\]]+)\s+(\w+)\s*(?:=|;)`),
	"csharp":     regexp.MustCompile(`\b(?:private|public|protected|readonly|static|\s)*\s*([\w<>\[\]]+)\s+(\w+)\s*(?:=|;)`),
	"rust":       regexp.MustCompile(`\blet\s+(?:mut\s+)?(\w+)\s*:\s*([\w<>\[\]&'\s]+?)\s*(?:=|;)`),
}

// inferredPatterns catches "let/var/const x = ..." without a type
// annotation, used to count inferred symbols for explicit_type_ratio.
var inferredPatterns = map[string]*regexp.Regexp{
	"typescript": regexp.MustCompile(`\b(?:const|let|var)\s+(\w+)\s*=(?:[^=]|$)`),
	"rust":       regexp.MustCompile(`\blet\s+(?:mut\s+)?(\w+)\s*=(?:[^=]|$)`),
}

func extractTypedSymbols(language string, content []byte) []TypedSymbol {
	var symbols []TypedSymbol

	seen := make(map[string]bool)

	if re, ok := typedSymbolPatterns[language]; ok {
		scanner := bufio.NewScanner(bytes.NewReader(content))
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20) //nolint:mnd

		for scanner.Scan() {
			line := scanner.Text()
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				name, typ := symbolNameAndType(language, m)
				if name == "" || seen[name] {
					continue
				}

				seen[name] = true
				symbols = append(symbols, TypedSymbol{Name: name, Type: strings.TrimSpace(typ), Kind: "variable", Explicit: true})
			}
		}
	}

	if re, ok := inferredPatterns[language]; ok {
		scanner := bufio.NewScanner(bytes.NewReader(content))
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20) //nolint:mnd

		for scanner.Scan() {
			line := scanner.Text()
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				name := m[1]
				if name == "" || seen[name] {
					continue
				}

				seen[name] = true
				symbols = append(symbols, TypedSymbol{Name: name, Kind: "variable", Explicit: false})
			}
		}
	}

	return symbols
}

func symbolNameAndType(language string, match []string) (name, typ string) {
	switch language {
	case "typescript", "rust":
		return match[1], match[2]
	case "go":
		return match[1], match[2]
	case "java", "csharp":
		return match[2], match[1]
	default:
		return "", ""
	}
}

// --- Function signatures ---

var signaturePatterns = map[string]*regexp.Regexp{
	"typescript": regexp.MustCompile(`\bfunction\s+(\w+)\s*\(([^)]*)\)\s*(?::\s*([\w<>\[\],\s|]+))?`),
	"go":         regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(([^)]*)\)\s*([\w\[\]\*\.,\s()]*)`),
	"java":       regexp.MustCompile(`\b(?:public|private|protected|static|final|\s)*\s([\w<>\[\]]+)\s+(\w+)\s*\(([^)]*)\)`),
	"csharp":     regexp.MustCompile(`\b(?:public|private|protected|static|virtual|override|\s)*\s([\w<>\[\]]+)\s+(\w+)\s*\(([^)]*)\)`),
	"rust":       regexp.MustCompile(`\bfn\s+(\w+)\s*\(([^)]*)\)(?:\s*->\s*([\w<>\[\]&'\s]+))?`),
}

func extractSignatures(language string, content []byte) []FunctionSignature {
	re, ok := signaturePatterns[language]
	if !ok {
		return nil
	}

	var sigs []FunctionSignature

	forEachLine(content, func(lineNo int, line string) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return
		}

		name, paramStr, retType := signatureGroups(language, m)
		if name == "" {
			return
		}

		sigs = append(sigs, FunctionSignature{
			Name:       name,
			Parameters: splitParameters(language, paramStr),
			ReturnType: strings.TrimSpace(retType),
			LineNumber: lineNo,
		})
	})

	return sigs
}

func signatureGroups(language string, match []string) (name, params, ret string) {
	switch language {
	case "typescript":
		return match[1], match[2], match[3]
	case "go", "rust":
		return match[1], match[2], match[3]
	case "java", "csharp":
		return match[2], match[3], match[1]
	default:
		return "", "", ""
	}
}

func splitParameters(language string, raw string) []Parameter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := splitTopLevelComma(raw)

	params := make([]Parameter, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		params = append(params, parseParameter(language, part))
	}

	return params
}

// splitTopLevelComma splits on commas that aren't nested inside <>/[]/().
func splitTopLevelComma(s string) []string {
	var parts []string

	depth := 0
	start := 0

	for i, r := range s {
		switch r {
		case '<', '[', '(':
			depth++
		case '>', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, s[start:])

	return parts
}

func parseParameter(language string, part string) Parameter {
	switch language {
	case "typescript", "rust":
		if idx := strings.Index(part, ":"); idx >= 0 {
			return Parameter{Name: strings.TrimSpace(part[:idx]), Type: strings.TrimSpace(part[idx+1:])}
		}

		return Parameter{Name: part}
	case "go":
		fields := strings.Fields(part)
		if len(fields) >= 2 { //nolint:mnd
			return Parameter{Name: fields[0], Type: strings.Join(fields[1:], " ")}
		}

		return Parameter{Type: part}
	case "java", "csharp":
		fields := strings.Fields(part)
		if len(fields) >= 2 { //nolint:mnd
			return Parameter{Name: fields[len(fields)-1], Type: strings.Join(fields[:len(fields)-1], " ")}
		}

		return Parameter{Name: part}
	default:
		return Parameter{Name: part}
	}
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
