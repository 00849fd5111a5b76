package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// declPatterns holds one regex family per language for
// def|function|class|struct|type|method.
var declPatterns = map[string][]declPattern{
	"python": {
		{
			re: regexp.MustCompile(`^(\s*)def\s+(\w+)\s*(\([^)]*\))(?:\s*->\s*([\w.\[\], ]+))?\s*:`),
			kind: "function", nameIdx: 2, returnIdx: 4,
		},
		{re: regexp.MustCompile(`^(\s*)class\s+(\w+)\s*(\([^)]*\))?\s*:`), kind: "class", nameIdx: 2, extendsIdx: 3},
	},
	"javascript": {
		{re: regexp.MustCompile(`\bfunction\s*\*?\s*(\w+)\s*(\([^)]*\))`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\b(?:const|let|var)\s+(\w+)\s*=\s*(\([^)]*\)|\w+)\s*=>`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\bclass\s+(\w+)(?:\s+extends\s+(\w+))?`), kind: "class", nameIdx: 1, extendsIdx: 2},
	},
	"typescript": {
		{re: regexp.MustCompile(`\bfunction\s*\*?\s*(\w+)\s*(\([^)]*\))`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\b(?:const|let|var)\s+(\w+)\s*(?::\s*[\w<>\[\],\s|]+)?=\s*(\([^)]*\)|\w+)\s*=>`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\bclass\s+(\w+)(?:\s+extends\s+(\w+))?`), kind: "class", nameIdx: 1, extendsIdx: 2},
		{re: regexp.MustCompile(`\binterface\s+(\w+)(?:\s+extends\s+([\w,\s]+))?`), kind: "interface", nameIdx: 1, extendsIdx: 2},
		{re: regexp.MustCompile(`\btype\s+(\w+)\s*=`), kind: "type", nameIdx: 1},
	},
	"java": {
		{re: regexp.MustCompile(`\b(?:public|private|protected|static|final|\s)*\s[\w<>\[\]]+\s+(\w+)\s*(\([^)]*\))\s*(?:throws[\w,\s]+)?\{`), kind: "method", nameIdx: 1},
		{re: regexp.MustCompile(`\bclass\s+(\w+)(?:\s+extends\s+(\w+))?`), kind: "class", nameIdx: 1, extendsIdx: 2},
		{re: regexp.MustCompile(`\binterface\s+(\w+)`), kind: "interface", nameIdx: 1},
		{re: regexp.MustCompile(`\benum\s+(\w+)`), kind: "enum", nameIdx: 1},
	},
	"go": {
		{re: regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)\s*(\([^)]*\))`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`^type\s+(\w+)\s+struct\b`), kind: "struct", nameIdx: 1},
		{re: regexp.MustCompile(`^type\s+(\w+)\s+interface\b`), kind: "interface", nameIdx: 1},
		{re: regexp.MustCompile(`^type\s+(\w+)\s+\w`), kind: "type", nameIdx: 1},
	},
	"csharp": {
		{re: regexp.MustCompile(`\b(?:public|private|protected|internal|static|virtual|override|\s)*\s[\w<>\[\]]+\s+(\w+)\s*(\([^)]*\))\s*\{?`), kind: "method", nameIdx: 1},
		{re: regexp.MustCompile(`\bclass\s+(\w+)(?:\s*:\s*(\w+))?`), kind: "class", nameIdx: 1, extendsIdx: 2},
		{re: regexp.MustCompile(`\binterface\s+(\w+)`), kind: "interface", nameIdx: 1},
	},
	"rust": {
		{re: regexp.MustCompile(`\bfn\s+(\w+)\s*(\([^)]*\))`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\bstruct\s+(\w+)`), kind: "struct", nameIdx: 1},
		{re: regexp.MustCompile(`\benum\s+(\w+)`), kind: "enum", nameIdx: 1},
		{re: regexp.MustCompile(`\btrait\s+(\w+)`), kind: "interface", nameIdx: 1},
	},
	"php": {
		{re: regexp.MustCompile(`\bfunction\s+(\w+)\s*(\([^)]*\))`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\bclass\s+(\w+)(?:\s+extends\s+(\w+))?`), kind: "class", nameIdx: 1, extendsIdx: 2},
		{re: regexp.MustCompile(`\binterface\s+(\w+)`), kind: "interface", nameIdx: 1},
	},
	"ruby": {
		{re: regexp.MustCompile(`^(\s*)def\s+(self\.)?(\w+[?!=]?)`), kind: "method", nameIdx: 3},
		{re: regexp.MustCompile(`^(\s*)class\s+(\w+)(?:\s*<\s*(\w+))?`), kind: "class", nameIdx: 2, extendsIdx: 3},
	},
	"c": {
		{re: regexp.MustCompile(`^[\w\*\s]+\s+(\w+)\s*(\([^)]*\))\s*\{`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\bstruct\s+(\w+)\s*\{`), kind: "struct", nameIdx: 1},
	},
	"cpp": {
		{re: regexp.MustCompile(`^[\w:<>\*\s]+\s+(\w+)\s*(\([^)]*\))\s*(?:const)?\s*\{`), kind: "function", nameIdx: 1},
		{re: regexp.MustCompile(`\bclass\s+(\w+)(?:\s*:\s*(?:public|private|protected)\s+(\w+))?`), kind: "class", nameIdx: 1, extendsIdx: 2},
		{re: regexp.MustCompile(`\bstruct\s+(\w+)`), kind: "struct", nameIdx: 1},
	},
}

// scanDeclarations walks the file line by line (cheap, deterministic, and
// immune to the multi-line false positives a whole-content regex would
// invite) and tests every pattern for the language against each line.
func scanDeclarations(content []byte, patterns []declPattern) []Declaration {
	var decls []Declaration

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20) //nolint:mnd // allow long lines

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		for _, pat := range patterns {
			match := pat.re.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			decl := Declaration{
				Kind:        pat.kind,
				Name:        group(match, pat.nameIdx),
				LineNumber:  lineNo,
				LineContent: strings.TrimRight(line, "\r"),
			}

			if pat.extendsIdx > 0 {
				decl.Extends = group(match, pat.extendsIdx)
			}

			if sig := signatureGroup(match); sig != "" {
				if pat.returnIdx > 0 {
					if ret := group(match, pat.returnIdx); ret != "" {
						sig += " -> " + ret
					}
				}

				decl.Signature = sig
			}

			decls = append(decls, decl)

			break
		}
	}

	return decls
}

func group(match []string, idx int) string {
	if idx <= 0 || idx >= len(match) {
		return ""
	}

	return strings.TrimSpace(match[idx])
}

// signatureGroup finds the first "(...)"-shaped capture group in a match,
// which for function/method patterns holds the parameter list.
func signatureGroup(match []string) string {
	for _, g := range match[1:] {
		if strings.HasPrefix(g, "(") && strings.HasSuffix(g, ")") {
			return g
		}
	}

	return ""
}
