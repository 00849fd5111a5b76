// Package typesig performs heuristic extraction of typed
// symbols, function signatures, generics, and casts for statically-typed
// languages. It is built on regex scanning in the style of pkg/extract
// rather than pkg/uastlite, since the contract ("explicit_type_ratio",
// "unique_type_count") is about textual type annotations, which a bounded
// AST summary does not surface cheaply.
package typesig

import (
	"regexp"
	"strings"
)

// staticallyTypedLanguages is the set C4 operates on.
var staticallyTypedLanguages = map[string]bool{
	"typescript": true,
	"java":       true,
	"go":         true,
	"csharp":     true,
	"rust":       true,
}

// unsafeTypeMarkers are the literals treated as unsafe-type usage
// markers.
var unsafeTypeMarkers = map[string]bool{
	"any":     true,
	"unknown": true,
	"dynamic": true,
	"object":  true,
}

// Parameter is one typed (or inferred) function parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// FunctionSignature is one extracted function/method signature.
type FunctionSignature struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"return_type,omitempty"`
	Parameters []Parameter `json:"parameters"`
	LineNumber int         `json:"line_number"`
}

// TypedSymbol is one name+type+kind binding (variable, field, constant...).
type TypedSymbol struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	Explicit bool   `json:"explicit"`
}

// TypeDefinition is one type/interface/struct/enum declaration.
type TypeDefinition struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	LineNumber int `json:"line_number"`
}

// Summary is the C4 output envelope payload.
type Summary struct {
	ExplicitTypeRatio float64             `json:"explicit_type_ratio"`
	UniqueTypeCount   int                 `json:"unique_type_count"`
	TypeDefinitions   []TypeDefinition    `json:"type_definitions"`
	TypedSymbols      []TypedSymbol       `json:"typed_symbols"`
	Signatures        []FunctionSignature `json:"signatures"`
	GenericUsages     []string            `json:"generic_usages"`
	Casts             []string            `json:"casts"`
}

// Analyze runs C4 over file content. Languages outside the statically-typed
// set return a zero-value Summary (no explicit-typing concept applies).
func Analyze(language string, content []byte) Summary {
	if !staticallyTypedLanguages[language] {
		return Summary{}
	}

	symbols := extractTypedSymbols(language, content)
	sigs := extractSignatures(language, content)
	defs := extractTypeDefinitions(language, content)
	generics := extractGenerics(content)
	casts := extractCasts(language, content)

	explicit, inferred := 0, 0

	for _, s := range symbols {
		if s.Explicit {
			explicit++
		} else {
			inferred++
		}
	}

	for _, sig := range sigs {
		for _, p := range sig.Parameters {
			if p.Type != "" {
				explicit++
			} else {
				inferred++
			}
		}
	}

	ratio := 0.0
	if explicit+inferred > 0 {
		ratio = float64(explicit) / float64(explicit+inferred)
	}

	return Summary{
		TypeDefinitions:   defs,
		TypedSymbols:      symbols,
		Signatures:        sigs,
		GenericUsages:     generics,
		Casts:             casts,
		ExplicitTypeRatio: ratio,
		UniqueTypeCount:   countUniqueTypes(symbols, sigs),
	}
}

// UnsafeTypeCount counts occurrences of the unsafe-type markers (any,
// unknown, dynamic, object) across typed symbols and signature parameters.
func (s Summary) UnsafeTypeCount() int {
	count := 0

	for _, sym := range s.TypedSymbols {
		if unsafeTypeMarkers[strings.ToLower(baseType(sym.Type))] {
			count++
		}
	}

	for _, sig := range s.Signatures {
		for _, p := range sig.Parameters {
			if unsafeTypeMarkers[strings.ToLower(baseType(p.Type))] {
				count++
			}
		}

		if unsafeTypeMarkers[strings.ToLower(baseType(sig.ReturnType))] {
			count++
		}
	}

	return count
}

func baseType(t string) string {
	t = strings.TrimSuffix(strings.TrimSpace(t), "[]")

	return strings.TrimPrefix(t, "*")
}

func countUniqueTypes(symbols []TypedSymbol, sigs []FunctionSignature) int {
	seen := make(map[string]bool)

	for _, s := range symbols {
		if s.Type != "" {
			seen[s.Type] = true
		}
	}

	for _, sig := range sigs {
		if sig.ReturnType != "" {
			seen[sig.ReturnType] = true
		}

		for _, p := range sig.Parameters {
			if p.Type != "" {
				seen[p.Type] = true
			}
		}
	}

	return len(seen)
}

var genericUsageRe = regexp.MustCompile(`\b(\w+)<([\w,\s\[\]]+)>`)

func extractGenerics(content []byte) []string {
	var out []string

	seen := make(map[string]bool)

	for _, m := range genericUsageRe.FindAllSubmatch(content, -1) {
		usage := string(m[0])
		if !seen[usage] {
			seen[usage] = true

			out = append(out, usage)
		}
	}

	return out
}

var castPatterns = map[string]*regexp.Regexp{
	"typescript": regexp.MustCompile(`\bas\s+(\w+)\b`),
	"java":       regexp.MustCompile(`\(\s*(\w+)\s*\)\s*\w`),
	"csharp":     regexp.MustCompile(`\(\s*(\w+)\s*\)\s*\w`),
	"rust":       regexp.MustCompile(`\bas\s+(\w+)\b`),
	"go":         regexp.MustCompile(`\.\(\s*(\w+)\s*\)`),
}

func extractCasts(language string, content []byte) []string {
	re, ok := castPatterns[language]
	if !ok {
		return nil
	}

	var out []string
	for _, m := range re.FindAllSubmatch(content, -1) {
		out = append(out, string(m[1]))
	}

	return out
}
