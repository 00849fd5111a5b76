// Package dynrisk detects reflection, eval, dynamic imports, and
// serialization risk in dynamic languages, plus a syntactic-construct
// census and a weighted risk score.
package dynrisk

import "regexp"

// dynamicLanguages is the set this analyzer operates over (the complement
// of the statically-typed analyzer's target languages).
var dynamicLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"php":        true,
	"ruby":       true,
}

// Counts is the syntactic-construct census.
type Counts struct {
	Functions  int `json:"functions"`
	Classes    int `json:"classes"`
	Conditionals int `json:"conditionals"`
	Loops      int `json:"loops"`
	ExceptionHandling int `json:"exception_handling"`
}

// Summary is the C5 output.
type Summary struct {
	Constructs        Counts   `json:"constructs"`
	DynamicConstructs []string `json:"dynamic_constructs"`
	RuntimeHooks      []string `json:"runtime_hooks"`
	Reflection        []string `json:"reflection"`
	DynamicImports    []string `json:"dynamic_imports"`
	SerializationRisks []string `json:"serialization_risks"`
	Metaprogramming   []string `json:"metaprogramming"`
	RiskScore         int      `json:"risk_score"`
}

type taggedPattern struct {
	re  *regexp.Regexp
	tag string
}

var (
	dynamicConstructPatterns = map[string][]taggedPattern{
		"python":     {{regexp.MustCompile(`\beval\s*\(`), "eval"}, {regexp.MustCompile(`\bexec\s*\(`), "exec"}, {regexp.MustCompile(`\bcompile\s*\(`), "compile"}},
		"javascript": {{regexp.MustCompile(`\beval\s*\(`), "eval"}, {regexp.MustCompile(`\bnew\s+Function\s*\(`), "Function"}},
		"php":        {{regexp.MustCompile(`\beval\s*\(`), "eval"}, {regexp.MustCompile(`\bcreate_function\s*\(`), "create_function"}},
		"ruby":       {{regexp.MustCompile(`\beval\s*\(`), "eval"}, {regexp.MustCompile(`\bclass_eval\b`), "class_eval"}, {regexp.MustCompile(`\binstance_eval\b`), "instance_eval"}},
	}

	runtimeHookPatterns = map[string][]taggedPattern{
		"python":     {{regexp.MustCompile(`\b__getattr__\b`), "__getattr__"}, {regexp.MustCompile(`\b__setattr__\b`), "__setattr__"}, {regexp.MustCompile(`\b__call__\b`), "__call__"}},
		"javascript": {{regexp.MustCompile(`\bnew\s+Proxy\s*\(`), "Proxy"}, {regexp.MustCompile(`\bReflect\.\w+\(`), "Reflect"}},
		"php":        {{regexp.MustCompile(`\b__call\s*\(`), "__call"}, {regexp.MustCompile(`\b__get\s*\(`), "__get"}, {regexp.MustCompile(`\b__set\s*\(`), "__set"}},
		"ruby":       {{regexp.MustCompile(`\bmethod_missing\b`), "method_missing"}, {regexp.MustCompile(`\bdefine_method\b`), "define_method"}},
	}

	reflectionPatterns = map[string][]taggedPattern{
		"python":     {{regexp.MustCompile(`\bgetattr\s*\(`), "getattr"}, {regexp.MustCompile(`\bsetattr\s*\(`), "setattr"}, {regexp.MustCompile(`\bhasattr\s*\(`), "hasattr"}},
		"javascript": {{regexp.MustCompile(`\bReflect\.\w+\(`), "Reflect"}, {regexp.MustCompile(`\bObject\.getPrototypeOf\(`), "getPrototypeOf"}},
		"php":        {{regexp.MustCompile(`\bReflectionClass\b`), "ReflectionClass"}, {regexp.MustCompile(`\bReflectionMethod\b`), "ReflectionMethod"}},
		"ruby":       {{regexp.MustCompile(`\.send\s*\(`), "send"}, {regexp.MustCompile(`\.respond_to\?`), "respond_to?"}},
	}

	dynamicImportPatterns = map[string][]taggedPattern{
		"python":     {{regexp.MustCompile(`\b__import__\s*\(`), "__import__"}, {regexp.MustCompile(`\bimportlib\.import_module\s*\(`), "importlib"}},
		"javascript": {{regexp.MustCompile(`\bimport\(\s*['"]?\$\{`), "dynamic_template_import"}, {regexp.MustCompile(`\brequire\(\s*\w+\s*\)`), "dynamic_require"}},
		"php":        {{regexp.MustCompile(`\binclude\s*\(\s*\$`), "dynamic_include"}},
		"ruby":       {{regexp.MustCompile(`\bload\s*\(\s*\w+`), "dynamic_load"}},
	}

	serializationPatterns = map[string][]taggedPattern{
		"python":     {{regexp.MustCompile(`\bpickle\.loads?\s*\(`), "pickle"}, {regexp.MustCompile(`\byaml\.load\s*\(`), "yaml.load"}, {regexp.MustCompile(`\bmarshal\.loads?\s*\(`), "marshal"}},
		"javascript": {{regexp.MustCompile(`\bJSON\.parse\s*\(.*eval`), "eval_json"}, {regexp.MustCompile(`\bnode-serialize\b`), "node-serialize"}},
		"php":        {{regexp.MustCompile(`\bunserialize\s*\(`), "unserialize"}},
		"ruby":       {{regexp.MustCompile(`\bMarshal\.load\s*\(`), "Marshal"}, {regexp.MustCompile(`\bYAML\.load\s*\(`), "YAML.load"}},
	}

	metaprogrammingPatterns = map[string][]taggedPattern{
		"python":     {{regexp.MustCompile(`\btype\s*\(\s*\w+\s*,\s*\(`), "type_metaclass"}, {regexp.MustCompile(`\b__metaclass__\b`), "__metaclass__"}},
		"javascript": {{regexp.MustCompile(`\bObject\.defineProperty\(`), "defineProperty"}},
		"php":        {{regexp.MustCompile(`\btrait\s+\w+`), "trait"}},
		"ruby":       {{regexp.MustCompile(`\bmodule_eval\b`), "module_eval"}, {regexp.MustCompile(`\bdefine_singleton_method\b`), "define_singleton_method"}},
	}

	functionTokens = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`(?m)^\s*def\s+\w+`),
		"javascript": regexp.MustCompile(`\bfunction\b`),
		"php":        regexp.MustCompile(`\bfunction\s+\w+`),
		"ruby":       regexp.MustCompile(`(?m)^\s*def\s+\w+`),
	}
	classTokens = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`(?m)^\s*class\s+\w+`),
		"javascript": regexp.MustCompile(`\bclass\s+\w+`),
		"php":        regexp.MustCompile(`\bclass\s+\w+`),
		"ruby":       regexp.MustCompile(`(?m)^\s*class\s+\w+`),
	}
	conditionalTokens = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`\b(if|elif)\b`),
		"javascript": regexp.MustCompile(`\bif\s*\(`),
		"php":        regexp.MustCompile(`\b(if|elseif)\s*\(`),
		"ruby":       regexp.MustCompile(`\b(if|elsif|unless)\b`),
	}
	loopTokens = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`\b(for|while)\b`),
		"javascript": regexp.MustCompile(`\b(for|while)\s*\(`),
		"php":        regexp.MustCompile(`\b(for|foreach|while)\s*\(`),
		"ruby":       regexp.MustCompile(`\b(for|while|each)\b`),
	}
	exceptionTokens = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`\b(try|except|finally)\b`),
		"javascript": regexp.MustCompile(`\b(try|catch|finally)\b`),
		"php":        regexp.MustCompile(`\b(try|catch|finally)\b`),
		"ruby":       regexp.MustCompile(`\b(begin|rescue|ensure)\b`),
	}
)

func countConstructs(language string, content []byte) Counts {
	return Counts{
		Functions:         countMatches(functionTokens[language], content),
		Classes:           countMatches(classTokens[language], content),
		Conditionals:      countMatches(conditionalTokens[language], content),
		Loops:             countMatches(loopTokens[language], content),
		ExceptionHandling: countMatches(exceptionTokens[language], content),
	}
}

func countMatches(re *regexp.Regexp, content []byte) int {
	if re == nil {
		return 0
	}

	return len(re.FindAllIndex(content, -1))
}

// Analyze runs C5 over file content for a dynamic language. Statically
// typed languages return a zero-value Summary.
func Analyze(language string, content []byte) Summary {
	if !dynamicLanguages[language] {
		return Summary{}
	}

	summary := Summary{
		Constructs:         countConstructs(language, content),
		DynamicConstructs:  matchAll(dynamicConstructPatterns[language], content),
		RuntimeHooks:       matchAll(runtimeHookPatterns[language], content),
		Reflection:         matchAll(reflectionPatterns[language], content),
		DynamicImports:     matchAll(dynamicImportPatterns[language], content),
		SerializationRisks: matchAll(serializationPatterns[language], content),
		Metaprogramming:    matchAll(metaprogrammingPatterns[language], content),
	}

	summary.RiskScore = score(summary)

	return summary
}

// score implements weighted formula:
// min(100, 4*|dangerous| + 3*|serialization| + 2*(|dynamic_imports|+|runtime_hooks|+|meta|) + 1*|reflection|)
func score(s Summary) int {
	raw := 4*len(s.DynamicConstructs) + //nolint:mnd
		3*len(s.SerializationRisks) + //nolint:mnd
		2*(len(s.DynamicImports)+len(s.RuntimeHooks)+len(s.Metaprogramming)) + //nolint:mnd
		len(s.Reflection)

	if raw > 100 { //nolint:mnd
		return 100
	}

	return raw
}

func matchAll(patterns []taggedPattern, content []byte) []string {
	var out []string

	for _, p := range patterns {
		for range p.re.FindAllIndex(content, -1) {
			out = append(out, p.tag)
		}
	}

	return out
}
