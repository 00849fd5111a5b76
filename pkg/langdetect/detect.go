// Package langdetect maps a file to one of a closed set of languages using
// extension, shebang, and content-regex voting. The extension lookup
// is backed by src-d/enry; the shebang step uses this package's own
// interpreter table, and the content-regex voting step is this package's
// own heuristic since enry has no equivalent "top two must diverge by a
// margin" contract.
package langdetect

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"
)

// DetectedBy enumerates how a language was decided.
type DetectedBy string

const (
	ByExtension DetectedBy = "extension"
	ByShebang   DetectedBy = "shebang"
	ByContent   DetectedBy = "content"
	ByUnknown   DetectedBy = "unknown"
)

// maxShebangWindow bounds how much of a file we read to look for a shebang
// or run content regex voting ("read up to 32 KiB").
const maxShebangWindow = 32 * 1024

// Unknown is returned for the language field when nothing voted convincingly.
const Unknown = "unknown"

// targetLanguages is the closed detection target set.
var targetLanguages = map[string]bool{
	"typescript": true,
	"javascript": true,
	"python":     true,
	"java":       true,
	"go":         true,
	"csharp":     true,
	"rust":       true,
	"php":        true,
	"ruby":       true,
}

// shebangLanguages is the closed set a shebang line may resolve to.
var shebangLanguages = map[string]string{
	"python":     "python",
	"python3":    "python",
	"node":       "javascript",
	"nodejs":     "javascript",
	"php":        "php",
	"ruby":       "ruby",
}

// Result is the output of Detect.
type Result struct {
	Language         string     `json:"language"`
	Extension        string     `json:"extension"`
	DetectedBy       DetectedBy `json:"detected_by"`
	Confidence       float64    `json:"confidence"`
	IsTargetLanguage bool       `json:"is_target_language"`
}

// contentPattern is one vote-worthy regex for a language's content family.
type contentPattern struct {
	lang string
	re   *regexp.Regexp
}

// contentFamilies holds five regex patterns per language, voting across
// language-tagged regex families when extension and shebang detection
// both miss.
var contentFamilies = buildContentFamilies()

func buildContentFamilies() []contentPattern {
	type spec struct {
		lang     string
		patterns []string
	}

	specs := []spec{
		{"python", []string{
			`(?m)^\s*def\s+\w+\s*\(`,
			`(?m)^\s*import\s+\w+`,
			`(?m)^\s*from\s+\S+\s+import\s+`,
			`(?m)^\s*class\s+\w+[:(]`,
			`(?m):\s*$`,
		}},
		{"javascript", []string{
			`(?m)\bfunction\s*\w*\s*\(`,
			`(?m)\bconst\s+\w+\s*=`,
			`(?m)\brequire\(\s*['"]`,
			`(?m)=>\s*\{?`,
			`(?m)\bmodule\.exports\b`,
		}},
		{"typescript", []string{
			`(?m):\s*(string|number|boolean|any|void)\b`,
			`(?m)\binterface\s+\w+\s*\{`,
			`(?m)\bexport\s+(type|interface|class)\b`,
			`(?m)<\w+>\s*\(`,
			`(?m)\bimport\s+.*\s+from\s+['"]`,
		}},
		{"java", []string{
			`(?m)\bpublic\s+(class|interface|enum)\s+\w+`,
			`(?m)\bpackage\s+[\w.]+;`,
			`(?m)\bimport\s+[\w.]+;`,
			`(?m)\bpublic\s+static\s+void\s+main\s*\(`,
			`(?m)@Override\b`,
		}},
		{"go", []string{
			`(?m)^package\s+\w+`,
			`(?m)^func\s+\w*\s*\(`,
			`(?m)\bgo\s+func\s*\(`,
			`(?m):=\s*`,
			`(?m)^import\s*\(`,
		}},
		{"csharp", []string{
			`(?m)\bnamespace\s+[\w.]+`,
			`(?m)\busing\s+[\w.]+;`,
			`(?m)\bpublic\s+(class|interface|struct)\s+\w+`,
			`(?m)\bvar\s+\w+\s*=`,
			`(?m)\[\w+(\(.*\))?\]\s*$`,
		}},
		{"rust", []string{
			`(?m)^fn\s+\w+\s*\(`,
			`(?m)\blet\s+mut\s+\w+`,
			`(?m)^use\s+[\w:]+;`,
			`(?m)\bimpl\s+\w+`,
			`(?m)->\s*\w+\s*\{`,
		}},
		{"php", []string{
			`(?m)^<\?php`,
			`(?m)\$\w+\s*=`,
			`(?m)\bfunction\s+\w+\s*\(`,
			`(?m)\becho\s+`,
			`(?m)->\w+\(`,
		}},
		{"ruby", []string{
			`(?m)^\s*def\s+\w+`,
			`(?m)^\s*require\s+['"]`,
			`(?m)^\s*class\s+\w+\s*(<|$)`,
			`(?m)\bend\s*$`,
			`(?m):\w+\s*=>`,
		}},
	}

	families := make([]contentPattern, 0, len(specs)*5) //nolint:mnd // five patterns per language

	for _, s := range specs {
		for _, p := range s.patterns {
			families = append(families, contentPattern{lang: s.lang, re: regexp.MustCompile(p)})
		}
	}

	return families
}

// Detect implements the decision order: extension, then
// shebang, then content-regex voting. It never returns an error; an
// unreadable or binary file degrades to Unknown at confidence 0.35.
func Detect(path string) Result {
	ext := extensionOf(path)

	if lang, ok := extensionLanguage(path); ok {
		return Result{
			Language:         lang,
			Extension:        ext,
			DetectedBy:       ByExtension,
			Confidence:       0.98, //nolint:mnd // fixed confidence for extension match
			IsTargetLanguage: targetLanguages[lang],
		}
	}

	window, _ := readWindow(path, maxShebangWindow)

	if lang, ok := shebangLanguage(window); ok {
		return Result{
			Language:         lang,
			Extension:        ext,
			DetectedBy:       ByShebang,
			Confidence:       0.9, //nolint:mnd // fixed confidence for shebang match
			IsTargetLanguage: targetLanguages[lang],
		}
	}

	return detectByContent(window, ext)
}

// DetectBytes is Detect's pure variant for callers that already hold file
// bytes (e.g. an inline-code MCP tool call with no filesystem path).
func DetectBytes(filename string, content []byte) Result {
	ext := extensionOf(filename)

	if lang, ok := extensionLanguageFromName(filename); ok {
		return Result{
			Language:         lang,
			Extension:        ext,
			DetectedBy:       ByExtension,
			Confidence:       0.98, //nolint:mnd
			IsTargetLanguage: targetLanguages[lang],
		}
	}

	window := content
	if len(window) > maxShebangWindow {
		window = window[:maxShebangWindow]
	}

	if lang, ok := shebangLanguage(window); ok {
		return Result{
			Language:         lang,
			Extension:        ext,
			DetectedBy:       ByShebang,
			Confidence:       0.9, //nolint:mnd
			IsTargetLanguage: targetLanguages[lang],
		}
	}

	return detectByContent(window, ext)
}

func extensionOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	slash := strings.LastIndexAny(path, `/\`)

	if idx <= slash {
		return ""
	}

	return strings.ToLower(path[idx:])
}

// extensionLanguage asks enry to resolve a file's extension to a language,
// filtered down to the closed target set plus a handful of extra
// languages the file-node language enum also recognizes.
func extensionLanguage(path string) (string, bool) {
	return extensionLanguageFromName(path)
}

func extensionLanguageFromName(name string) (string, bool) {
	lang, ok := enry.GetLanguageByExtension(name)
	if !ok {
		return "", false
	}

	return normalizeEnryName(lang)
}

// normalizeEnryName maps enry's canonical language names (e.g. "C#",
// "Go", "Python") onto this system's lowercase identifiers.
func normalizeEnryName(enryLang string) (string, bool) {
	switch strings.ToLower(enryLang) {
	case "python":
		return "python", true
	case "javascript":
		return "javascript", true
	case "typescript":
		return "typescript", true
	case "java":
		return "java", true
	case "go":
		return "go", true
	case "c#":
		return "csharp", true
	case "rust":
		return "rust", true
	case "php":
		return "php", true
	case "ruby":
		return "ruby", true
	case "c":
		return "c", true
	case "c++":
		return "cpp", true
	default:
		return "", false
	}
}

func shebangLanguage(window []byte) (string, bool) {
	firstLine := firstLineOf(window)
	if !strings.HasPrefix(firstLine, "#!") {
		return "", false
	}

	interp := shebangInterpreter(firstLine)
	if interp == "" {
		return "", false
	}

	lang, ok := shebangLanguages[interp]

	return lang, ok
}

func shebangInterpreter(line string) string {
	fields := strings.Fields(strings.TrimPrefix(line, "#!"))
	if len(fields) == 0 {
		return ""
	}

	bin := fields[0]
	// Handle "#!/usr/bin/env python3" style shebangs.
	if strings.HasSuffix(bin, "/env") && len(fields) > 1 {
		bin = fields[1]
	}

	bin = bin[strings.LastIndexByte(bin, '/')+1:]

	return strings.ToLower(bin)
}

func firstLineOf(window []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(window))
	if scanner.Scan() {
		return scanner.Text()
	}

	return ""
}

func readWindow(path string, limit int) ([]byte, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from a caller-controlled repository scope
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, limit)

	n, readErr := io.ReadFull(file, buf)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return nil, readErr
	}

	return buf[:n], nil
}

// detectByContent runs the five-pattern-per-language regex vote. The top
// language must strictly beat the runner-up and score
// at least 2 votes, else the file is Unknown.
func detectByContent(window []byte, ext string) Result {
	scores := make(map[string]int, len(targetLanguages))

	for _, fam := range contentFamilies {
		if fam.re.Match(window) {
			scores[fam.lang]++
		}
	}

	type scored struct {
		lang  string
		score int
	}

	ranked := make([]scored, 0, len(scores))
	for lang, score := range scores {
		ranked = append(ranked, scored{lang, score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].lang < ranked[j].lang
	})

	const minVotes = 2

	if len(ranked) == 0 || ranked[0].score < minVotes {
		return Result{Language: Unknown, Extension: ext, DetectedBy: ByUnknown, Confidence: 0.35} //nolint:mnd
	}

	if len(ranked) > 1 && ranked[0].score == ranked[1].score {
		return Result{Language: Unknown, Extension: ext, DetectedBy: ByUnknown, Confidence: 0.35} //nolint:mnd
	}

	top := ranked[0]
	confidence := minFloat(0.9, 0.45+0.12*float64(top.score)) //nolint:mnd // confidence formula

	return Result{
		Language:         top.lang,
		Extension:        ext,
		DetectedBy:       ByContent,
		Confidence:       confidence,
		IsTargetLanguage: targetLanguages[top.lang],
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}

	return b
}
