package contractkernel

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vinpuli/archscribe/pkg/extract"
	"github.com/vinpuli/archscribe/pkg/typesig"
)

// Entry is one contract surface member.
type Entry struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
}

// Surface is a file's extracted contract surface, keyed by
// "{kind}:{name}" (or "endpoint:{METHOD}:{route}").
type Surface map[string]Entry

var jsonYAMLExtensions = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// BuildSurface extracts the Contract Surface for one file's content,
// dispatching on language for source files and on extension for
// JSON/YAML data files.
func BuildSurface(language, path string, content []byte) Surface {
	ext := extOf(path)
	if jsonYAMLExtensions[ext] {
		return dataSurface(ext, content)
	}

	surface := make(Surface)

	for _, decl := range extract.Functions(language, content) {
		kind := decl.Kind
		if kind == "struct" {
			kind = "class" // contract surface's closed kind set has no "struct"; a struct is a data class here
		}

		key := kind + ":" + decl.Name
		surface[key] = Entry{Kind: kind, Name: decl.Name, Signature: decl.Signature}
	}

	for _, def := range typesig.Analyze(language, content).TypeDefinitions {
		key := def.Kind + ":" + def.Name
		surface[key] = Entry{Kind: def.Kind, Name: def.Name}
	}

	for _, ep := range extractEndpoints(language, content) {
		key := fmt.Sprintf("endpoint:%s:%s", ep.method, ep.route)
		surface[key] = Entry{Kind: "endpoint", Name: ep.method + " " + ep.route, Signature: ep.route}
	}

	return surface
}

func extOf(p string) string {
	idx := strings.LastIndexByte(p, '.')
	if idx < 0 {
		return ""
	}

	return strings.ToLower(p[idx:])
}

// dataSurface treats each top-level key of a JSON or YAML document as
// a schema_key entry, tagged with a coarse value-shape ("object",
// "array", "scalar").
func dataSurface(ext string, content []byte) Surface {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Surface{}
	}

	surface := make(Surface)

	for key, val := range doc {
		shape := valueShape(val)
		surface["schema_key:"+key] = Entry{Kind: "schema_key", Name: key, Signature: shape}
	}

	_ = ext // JSON is valid YAML 1.2, so one unmarshaler covers both

	return surface
}

func valueShape(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return "scalar"
	}
}

type endpointMatch struct {
	method string
	route  string
}

var (
	flaskRouteRe   = regexp.MustCompile(`@\w+\.route\(\s*['"]([^'"]+)['"](?:.*methods\s*=\s*\[([^\]]*)\])?`)
	fastAPIRouteRe = regexp.MustCompile(`@\w+\.(get|post|put|patch|delete)\(\s*['"]([^'"]+)['"]`)
	expressRouteRe = regexp.MustCompile(`\b\w+\.(get|post|put|patch|delete)\(\s*['"]([^'"]+)['"]`)
	springRouteRe  = regexp.MustCompile(`@(Get|Post|Put|Patch|Delete)Mapping\(\s*['"]([^'"]+)['"]`)
)

// extractEndpoints is a best-effort heuristic over common route
// decorator/call shapes; it never fails, it simply finds nothing for
// frameworks it doesn't recognize.
func extractEndpoints(language string, content []byte) []endpointMatch {
	var matches []endpointMatch

	switch language {
	case "python":
		for _, m := range fastAPIRouteRe.FindAllStringSubmatch(string(content), -1) {
			matches = append(matches, endpointMatch{method: strings.ToUpper(m[1]), route: m[2]})
		}

		for _, m := range flaskRouteRe.FindAllStringSubmatch(string(content), -1) {
			methods := parseMethodList(m[2])
			for _, method := range methods {
				matches = append(matches, endpointMatch{method: method, route: m[1]})
			}
		}
	case "javascript", "typescript":
		for _, m := range expressRouteRe.FindAllStringSubmatch(string(content), -1) {
			matches = append(matches, endpointMatch{method: strings.ToUpper(m[1]), route: m[2]})
		}
	case "java":
		for _, m := range springRouteRe.FindAllStringSubmatch(string(content), -1) {
			matches = append(matches, endpointMatch{method: strings.ToUpper(m[1]), route: m[2]})
		}
	}

	return matches
}

func parseMethodList(raw string) []string {
	if raw == "" {
		return []string{"GET"}
	}

	var methods []string

	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" {
			methods = append(methods, strings.ToUpper(part))
		}
	}

	if len(methods) == 0 {
		return []string{"GET"}
	}

	return methods
}
