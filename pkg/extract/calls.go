package extract

import "regexp"

var callTokenRe = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*\(`)

// keywords that precede '(' syntactically but never name a callable —
// filtered out of CallTokens so control-flow doesn't masquerade as a
// call-graph edge.
var callKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "def": true, "class": true, "fn": true,
	"func": true, "elif": true, "foreach": true, "case": true, "when": true,
	"unless": true, "until": true, "match": true, "new": true, "typeof": true,
	"sizeof": true, "in": true, "and": true, "or": true, "not": true,
}

// CallTokens returns the set of identifiers immediately followed by
// "(" in content: the signal used to
// refine an import edge into a call-kind edge when it intersects the
// target file's extracted function names.
func CallTokens(language string, content []byte) []string {
	matches := callTokenRe.FindAllSubmatch(content, -1)

	seen := make(map[string]bool)
	var tokens []string

	for _, m := range matches {
		name := string(m[1])
		if callKeywords[name] {
			continue
		}

		if !seen[name] {
			seen[name] = true
			tokens = append(tokens, name)
		}
	}

	_ = language // token shape is language-agnostic; kept for symmetry with Functions/Imports

	return tokens
}
