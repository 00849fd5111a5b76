// Package uastlite is a bounded-AST Tree-sitter adapter. It wraps
// alexaandru/go-tree-sitter-bare plus the go-sitter-forest grammar
// registry; when a grammar cannot be loaded it degrades to a "simple
// parse" summary instead of failing the caller.
package uastlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	forest "github.com/alexaandru/go-sitter-forest"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for adapter operations.
var (
	errUnsupportedLanguage = errors.New("uastlite: no grammar mapped for language")
	errGrammarLoad         = errors.New("uastlite: grammar failed to load")
	errParsePanic          = errors.New("uastlite: tree-sitter parse panicked")
	errNoRoot              = errors.New("uastlite: parser returned a null root node")
)

// TreeSitterServiceError wraps any failure from the tree-sitter runtime so
// callers can record it as a parse_warning without the third-party panic
// or error type leaking into the envelope.
type TreeSitterServiceError struct {
	Language string
	Cause    error
}

func (e *TreeSitterServiceError) Error() string {
	return fmt.Sprintf("tree-sitter service: language %q: %v", e.Language, e.Cause)
}

func (e *TreeSitterServiceError) Unwrap() error { return e.Cause }

// grammarNames maps this system's language identifiers to go-sitter-forest
// grammar names. Languages outside this map always fall back to a simple
// parse.
var grammarNames = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"typescript": "typescript",
	"java":       "java",
	"go":         "go",
	"csharp":     "c_sharp",
	"rust":       "rust",
	"php":        "php",
	"ruby":       "ruby",
	"c":          "cpp",
	"cpp":        "cpp",
}

// Adapter loads and caches one tree-sitter parser per canonical language.
type Adapter struct {
	mu       sync.Mutex
	parsers  map[string]*sitter.Parser
	maxNode  int
	maxDepth int

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheHits returns the number of parserFor calls served from the
// already-loaded parser cache. Implements observability.CacheStatsProvider.
func (a *Adapter) CacheHits() int64 { return a.hits.Load() }

// CacheMisses returns the number of parserFor calls that loaded a new
// grammar. Implements observability.CacheStatsProvider.
func (a *Adapter) CacheMisses() int64 { return a.misses.Load() }

// NewAdapter creates an Adapter with the default AST budget (500 nodes,
// depth 6).
func NewAdapter() *Adapter {
	return &Adapter{
		parsers:  make(map[string]*sitter.Parser),
		maxNode:  500,  //nolint:mnd
		maxDepth: 6,    //nolint:mnd
	}
}

// WithBudget overrides the serialized-node and depth budget.
func (a *Adapter) WithBudget(maxNode, maxDepth int) *Adapter {
	a.maxNode = maxNode
	a.maxDepth = maxDepth

	return a
}

// IsAvailable reports whether a tree-sitter grammar is loadable for the
// given language without attempting a parse.
func (a *Adapter) IsAvailable(language string) bool {
	_, err := a.parserFor(language)

	return err == nil
}

// Summary is the bounded AST summary.
type Summary struct {
	AST       *ASTNode  `json:"ast"`
	Root      string    `json:"root"`
	Language  string    `json:"language"`
	NodeCount int       `json:"node_count"`
	Depth     int       `json:"depth"`
	HasError  bool      `json:"has_error"`
	ByteRange [2]uint32 `json:"byte_range"`
	LineRange [2]uint32 `json:"line_range"`
}

// ASTNode is one node of the depth- and count-limited serialized tree.
type ASTNode struct {
	Type              string     `json:"type"`
	Named             bool       `json:"named"`
	ByteRange         [2]uint32  `json:"byte_range"`
	LineRange         [2]uint32  `json:"line_range"`
	Children          []*ASTNode `json:"children,omitempty"`
	ChildrenTruncated bool       `json:"children_truncated,omitempty"`
}

// Parse produces a bounded AST summary for content in the given language.
// On grammar unavailability or a parse failure it returns a "simple parse"
// summary (root=module, node_count=line_count) plus the captured error so
// the caller can record a parse_warning.
func (a *Adapter) Parse(ctx context.Context, language string, content []byte) (Summary, error) {
	parser, err := a.parserFor(language)
	if err != nil {
		return simpleParse(language, content), err
	}

	tree, parseErr := safeParseString(ctx, parser, content)
	if parseErr != nil {
		return simpleParse(language, content), &TreeSitterServiceError{Language: language, Cause: parseErr}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return simpleParse(language, content), &TreeSitterServiceError{Language: language, Cause: errNoRoot}
	}

	count := 0
	serialized := serialize(root, a.maxNode, a.maxDepth, 0, &count)

	startPt := root.StartPoint()
	endPt := root.EndPoint()

	return Summary{
		Root:      root.Type(),
		Language:  language,
		NodeCount: count,
		Depth:     depthOf(serialized),
		HasError:  root.HasError(),
		ByteRange: [2]uint32{root.StartByte(), root.EndByte()},
		LineRange: [2]uint32{startPt.Row, endPt.Row},
		AST:       serialized,
	}, nil
}

// parserFor returns the cached parser for language, loading and caching it
// on first use. A recovered panic from the grammar loader (go-sitter-forest
// panics on genuinely unknown names) is converted into an error.
func (a *Adapter) parserFor(language string) (parser *sitter.Parser, err error) {
	grammarName, supported := grammarNames[language]
	if !supported {
		return nil, fmt.Errorf("%w: %s", errUnsupportedLanguage, language)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if cached, ok := a.parsers[language]; ok {
		a.hits.Add(1)

		return cached, nil
	}

	a.misses.Add(1)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errGrammarLoad, r)
		}
	}()

	lang := forest.GetLanguage(grammarName)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", errGrammarLoad, grammarName)
	}

	tsParser := sitter.NewParser()
	tsParser.SetLanguage(lang)

	a.parsers[language] = tsParser

	return tsParser, nil
}

func safeParseString(ctx context.Context, parser *sitter.Parser, content []byte) (tree *sitter.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errParsePanic, r)
		}
	}()

	return parser.ParseString(ctx, nil, content)
}

func serialize(n sitter.Node, maxNode, maxDepth, depth int, count *int) *ASTNode {
	*count++

	startPt := n.StartPoint()
	endPt := n.EndPoint()

	out := &ASTNode{
		Type:      n.Type(),
		Named:     n.IsNamed(),
		ByteRange: [2]uint32{n.StartByte(), n.EndByte()},
		LineRange: [2]uint32{startPt.Row, endPt.Row},
	}

	if depth >= maxDepth {
		if n.NamedChildCount() > 0 {
			out.ChildrenTruncated = true
		}

		return out
	}

	childCount := n.NamedChildCount()
	for i := range childCount {
		if *count >= maxNode {
			out.ChildrenTruncated = true

			break
		}

		child := n.NamedChild(i)
		out.Children = append(out.Children, serialize(child, maxNode, maxDepth, depth+1, count))
	}

	return out
}

func depthOf(n *ASTNode) int {
	if n == nil || len(n.Children) == 0 {
		return 1
	}

	maxChild := 0
	for _, c := range n.Children {
		if d := depthOf(c); d > maxChild {
			maxChild = d
		}
	}

	return maxChild + 1
}

// simpleParse is the degraded fallback: root=module, node_count=line_count.
func simpleParse(language string, content []byte) Summary {
	lineCount := countLines(content)

	return Summary{
		Root:      "module",
		Language:  language,
		NodeCount: lineCount,
		Depth:     1,
		ByteRange: [2]uint32{0, uint32(len(content))}, //nolint:gosec // bounded by caller's file-size policy
		LineRange: [2]uint32{0, uint32(lineCount)},     //nolint:gosec
	}
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}

	count := 1

	for _, b := range content {
		if b == '\n' {
			count++
		}
	}

	if content[len(content)-1] == '\n' {
		count--
	}

	return count
}
