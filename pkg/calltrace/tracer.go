package calltrace

import "sort"

// DefaultMaxDepth is default BFS depth cap.
const DefaultMaxDepth = 5

// Dependent is one file discovered downstream of a seed.
type Dependent struct {
	Path          string   `json:"path"`
	Depth         int      `json:"depth"`
	ViaPath       string   `json:"via_path"`
	EdgeKind      EdgeKind `json:"edge_kind"`
	CalledSymbols []string `json:"called_symbols"`
}

// Options configures a Trace invocation.
type Options struct {
	Seeds    []string
	MaxDepth int
}

// Trace performs a reverse BFS over the refined call graph from the
// given seeds. Each dependent is recorded once, at its shallowest
// discovery depth; when a node is reachable at the same depth via
// both a call and an import_reference edge, the call edge wins
// (tie-break).
func Trace(edges []RefinedEdge, opts Options) []Dependent {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	reverse := make(map[string][]RefinedEdge)
	for _, e := range edges {
		reverse[e.Target] = append(reverse[e.Target], e)
	}

	for k := range reverse {
		sort.Slice(reverse[k], func(i, j int) bool { return reverse[k][i].Source < reverse[k][j].Source })
	}

	seeded := make(map[string]bool)
	for _, s := range opts.Seeds {
		seeded[s] = true
	}

	found := make(map[string]Dependent)

	type frontierItem struct {
		path  string
		depth int
	}

	var frontier []frontierItem
	for _, s := range opts.Seeds {
		frontier = append(frontier, frontierItem{path: s, depth: 0})
	}

	visited := make(map[string]bool)
	for _, s := range opts.Seeds {
		visited[s] = true
	}

	for len(frontier) > 0 && frontier[0].depth < maxDepth {
		cur := frontier[0]
		frontier = frontier[1:]

		for _, e := range reverse[cur.path] {
			depth := cur.depth + 1

			existing, ok := found[e.Source]
			if !ok {
				found[e.Source] = Dependent{
					Path: e.Source, Depth: depth, ViaPath: cur.path,
					EdgeKind: e.Kind, CalledSymbols: e.CalledSymbols,
				}
			} else if depth < existing.Depth || (depth == existing.Depth && e.Kind == Call && existing.EdgeKind != Call) {
				found[e.Source] = Dependent{
					Path: e.Source, Depth: depth, ViaPath: cur.path,
					EdgeKind: e.Kind, CalledSymbols: e.CalledSymbols,
				}
			}

			if !visited[e.Source] {
				visited[e.Source] = true
				frontier = append(frontier, frontierItem{path: e.Source, depth: depth})
			}
		}
	}

	result := make([]Dependent, 0, len(found))
	for _, d := range found {
		if seeded[d.Path] {
			continue
		}

		result = append(result, d)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Depth != result[j].Depth {
			return result[i].Depth < result[j].Depth
		}

		return result[i].Path < result[j].Path
	})

	return result
}
