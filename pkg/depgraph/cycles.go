package depgraph

import "sort"

type color int

const (
	unvisited color = iota
	inStack
	done
)

// findCycles performs a recursive DFS with a three-color
// visitation state (recursion depth grows with the longest import
// chain; there is no explicit work stack): on a back-edge to a
// node still marked in-stack, the stack slice between that node and
// the top is extracted as a cycle, then canonicalized and deduped.
func findCycles(nodes []string, edges []Edge) [][]string {
	symbols := newSymbolTable()
	for _, n := range nodes {
		symbols.intern(n)
	}

	adjacency := make(map[int][]int)
	for _, e := range edges {
		if e.External {
			continue
		}

		src := symbols.intern(e.Source)
		dst := symbols.intern(e.Target)

		if src == dst {
			continue // self-loops are never reported as cycles
		}

		adjacency[src] = appendUniqueInt(adjacency[src], dst)
	}

	for k := range adjacency {
		sort.Ints(adjacency[k])
	}

	colors := make(map[int]color)
	var stack []int
	found := make(map[string]bool)
	var cycles [][]string

	var visit func(n int)

	visit = func(n int) {
		colors[n] = inStack
		stack = append(stack, n)

		for _, next := range adjacency[n] {
			switch colors[next] {
			case unvisited:
				visit(next)
			case inStack:
				cycle := extractCycle(stack, next)
				canon := canonicalize(cycle, symbols)
				key := cycleKey(canon)

				if !found[key] {
					found[key] = true
					cycles = append(cycles, canon)
				}
			case done:
				// already fully explored, no new cycle through it
			}
		}

		stack = stack[:len(stack)-1]
		colors[n] = done
	}

	ids := make([]int, 0, symbols.len())
	for i := 0; i < symbols.len(); i++ {
		ids = append(ids, i)
	}

	for _, n := range ids {
		if colors[n] == unvisited {
			visit(n)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cyclePathString(cycles[i]) < cyclePathString(cycles[j])
	})

	return cycles
}

// extractCycle returns the stack slice from the back-edge target to
// the top, in traversal order.
func extractCycle(stack []int, target int) []int {
	for i, n := range stack {
		if n == target {
			cycle := make([]int, len(stack)-i)
			copy(cycle, stack[i:])

			return cycle
		}
	}

	return nil
}

// canonicalize rotates the cycle so it starts at its lexicographically
// smallest vertex, making the same cycle found from any entry point
// compare equal.
func canonicalize(cycleIDs []int, symbols *symbolTable) []string {
	if len(cycleIDs) == 0 {
		return nil
	}

	names := make([]string, len(cycleIDs))
	for i, id := range cycleIDs {
		names[i] = symbols.resolve(id)
	}

	minIdx := 0
	for i, n := range names {
		if n < names[minIdx] {
			minIdx = i
		}
	}

	rotated := make([]string, 0, len(names))
	rotated = append(rotated, names[minIdx:]...)
	rotated = append(rotated, names[:minIdx]...)

	return rotated
}

func cycleKey(cycle []string) string {
	return cyclePathString(cycle)
}

func cyclePathString(cycle []string) string {
	s := ""
	for i, n := range cycle {
		if i > 0 {
			s += ">"
		}

		s += n
	}

	return s
}

func appendUniqueInt(list []int, v int) []int {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}

	return append(list, v)
}
