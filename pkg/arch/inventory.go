// Package arch implements component inventory, pattern
// inference, and C4 model generation over a repository's dependency
// graph.
package arch

import (
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/contractkernel"
)

// Class is the fixed keyword-table classification for a component.
type Class string

const (
	ClassAPI            Class = "api"
	ClassService        Class = "service"
	ClassRepository     Class = "repository"
	ClassData           Class = "data"
	ClassFrontend       Class = "frontend"
	ClassWorker         Class = "worker"
	ClassTest           Class = "test"
	ClassInfrastructure Class = "infrastructure"
	ClassModule         Class = "module"
)

// keywordTable maps a name substring to its class. Checked in
// declaration order, first match wins
var keywordTable = []struct {
	keyword string
	class   Class
}{
	{"api", ClassAPI},
	{"service", ClassService},
	{"repository", ClassRepository},
	{"repo", ClassRepository},
	{"data", ClassData},
	{"model", ClassData},
	{"frontend", ClassFrontend},
	{"client", ClassFrontend},
	{"ui", ClassFrontend},
	{"web", ClassFrontend},
	{"worker", ClassWorker},
	{"job", ClassWorker},
	{"queue", ClassWorker},
	{"test", ClassTest},
	{"infra", ClassInfrastructure},
	{"infrastructure", ClassInfrastructure},
	{"deploy", ClassInfrastructure},
	{"ops", ClassInfrastructure},
}

// Component is one entry in the component inventory: every file
// sharing the same first non-noise path segment.
type Component struct {
	Name  string   `json:"name"`
	Class Class    `json:"class"`
	Files []string `json:"files"`
}

// Inventory groups files by their first non-noise path segment
// (reusing contractkernel.NoiseParts) and classifies each group via
// the fixed keyword table.
func Inventory(files []string) []Component {
	byName := make(map[string]*Component)

	for _, f := range files {
		name := topSegment(f)

		c, ok := byName[name]
		if !ok {
			c = &Component{Name: name, Class: classify(name)}
			byName[name] = c
		}

		c.Files = append(c.Files, f)
	}

	out := make([]Component, 0, len(byName))

	for _, c := range byName {
		sort.Strings(c.Files)
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func topSegment(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || contractkernel.NoiseParts[segment] {
			continue
		}

		return segment
	}

	return "root"
}

func classify(name string) Class {
	lower := strings.ToLower(name)

	for _, entry := range keywordTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.class
		}
	}

	return ClassModule
}
