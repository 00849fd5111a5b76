package arch

import (
	"path"
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/depgraph"
	"github.com/vinpuli/archscribe/pkg/slugify"
)

// maxContainers is "top-20 by file count" container cap.
const maxContainers = 20

// Relationship is a C4 relationship edge; used at both the context
// and container levels.
type Relationship struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}

// Context is C4 Context model.
type Context struct {
	System          string         `json:"system"`
	Actors          []string       `json:"actors"`
	ExternalSystems []string       `json:"external_systems"`
	Relationships   []Relationship `json:"relationships"`
}

// ContainerDef is one entry in the Container model's container list.
type ContainerDef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Technology string   `json:"technology"`
	Languages  []string `json:"languages"`
}

// ContainerModel is C4 Container model.
type ContainerModel struct {
	System        string         `json:"system"`
	Containers    []ContainerDef `json:"containers"`
	Relationships []Relationship `json:"relationships"`
}

// ComponentDef is one inner component nested under a container in the
// Component model.
type ComponentDef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	FileCount int    `json:"file_count"`
}

// ComponentModel is C4 Component model: per-container
// component lists and per-container relationship edges.
type ComponentModel struct {
	Containers    map[string][]ComponentDef  `json:"containers"`
	Relationships map[string][]Relationship `json:"relationships"`
}

// BuildContainerModel maps the top-20 (by file count) components into
// C4 containers and resolves container-level relationships by
// aggregating dependency edges whose endpoints fall in different
// top-level components
func BuildContainerModel(system string, components []Component, edges []depgraph.Edge, languageByPath map[string]string) ContainerModel {
	top := topByFileCount(components, maxContainers)

	containerByFile := make(map[string]string)
	containers := make([]ContainerDef, 0, len(top))

	for _, c := range top {
		id := slugify.Slug(c.Name)
		for _, f := range c.Files {
			containerByFile[f] = id
		}

		containers = append(containers, ContainerDef{
			ID:         id,
			Name:       c.Name,
			Type:       string(c.Class),
			Technology: dominantLanguage(c.Files, languageByPath),
			Languages:  languagesOf(c.Files, languageByPath),
		})
	}

	sort.Slice(containers, func(i, j int) bool { return containers[i].ID < containers[j].ID })

	relationships := aggregateRelationships(edges, containerByFile, "imports")

	return ContainerModel{System: system, Containers: containers, Relationships: relationships}
}

// BuildComponentModel expands each container's inner components from
// the second path segment of its files (falling back to the file
// stem), and scopes the dependency edges to each container.
func BuildComponentModel(containerModel ContainerModel, inventory []Component, edges []depgraph.Edge, languageByPath map[string]string) ComponentModel {
	filesByContainer := make(map[string][]string)

	for _, c := range inventory {
		id := slugify.Slug(c.Name)
		filesByContainer[id] = c.Files
	}

	containers := make(map[string][]ComponentDef)
	relationships := make(map[string][]Relationship)

	for _, cd := range containerModel.Containers {
		files := filesByContainer[cd.ID]

		groups := make(map[string][]string)

		for _, f := range files {
			key := innerComponentKey(cd.Name, f)
			groups[key] = append(groups[key], f)
		}

		componentByFile := make(map[string]string, len(files))

		var comps []ComponentDef

		for name, groupFiles := range groups {
			id := cd.ID + "." + slugify.Slug(name)

			for _, f := range groupFiles {
				componentByFile[f] = id
			}

			comps = append(comps, ComponentDef{
				ID: id, Name: name,
				Language:  dominantLanguage(groupFiles, languageByPath),
				FileCount: len(groupFiles),
			})
		}

		sort.Slice(comps, func(i, j int) bool { return comps[i].ID < comps[j].ID })

		containers[cd.ID] = comps
		relationships[cd.ID] = aggregateRelationships(scopedEdges(edges, files), componentByFile, "uses")
	}

	return ComponentModel{Containers: containers, Relationships: relationships}
}

func scopedEdges(edges []depgraph.Edge, files []string) []depgraph.Edge {
	inScope := make(map[string]bool, len(files))
	for _, f := range files {
		inScope[f] = true
	}

	var out []depgraph.Edge

	for _, e := range edges {
		if inScope[e.Source] && inScope[e.Target] {
			out = append(out, e)
		}
	}

	return out
}

func innerComponentKey(containerName, filePath string) string {
	trimmed := strings.TrimPrefix(filePath, containerName+"/")

	parts := strings.Split(trimmed, "/")
	if len(parts) > 1 {
		return parts[0]
	}

	base := path.Base(trimmed)

	return strings.TrimSuffix(base, path.Ext(base))
}

func aggregateRelationships(edges []depgraph.Edge, ownerByFile map[string]string, description string) []Relationship {
	type key struct{ source, target string }

	weights := make(map[key]int)

	for _, e := range edges {
		sourceOwner, ok1 := ownerByFile[e.Source]
		targetOwner, ok2 := ownerByFile[e.Target]

		if !ok1 || !ok2 || sourceOwner == targetOwner {
			continue
		}

		weights[key{sourceOwner, targetOwner}]++
	}

	out := make([]Relationship, 0, len(weights))

	for k, w := range weights {
		out = append(out, Relationship{Source: k.source, Target: k.target, Description: description, Weight: w})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}

		return out[i].Target < out[j].Target
	})

	return out
}

func topByFileCount(components []Component, limit int) []Component {
	sorted := make([]Component, len(components))
	copy(sorted, components)

	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i].Files) != len(sorted[j].Files) {
			return len(sorted[i].Files) > len(sorted[j].Files)
		}

		return sorted[i].Name < sorted[j].Name
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}

func languagesOf(files []string, languageByPath map[string]string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, f := range files {
		lang := languageByPath[f]
		if lang == "" || seen[lang] {
			continue
		}

		seen[lang] = true
		out = append(out, lang)
	}

	sort.Strings(out)

	return out
}

func dominantLanguage(files []string, languageByPath map[string]string) string {
	counts := make(map[string]int)

	for _, f := range files {
		if lang := languageByPath[f]; lang != "" {
			counts[lang]++
		}
	}

	var best string

	bestCount := 0

	for lang, count := range counts {
		if count > bestCount || (count == bestCount && lang < best) {
			best = lang
			bestCount = count
		}
	}

	return best
}
