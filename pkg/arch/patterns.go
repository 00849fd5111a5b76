package arch

import (
	"fmt"
	"sort"
	"strings"
)

// Pattern is one architectural pattern inferred from the component
// inventory and graph signals.
type Pattern struct {
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// layeredArchitectureClasses is worked example:
// {api,service,repository,data} ⊆ classes → layered_architecture at
// 0.86 confidence.
var layeredArchitectureClasses = []Class{ClassAPI, ClassService, ClassRepository, ClassData}

// InferPatterns detects architectural patterns via set-operations over
// the component classifications present in components, plus graph
// signals (cycle count from the dependency graph).
func InferPatterns(components []Component, cycleCount int) []Pattern {
	present := make(map[Class]bool)
	for _, c := range components {
		present[c.Class] = true
	}

	var patterns []Pattern

	if subset(layeredArchitectureClasses, present) {
		patterns = append(patterns, Pattern{
			Name:       "layered_architecture",
			Confidence: 0.86,
			Description: "component inventory covers API, service, repository, and data layers",
		})
	}

	if present[ClassWorker] && present[ClassAPI] {
		patterns = append(patterns, Pattern{
			Name:       "event_driven_workers",
			Confidence: 0.7,
			Description: "dedicated worker components alongside an API layer suggest asynchronous job processing",
		})
	}

	if present[ClassFrontend] && present[ClassAPI] {
		patterns = append(patterns, Pattern{
			Name:       "client_server_split",
			Confidence: 0.75,
			Description: "frontend and API components are separated into distinct top-level directories",
		})
	}

	if cycleCount > 0 {
		patterns = append(patterns, Pattern{
			Name:       "cyclic_dependency_hotspot",
			Confidence: confidenceForCycles(cycleCount),
			Description: fmt.Sprintf("dependency graph contains %d cycle(s)", cycleCount),
		})
	}

	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Name < patterns[j].Name })

	return patterns
}

func confidenceForCycles(count int) float64 {
	confidence := 0.6 + 0.05*float64(count)
	if confidence > 0.95 {
		confidence = 0.95
	}

	return confidence
}

func subset(required []Class, present map[Class]bool) bool {
	for _, c := range required {
		if !present[c] {
			return false
		}
	}

	return true
}

// Summary produces the always-available heuristic description; an
// optional LLM refinement may supply additional free text elsewhere
// but must never change this structured inventory.
func Summary(components []Component, patterns []Pattern) string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d components detected: %s.", len(components), strings.Join(names, ", "))

	if len(patterns) == 0 {
		b.WriteString(" No architectural pattern reached its detection threshold.")

		return b.String()
	}

	patternNames := make([]string, 0, len(patterns))
	for _, p := range patterns {
		patternNames = append(patternNames, p.Name)
	}

	fmt.Fprintf(&b, " Inferred pattern(s): %s.", strings.Join(patternNames, ", "))

	return b.String()
}
