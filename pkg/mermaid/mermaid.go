// Package mermaid is a stateless renderer that turns a C4 model into
// Mermaid flowchart diagrams. Grounded on
// the sibling pack repo's format.MermaidFormatter (graph-result
// renderer): fmt.Fprintf-based streaming writer, a replacer-based
// sanitizeID, and label-escaping for embedded quotes.
package mermaid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/arch"
	"github.com/vinpuli/archscribe/pkg/slugify"
)

var idReplacer = strings.NewReplacer(
	".", "_", "/", "_", "-", "_", ":", "_", " ", "_", "(", "_", ")", "_",
)

func nodeID(prefix, name string) string {
	return prefix + idReplacer.Replace(slugify.Slug(name))
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `#quot;`)
}

// Direction is Mermaid's flowchart direction keyword.
type Direction string

const (
	LeftRight Direction = "LR"
	TopDown   Direction = "TB"
)

type edgeKey struct{ source, target, description string }

// RenderContext emits a flowchart for a C4 Context model.
func RenderContext(ctx arch.Context, direction Direction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "flowchart %s\n", direction)
	fmt.Fprintf(&b, "    system[\"%s\"]\n", escapeLabel(ctx.System))

	for _, actor := range ctx.Actors {
		id := nodeID("actor_", actor)
		fmt.Fprintf(&b, "    %s(\"%s\")\n", id, escapeLabel(actor))
		fmt.Fprintf(&b, "    %s --> system\n", id)
	}

	for _, ext := range ctx.ExternalSystems {
		id := nodeID("ext_", ext)
		fmt.Fprintf(&b, "    %s[[\"%s\"]]\n", id, escapeLabel(ext))
	}

	writeRelationships(&b, ctx.Relationships, "")

	return b.String()
}

// RenderContainers emits a flowchart for a C4 Container model.
func RenderContainers(model arch.ContainerModel, direction Direction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "flowchart %s\n", direction)

	for _, c := range model.Containers {
		id := nodeID("container_", c.ID)
		label := c.Name

		if c.Technology != "" {
			label += "<br/>" + c.Technology
		}

		fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, escapeLabel(label))
	}

	writeRelationships(&b, model.Relationships, "container_")

	return b.String()
}

// RenderComponents emits a flowchart for a C4 Component model, one
// subgraph per container.
func RenderComponents(model arch.ComponentModel, direction Direction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "flowchart %s\n", direction)

	containerIDs := make([]string, 0, len(model.Containers))
	for id := range model.Containers {
		containerIDs = append(containerIDs, id)
	}

	sort.Strings(containerIDs)

	for _, containerID := range containerIDs {
		fmt.Fprintf(&b, "    subgraph %s [\"%s\"]\n", nodeID("container_", containerID), escapeLabel(containerID))

		for _, comp := range model.Containers[containerID] {
			id := nodeID("component_", comp.ID)
			label := fmt.Sprintf("%s (%d files)", comp.Name, comp.FileCount)
			fmt.Fprintf(&b, "        %s[\"%s\"]\n", id, escapeLabel(label))
		}

		fmt.Fprintln(&b, "    end")
	}

	for _, containerID := range containerIDs {
		writeRelationships(&b, model.Relationships[containerID], "component_")
	}

	return b.String()
}

// RenderMarkdown composes the three diagrams into one combined
// markdown blob, each fenced as a mermaid code block.
func RenderMarkdown(ctx arch.Context, containers arch.ContainerModel, components arch.ComponentModel, direction Direction) string {
	var b strings.Builder

	b.WriteString("## Context\n\n```mermaid\n")
	b.WriteString(RenderContext(ctx, direction))
	b.WriteString("```\n\n## Containers\n\n```mermaid\n")
	b.WriteString(RenderContainers(containers, direction))
	b.WriteString("```\n\n## Components\n\n```mermaid\n")
	b.WriteString(RenderComponents(components, direction))
	b.WriteString("```\n")

	return b.String()
}

func writeRelationships(b *strings.Builder, rels []arch.Relationship, prefix string) {
	seen := make(map[edgeKey]bool)

	for _, r := range rels {
		key := edgeKey{r.Source, r.Target, r.Description}
		if seen[key] {
			continue
		}

		seen[key] = true

		source := nodeID(prefix, r.Source)
		target := nodeID(prefix, r.Target)

		if r.Description != "" {
			fmt.Fprintf(b, "    %s -->|%s| %s\n", source, escapeLabel(r.Description), target)
		} else {
			fmt.Fprintf(b, "    %s --> %s\n", source, target)
		}
	}
}
