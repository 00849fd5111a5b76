package mermaid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/arch"
	"github.com/vinpuli/archscribe/pkg/mermaid"
)

func TestRenderContext_EscapesQuotesAndIncludesActors(t *testing.T) {
	out := mermaid.RenderContext(arch.Context{
		System: `"Archscribe" Core`,
		Actors: []string{"Reviewer"},
	}, mermaid.LeftRight)

	assert.Contains(t, out, "flowchart LR")
	assert.Contains(t, out, "#quot;Archscribe#quot;")
	assert.Contains(t, out, "reviewer")
}

func TestRenderContainers_DedupesDuplicateEdges(t *testing.T) {
	model := arch.ContainerModel{
		Containers: []arch.ContainerDef{
			{ID: "api", Name: "api"},
			{ID: "service", Name: "service"},
		},
		Relationships: []arch.Relationship{
			{Source: "api", Target: "service", Description: "imports"},
			{Source: "api", Target: "service", Description: "imports"},
		},
	}

	out := mermaid.RenderContainers(model, mermaid.TopDown)

	assert.Equal(t, 1, strings.Count(out, "-->|imports|"))
}

func TestRenderMarkdown_ContainsAllThreeSections(t *testing.T) {
	out := mermaid.RenderMarkdown(arch.Context{System: "sys"}, arch.ContainerModel{}, arch.ComponentModel{}, mermaid.LeftRight)

	assert.Contains(t, out, "## Context")
	assert.Contains(t, out, "## Containers")
	assert.Contains(t, out, "## Components")
}
