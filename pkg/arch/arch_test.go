package arch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/arch"
	"github.com/vinpuli/archscribe/pkg/depgraph"
)

func TestInventory_GroupsAndClassifies(t *testing.T) {
	components := arch.Inventory([]string{
		"api/handlers/users.go",
		"api/handlers/orders.go",
		"service/billing.go",
		"repository/users_repo.go",
		"data/models.go",
		"frontend/app.tsx",
	})

	byName := make(map[string]arch.Component)
	for _, c := range components {
		byName[c.Name] = c
	}

	assert.Equal(t, arch.ClassAPI, byName["api"].Class)
	assert.Equal(t, arch.ClassService, byName["service"].Class)
	assert.Equal(t, arch.ClassRepository, byName["repository"].Class)
	assert.Equal(t, arch.ClassData, byName["data"].Class)
	assert.Equal(t, arch.ClassFrontend, byName["frontend"].Class)
	assert.Len(t, byName["api"].Files, 2)
}

func TestInferPatterns_LayeredArchitecture(t *testing.T) {
	components := []arch.Component{
		{Name: "api", Class: arch.ClassAPI},
		{Name: "service", Class: arch.ClassService},
		{Name: "repository", Class: arch.ClassRepository},
		{Name: "data", Class: arch.ClassData},
	}

	patterns := arch.InferPatterns(components, 0)

	found := false

	for _, p := range patterns {
		if p.Name == "layered_architecture" {
			found = true

			assert.Equal(t, 0.86, p.Confidence)
		}
	}

	assert.True(t, found)
}

func TestInferPatterns_CyclicDependencyHotspot(t *testing.T) {
	patterns := arch.InferPatterns(nil, 2)

	require.Len(t, patterns, 1)
	assert.Equal(t, "cyclic_dependency_hotspot", patterns[0].Name)
}

func TestBuildContainerModel_AggregatesCrossComponentEdges(t *testing.T) {
	components := arch.Inventory([]string{"api/handler.go", "service/billing.go"})

	edges := []depgraph.Edge{
		{Source: "api/handler.go", Target: "service/billing.go"},
		{Source: "api/handler.go", Target: "service/billing.go"},
	}

	model := arch.BuildContainerModel("system", components, edges, map[string]string{
		"api/handler.go":     "go",
		"service/billing.go": "go",
	})

	require.Len(t, model.Containers, 2)
	require.Len(t, model.Relationships, 1)
	assert.Equal(t, 2, model.Relationships[0].Weight)
}

func TestAnnotationInterface_ApplyRenamesAndRejectsUnknownTarget(t *testing.T) {
	model := arch.Model{
		Containers: arch.ContainerModel{
			Containers: []arch.ContainerDef{{ID: "api", Name: "api", Type: "api"}},
		},
		Components: arch.ComponentModel{
			Containers:    map[string][]arch.ComponentDef{},
			Relationships: map[string][]arch.Relationship{},
		},
	}

	result := arch.Apply(model, []arch.Operation{
		{Kind: arch.RenameContainer, TargetID: "api", Value: "API Gateway"},
		{Kind: arch.RenameContainer, TargetID: "missing", Value: "x"},
	})

	require.Len(t, result.Applied, 1)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "API Gateway", result.Model.Containers.Containers[0].Name)
	assert.Equal(t, "api", model.Containers.Containers[0].Name, "original model must not be mutated")
}
