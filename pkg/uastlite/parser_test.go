package uastlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/uastlite"
)

func TestParse_UnsupportedLanguageDegradesToSimpleParse(t *testing.T) {
	adapter := uastlite.NewAdapter()

	summary, err := adapter.Parse(context.Background(), "cobol", []byte("line one\nline two\n"))

	assert.Error(t, err)
	assert.Equal(t, "module", summary.Root)
	assert.Equal(t, 2, summary.NodeCount)
}

func TestIsAvailable_FalseForUnknownLanguage(t *testing.T) {
	adapter := uastlite.NewAdapter()
	assert.False(t, adapter.IsAvailable("cobol"))
}

func TestParse_GoSource(t *testing.T) {
	adapter := uastlite.NewAdapter()

	src := []byte("package main\n\nfunc main() {}\n")
	summary, err := adapter.Parse(context.Background(), "go", src)

	if err != nil {
		// The grammar registry is optional infrastructure in this test
		// environment; a load failure must still degrade gracefully.
		assert.Equal(t, "module", summary.Root)

		return
	}

	assert.Equal(t, "go", summary.Language)
	assert.NotNil(t, summary.AST)
	assert.Positive(t, summary.NodeCount)
}

func TestWithBudget_BoundsSerializedNodes(t *testing.T) {
	adapter := uastlite.NewAdapter().WithBudget(1, 6)

	src := []byte("package main\n\nfunc main() {\n\tx := 1\n\t_ = x\n}\n")

	summary, err := adapter.Parse(context.Background(), "go", src)
	if err != nil {
		return
	}

	assert.Equal(t, 1, summary.NodeCount)
	if summary.AST != nil && len(summary.AST.Children) > 0 {
		t.Fatalf("expected no children serialized within a 1-node budget")
	}
}
