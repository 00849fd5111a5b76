package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/extract"
)

func TestFunctions_PythonSeedRepo(t *testing.T) {
	src := []byte("from . import helpers\n\n\ndef f(x: int) -> int:\n    return helpers.g(x)\n")

	decls := extract.Functions("python", src)

	require.Len(t, decls, 1)
	assert.Equal(t, "f", decls[0].Name)
	assert.Equal(t, "function", decls[0].Kind)
	assert.Equal(t, "(x: int) -> int", decls[0].Signature)
	assert.Equal(t, 4, decls[0].LineNumber)
}

func TestImports_PythonFromMember(t *testing.T) {
	src := []byte("from . import helpers\n")

	imports := extract.Imports("python", src)

	require.Len(t, imports, 2)
	assert.Equal(t, "from", imports[0].ImportType)
	assert.Equal(t, "from-member", imports[1].ImportType)
	assert.Equal(t, "..helpers", imports[1].Module)
}

func TestImports_GoBlockForm(t *testing.T) {
	src := []byte("package main\n\nimport (\n\t\"fmt\"\n\tos \"os\"\n)\n")

	imports := extract.Imports("go", src)

	require.Len(t, imports, 2)
	assert.Equal(t, "fmt", imports[0].Module)
	assert.Equal(t, "os", imports[1].Module)
}

func TestImports_JSDistinguishesForms(t *testing.T) {
	src := []byte("import './setup';\nimport React from 'react';\nconst m = require('lodash');\nimport('./lazy');\n")

	imports := extract.Imports("javascript", src)

	kinds := make(map[string]int)
	for _, imp := range imports {
		kinds[imp.ImportType]++
	}

	assert.Equal(t, 1, kinds["side_effect_import"])
	assert.Equal(t, 1, kinds["static_import"])
	assert.Equal(t, 1, kinds["require"])
	assert.Equal(t, 1, kinds["dynamic_import"])
}

func TestImports_Dedupe(t *testing.T) {
	src := []byte("const a = require('lodash'); const b = require('lodash');\n")

	imports := extract.Imports("javascript", src)
	require.Len(t, imports, 1)
}

func TestComputeMetrics_PythonSeedRepo(t *testing.T) {
	src := []byte("def f(x: int) -> int:\n    return x\n")

	metrics := extract.ComputeMetrics("python", src)

	assert.Equal(t, 2, metrics.TotalLines)
	assert.Equal(t, 2, metrics.CodeLines)
	assert.Equal(t, 1, metrics.CyclomaticComplexity)
	assert.Equal(t, extract.ComplexityLow, metrics.ComplexityLevel)
}

func TestComputeMetrics_InvariantHolds(t *testing.T) {
	src := []byte("# comment\n\nx = 1  # inline\nif x:\n    pass\n")

	metrics := extract.ComputeMetrics("python", src)

	assert.LessOrEqual(t, metrics.CodeLines+metrics.CommentLines+metrics.BlankLines, metrics.TotalLines+metrics.CommentLines)
	// Inline-comment lines count as code, not comment.
	assert.Equal(t, 3, metrics.CodeLines)
	assert.Equal(t, 1, metrics.CommentLines)
	assert.Equal(t, 1, metrics.BlankLines)
}

func TestComputeMetrics_MultilineCommentBlock(t *testing.T) {
	src := []byte("/* start\n still a comment\n end */\nfunc f() {}\n")

	metrics := extract.ComputeMetrics("go", src)

	assert.Equal(t, 3, metrics.CommentLines)
	assert.Equal(t, 1, metrics.CodeLines)
}

func TestFunctions_UnsupportedLanguage(t *testing.T) {
	assert.Nil(t, extract.Functions("cobol", []byte("irrelevant")))
}
