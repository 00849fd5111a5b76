package typesig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/pkg/typesig"
)

func TestAnalyze_TypeScriptBeforeAfter(t *testing.T) {
	before := []byte("export function getUser(id: string): User { return null; }\n")
	after := []byte("export function getUser(id: string, tenant: string): User { return null; }\n")

	beforeSummary := typesig.Analyze("typescript", before)
	afterSummary := typesig.Analyze("typescript", after)

	require.Len(t, beforeSummary.Signatures, 1)
	require.Len(t, afterSummary.Signatures, 1)

	assert.Equal(t, "(id: string)", paramString(beforeSummary.Signatures[0]))
	assert.Equal(t, "(id: string, tenant: string)", paramString(afterSummary.Signatures[0]))
}

func paramString(sig typesig.FunctionSignature) string {
	out := "("
	for i, p := range sig.Parameters {
		if i > 0 {
			out += ", "
		}

		out += p.Name + ": " + p.Type
	}

	return out + ")"
}

func TestAnalyze_NonStaticLanguageIsZeroValue(t *testing.T) {
	summary := typesig.Analyze("python", []byte("def f(x): pass"))
	assert.Empty(t, summary.Signatures)
	assert.Zero(t, summary.ExplicitTypeRatio)
}

func TestAnalyze_ExplicitTypeRatio(t *testing.T) {
	src := []byte("const a: string = 'x';\nconst b = 1;\n")

	summary := typesig.Analyze("typescript", src)
	assert.InDelta(t, 0.5, summary.ExplicitTypeRatio, 1e-9)
}

func TestUnsafeTypeCount(t *testing.T) {
	src := []byte("function f(x: any): unknown { return x; }\n")

	summary := typesig.Analyze("typescript", src)
	assert.GreaterOrEqual(t, summary.UnsafeTypeCount(), 1)
}

func TestAnalyze_GoStructAndFunc(t *testing.T) {
	src := []byte("package main\n\ntype User struct {\n\tID int\n}\n\nfunc Get(id int) *User {\n\treturn nil\n}\n")

	summary := typesig.Analyze("go", src)
	require.Len(t, summary.TypeDefinitions, 1)
	assert.Equal(t, "struct", summary.TypeDefinitions[0].Kind)
	require.Len(t, summary.Signatures, 1)
	assert.Equal(t, "Get", summary.Signatures[0].Name)
}
