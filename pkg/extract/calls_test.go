package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/extract"
)

func TestCallTokens_ExcludesControlFlowKeywords(t *testing.T) {
	src := []byte("def f(x):\n    if g(x):\n        return h(x)\n")

	tokens := extract.CallTokens("python", src)

	assert.Contains(t, tokens, "g")
	assert.Contains(t, tokens, "h")
	assert.NotContains(t, tokens, "if")
	assert.NotContains(t, tokens, "def")
}

func TestCallTokens_Dedupes(t *testing.T) {
	src := []byte("g(1)\ng(2)\ng(3)\n")

	tokens := extract.CallTokens("python", src)
	assert.Equal(t, []string{"g"}, tokens)
}
