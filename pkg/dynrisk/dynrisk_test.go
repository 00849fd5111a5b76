package dynrisk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/dynrisk"
)

func TestAnalyze_PythonPickleRaisesRisk(t *testing.T) {
	src := []byte("import pickle\n\ndef load(data):\n    return pickle.loads(data)\n")

	summary := dynrisk.Analyze("python", src)

	assert.Contains(t, summary.SerializationRisks, "pickle")
	assert.Positive(t, summary.RiskScore)
}

func TestAnalyze_StaticLanguageIsZeroValue(t *testing.T) {
	summary := dynrisk.Analyze("go", []byte("package main"))
	assert.Zero(t, summary.RiskScore)
	assert.Empty(t, summary.DynamicConstructs)
}

func TestAnalyze_RubyMethodMissing(t *testing.T) {
	src := []byte("class Proxy\n  def method_missing(name, *args)\n  end\nend\n")

	summary := dynrisk.Analyze("ruby", src)
	assert.Contains(t, summary.RuntimeHooks, "method_missing")
	assert.Equal(t, 1, summary.Constructs.Classes)
}

func TestAnalyze_ScoreIsCapped(t *testing.T) {
	var src []byte
	for i := 0; i < 50; i++ {
		src = append(src, []byte("eval(x)\npickle.loads(x)\n")...)
	}

	summary := dynrisk.Analyze("python", src)
	assert.LessOrEqual(t, summary.RiskScore, 100)
}
