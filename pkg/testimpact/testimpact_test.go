package testimpact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/calltrace"
	"github.com/vinpuli/archscribe/pkg/testimpact"
)

func TestIsTestFile(t *testing.T) {
	cases := map[string]bool{
		"src/billing/invoice.py":        false,
		"src/billing/test_invoice.py":   true,
		"src/billing/invoice_test.py":   true,
		"src/billing/invoice.test.ts":   true,
		"src/billing/invoice.spec.ts":   true,
		"tests/billing/invoice.py":      true,
		"src/__tests__/invoice.js":      true,
		"src/billing/invoice.feature":   true,
		"src/billing/service.go":        false,
		"src/billing/service_test.go":   true,
	}

	for path, want := range cases {
		assert.Equal(t, want, testimpact.IsTestFile(path), path)
	}
}

func TestAssess_DirectlyChangedTestIsImpacted(t *testing.T) {
	result := testimpact.Assess(testimpact.Options{
		ChangedPaths: []string{"src/billing/invoice_test.py"},
		AllPaths:     []string{"src/billing/invoice_test.py", "src/billing/invoice.py"},
	})

	assert.Contains(t, result.ImpactedTests, "src/billing/invoice_test.py")
	assert.Equal(t, testimpact.TargetedRegression, result.RegressionScope)
}

func TestAssess_RelatedTestFoundByTokenIntersection(t *testing.T) {
	result := testimpact.Assess(testimpact.Options{
		ChangedPaths: []string{"src/billing/invoice.py"},
		AllPaths: []string{
			"src/billing/invoice.py",
			"tests/billing/test_invoice.py",
			"tests/shipping/test_label.py",
		},
	})

	assert.Contains(t, result.RelatedTests, "tests/billing/test_invoice.py")
	assert.NotContains(t, result.RelatedTests, "tests/shipping/test_label.py")
	assert.Empty(t, result.CoverageGaps)
}

func TestAssess_DownstreamTracedTestCoversGap(t *testing.T) {
	edges := []calltrace.RefinedEdge{
		{Source: "tests/billing/test_invoice.py", Target: "src/billing/invoice.py", Kind: calltrace.ImportReference},
	}

	result := testimpact.Assess(testimpact.Options{
		ChangedPaths: []string{"src/billing/invoice.py"},
		AllPaths:     []string{"src/billing/invoice.py", "tests/billing/test_invoice.py"},
		Edges:        edges,
	})

	assert.Contains(t, result.DownstreamTests, "tests/billing/test_invoice.py")
	assert.Empty(t, result.CoverageGaps)
}

func TestAssess_CoverageGapWhenNoRelatedOrDownstreamTest(t *testing.T) {
	result := testimpact.Assess(testimpact.Options{
		ChangedPaths: []string{"src/billing/odd_module.py"},
		AllPaths:     []string{"src/billing/odd_module.py", "tests/shipping/test_label.py"},
	})

	assert.Contains(t, result.CoverageGaps, "src/billing/odd_module.py")
}

func TestAssess_RegressionScopeThresholds(t *testing.T) {
	manyChanged := make([]string, 25)
	for i := range manyChanged {
		manyChanged[i] = "src/pkg/file.go"
	}

	result := testimpact.Assess(testimpact.Options{ChangedPaths: manyChanged})
	assert.Equal(t, testimpact.FullSuite, result.RegressionScope)

	result = testimpact.Assess(testimpact.Options{})
	assert.Equal(t, testimpact.Smoke, result.RegressionScope)
}
