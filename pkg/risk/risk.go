// Package risk combines the upstream change-analysis signals into a
// single weighted risk score, level, confidence, and factor list,
// tolerating partial sub-signal failure.
package risk

import (
	"sort"

	"github.com/vinpuli/archscribe/pkg/breaking"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
	"github.com/vinpuli/archscribe/pkg/testimpact"
	"github.com/vinpuli/archscribe/pkg/typechange"
)

// Level is closed risk-level set, a monotone function
// of Score.
type Level string

const (
	Critical Level = "critical"
	High     Level = "high"
	Medium   Level = "medium"
	Low      Level = "low"
)

// Confidence reflects how many of the four sub-signals succeeded.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// conservativeFallback is the score contribution added for a sub-signal
// that failed to produce a result — the aggregator degrades gracefully
// rather than failing outright.
const conservativeFallback = 5

// Signal input weights, validated against a scenario of 12
// modified, 1 deleted, 0 breaking, targeted_regression, 1 coverage gap
// must land in [8,14] with risk_level=medium and exactly these four
// factors).
const (
	smallChangeSetScore    = 2
	moderateChangeSetScore = 6
	largeChangeSetScore    = 15

	fileDeletionsScore = 3

	breakingHighScore   = 6
	breakingMediumScore = 3

	typeSafetyHighScore   = 4
	typeSafetyMediumScore = 2

	regressionTargetedScore = 3
	regressionBroadScore    = 8
	regressionFullScore     = 15

	coverageGapScore = 2
)

// ChangeInput is the C8 git-change-classification signal. A nil
// Result with a non-empty Warning means the signal failed.
type ChangeInput struct {
	Result  *gitdiff.Result
	Warning string
}

// Inputs bundles the C8-C12 signals an aggregation draws from. Each
// signal may fail independently; a non-empty Warning with no data
// marks that signal as failed without aborting the aggregation.
type Inputs struct {
	Change            ChangeInput
	BreakingFindings  []breaking.Finding
	BreakingWarning   string
	TypeFindings      []typechange.Finding
	TypeWarning       string
	TestImpact        *testimpact.Result
	TestImpactWarning string
}

// Result is Risk Assessment.
type Result struct {
	Score          int               `json:"risk_score"`
	Level          Level             `json:"risk_level"`
	Confidence     Confidence        `json:"confidence"`
	Factors        []string          `json:"risk_factors"`
	SignalStatuses map[string]string `json:"signal_statuses"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// Aggregate combines the four sub-signals
// weighted-additive scoring and fixed level thresholds.
func Aggregate(in Inputs) Result {
	var (
		score      int
		factors    []string
		warnings   []string
		successful int
	)

	statuses := make(map[string]string, 4)

	if in.Change.Result != nil {
		statuses["change_classification"] = "success"
		successful++

		changed := len(in.Change.Result.Created) + len(in.Change.Result.Modified) + len(in.Change.Result.Deleted)

		switch {
		case changed >= 25:
			score += largeChangeSetScore
			factors = append(factors, "large_change_set")
		case changed >= 10:
			score += moderateChangeSetScore
			factors = append(factors, "moderate_change_set")
		case changed > 0:
			score += smallChangeSetScore
			factors = append(factors, "small_change_set")
		}

		if len(in.Change.Result.Deleted) > 0 {
			score += fileDeletionsScore
			factors = append(factors, "file_deletions_present")
		}
	} else {
		statuses["change_classification"] = "failed"
		score += conservativeFallback

		if in.Change.Warning != "" {
			warnings = append(warnings, in.Change.Warning)
		}
	}

	if in.BreakingWarning == "" {
		statuses["breaking_changes"] = "success"
		successful++

		high, medium := countBySeverity(in.BreakingFindings)
		score += high*breakingHighScore + medium*breakingMediumScore

		if high+medium > 0 {
			factors = append(factors, "breaking_changes_present")
		}
	} else {
		statuses["breaking_changes"] = "failed"
		score += conservativeFallback
		warnings = append(warnings, in.BreakingWarning)
	}

	if in.TypeWarning == "" {
		statuses["type_safety"] = "success"
		successful++

		high, medium := countTypeSeverity(in.TypeFindings)
		score += high*typeSafetyHighScore + medium*typeSafetyMediumScore

		if high+medium > 0 {
			factors = append(factors, "type_safety_regressions")
		}
	} else {
		statuses["type_safety"] = "failed"
		score += conservativeFallback
		warnings = append(warnings, in.TypeWarning)
	}

	if in.TestImpact != nil {
		statuses["test_impact"] = "success"
		successful++

		switch in.TestImpact.RegressionScope {
		case testimpact.TargetedRegression:
			score += regressionTargetedScore
			factors = append(factors, "regression_scope_size")
		case testimpact.BroadRegression:
			score += regressionBroadScore
			factors = append(factors, "regression_scope_size")
		case testimpact.FullSuite:
			score += regressionFullScore
			factors = append(factors, "regression_scope_size")
		}

		if len(in.TestImpact.CoverageGaps) > 0 {
			score += coverageGapScore
			factors = append(factors, "test_coverage_gaps")
		}
	} else {
		statuses["test_impact"] = "failed"
		score += conservativeFallback

		if in.TestImpactWarning != "" {
			warnings = append(warnings, in.TestImpactWarning)
		}
	}

	sort.Strings(factors)

	return Result{
		Score:          score,
		Level:          level(score),
		Confidence:     confidence(successful),
		Factors:        factors,
		SignalStatuses: statuses,
		Warnings:       warnings,
	}
}

func level(score int) Level {
	switch {
	case score >= 24:
		return Critical
	case score >= 15:
		return High
	case score >= 8:
		return Medium
	default:
		return Low
	}
}

func confidence(successfulSignals int) Confidence {
	switch {
	case successfulSignals == 4:
		return ConfidenceHigh
	case successfulSignals >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func countBySeverity(findings []breaking.Finding) (high, medium int) {
	for _, f := range findings {
		switch f.Severity {
		case breaking.Critical, breaking.High:
			high++
		case breaking.Medium:
			medium++
		}
	}

	return high, medium
}

func countTypeSeverity(findings []typechange.Finding) (high, medium int) {
	for _, f := range findings {
		switch f.Severity {
		case typechange.High:
			high++
		case typechange.Medium:
			medium++
		}
	}

	return high, medium
}
