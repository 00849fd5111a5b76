package plangen

import (
	"github.com/vinpuli/archscribe/pkg/risk"
	"github.com/vinpuli/archscribe/pkg/slugify"
)

// FeatureFlagStrategy is the feature-flag Change Plan Artifact.
type FeatureFlagStrategy struct {
	FlagKey        string   `json:"flag_key"`
	PhasedExposure []int    `json:"phased_exposure_percentages"`
	KillSwitch     bool     `json:"kill_switch"`
	Monitoring     []string `json:"monitoring"`
}

// GenerateFeatureFlagStrategy derives a flag key from scope, a
// conservative phased-exposure schedule scaled by risk level, and the
// monitoring signals to watch during rollout.
func GenerateFeatureFlagStrategy(scope string, level risk.Level) FeatureFlagStrategy {
	flagKey := slugify.Slug(scope)
	if flagKey == "" {
		flagKey = "change"
	}

	var exposure []int

	switch level {
	case risk.Critical, risk.High:
		exposure = []int{1, 5, 25, 50, 100}
	case risk.Medium:
		exposure = []int{10, 50, 100}
	default:
		exposure = []int{50, 100}
	}

	return FeatureFlagStrategy{
		FlagKey:        "ff_" + flagKey,
		PhasedExposure: exposure,
		KillSwitch:     true,
		Monitoring:     []string{"error rate", "latency p99", "exception rate"},
	}
}
