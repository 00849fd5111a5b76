package plangen

import (
	"fmt"

	"github.com/vinpuli/archscribe/pkg/risk"
)

// ComplexityLevel is the closed complexity-profile set used alongside
// risk level to choose an exposure schedule.
type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "low"
	ComplexityMedium ComplexityLevel = "medium"
	ComplexityHigh   ComplexityLevel = "high"
)

// RolloutPhase is one entry in a multi-phase rollout plan.
type RolloutPhase struct {
	Name                 string   `json:"name"`
	EntryCriteria        []string `json:"entry_criteria"`
	Actions              []string `json:"actions"`
	ValidationGates      []string `json:"validation_gates"`
	ExitCriteria         []string `json:"exit_criteria"`
	MinObservationWindow string   `json:"min_observation_window"`
}

// GenerateRolloutPlan chooses an exposure schedule by
// (complexity, risk level) and emits one phase per exposure step,
//
func GenerateRolloutPlan(complexity ComplexityLevel, level risk.Level) []RolloutPhase {
	schedule := exposureSchedule(complexity, level)
	window := observationWindow(level)

	phases := make([]RolloutPhase, 0, len(schedule))

	for i, pct := range schedule {
		entry := []string{"previous phase validation gates passed"}
		if i == 0 {
			entry = []string{"change merged to the trunk branch", "feature flag configured"}
		}

		exit := []string{"no validation gate regressions observed during the window"}
		if i == len(schedule)-1 {
			exit = []string{"flag fully enabled and monitoring stable for the observation window"}
		}

		phases = append(phases, RolloutPhase{
			Name:                 phaseName(pct),
			EntryCriteria:        entry,
			Actions:              []string{fmt.Sprintf("set feature flag exposure to %d%%", pct)},
			ValidationGates:      []string{"error rate within baseline", "latency p99 within baseline"},
			ExitCriteria:         exit,
			MinObservationWindow: window,
		})
	}

	return phases
}

func phaseName(pct int) string {
	if pct >= 100 {
		return "full rollout"
	}

	return fmt.Sprintf("%d%% exposure", pct)
}

func exposureSchedule(complexity ComplexityLevel, level risk.Level) []int {
	switch {
	case level == risk.Critical || complexity == ComplexityHigh:
		return []int{1, 10, 25, 50, 100}
	case level == risk.High || complexity == ComplexityMedium:
		return []int{5, 25, 100}
	default:
		return []int{25, 100}
	}
}

func observationWindow(level risk.Level) string {
	switch level {
	case risk.Critical:
		return "24h"
	case risk.High:
		return "12h"
	case risk.Medium:
		return "4h"
	default:
		return "1h"
	}
}
