package plangen

import "github.com/vinpuli/archscribe/pkg/risk"

// RollbackPlan is the rollback Change Plan Artifact.
type RollbackPlan struct {
	Triggers []string `json:"triggers"`
	Steps    []string `json:"steps"`
}

// GenerateRollbackPlan derives trigger conditions and an ordered
// rollback procedure from the aggregated risk level and whether the
// change includes a data migration.
func GenerateRollbackPlan(level risk.Level, hasMigration bool) RollbackPlan {
	triggers := []string{
		"error rate exceeds baseline by more than 5% for 10 minutes",
		"a required check fails after merge (post-merge CI)",
	}

	if level == risk.High || level == risk.Critical {
		triggers = append(triggers, "any breaking-change finding surfaces in production logs")
	}

	steps := []string{
		"disable the feature flag or routing toggle for the change",
		"revert the merge commit on the target branch",
		"redeploy the previous known-good release",
	}

	if hasMigration {
		steps = append(steps, "run the migration strategy's down/rollback phase before redeploying")
	}

	steps = append(steps, "notify stakeholders and file a post-incident summary")

	return RollbackPlan{Triggers: triggers, Steps: steps}
}
