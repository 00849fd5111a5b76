package plangen

import "fmt"

// Procedure is the procedure-steps Change Plan Artifact: the
// ordered, human-readable summary composing every other generator's
// output into one checklist.
type Procedure struct {
	Steps []string `json:"steps"`
}

// ProcedureInputs bundles the already-generated artifacts a procedure
// summarizes into ordered steps.
type ProcedureInputs struct {
	Workflow    GitWorkflow
	Commits     []CommitMessage
	Rollout     []RolloutPhase
	Migration   *MigrationStrategy
	Rollback    RollbackPlan
	FeatureFlag *FeatureFlagStrategy
}

// GenerateProcedure composes the other generators' already-built
// artifacts into one ordered checklist, following the convention that
// each higher-level generator composes the output of the others
// rather than recomputing it.
func GenerateProcedure(in ProcedureInputs) Procedure {
	steps := []string{
		fmt.Sprintf("create branch %q off the trunk", in.Workflow.BranchName),
	}

	if in.FeatureFlag != nil {
		steps = append(steps, fmt.Sprintf("register feature flag %q with a kill switch", in.FeatureFlag.FlagKey))
	}

	for _, c := range in.Commits {
		steps = append(steps, "commit: "+c.Format())
	}

	if in.Migration != nil {
		steps = append(steps, fmt.Sprintf("run migration strategy %q", in.Migration.Strategy))
	}

	steps = append(steps, fmt.Sprintf("open PR with merge policy %q and required checks", in.Workflow.MergePolicy.Strategy))

	for _, phase := range in.Rollout {
		steps = append(steps, "rollout phase: "+phase.Name)
	}

	steps = append(steps, "monitor rollback triggers: "+joinOrNone(in.Rollback.Triggers))

	return Procedure{Steps: steps}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}

	out := items[0]

	for _, item := range items[1:] {
		out += "; " + item
	}

	return out
}
