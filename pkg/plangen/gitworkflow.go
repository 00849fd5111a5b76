package plangen

// MergePolicy is the PR merge strategy chosen for a change.
type MergePolicy struct {
	Strategy string `json:"strategy"`
}

// GitWorkflow is git-workflow Change Plan Artifact.
type GitWorkflow struct {
	BranchName     string      `json:"branch_name"`
	PRTemplate     string      `json:"pr_template"`
	RequiredChecks []string    `json:"required_checks"`
	MergePolicy    MergePolicy `json:"merge_policy"`
	WorkflowModel  string      `json:"workflow_model"`
}

var baseRequiredChecks = []string{"lint", "unit tests", "build"}

// GenerateGitWorkflow builds a branch name, PR template, required
// checks, merge policy, and workflow model from the resolved branch
// prefix and the breaking-change signal
func GenerateGitWorkflow(in BranchInputs) GitWorkflow {
	prefix := ResolveBranchPrefix(in)
	branch := BranchName(in)

	checks := append([]string(nil), baseRequiredChecks...)

	strategy := "squash"
	model := "trunk-based"

	if in.BreakingCount > 0 {
		checks = append(checks, "API/contract compatibility review")
		strategy = "merge-commit"
		model = "trunk-based-with-release-gates"
	} else if prefix == "hotfix" {
		strategy = "merge-commit"
	} else if prefix == "refactor" {
		strategy = "rebase"
	}

	return GitWorkflow{
		BranchName:     branch,
		PRTemplate:     prTemplate(in, prefix),
		RequiredChecks: checks,
		MergePolicy:    MergePolicy{Strategy: strategy},
		WorkflowModel:  model,
	}
}

func prTemplate(in BranchInputs, prefix string) string {
	ticket := NormalizeTicket(in.TicketID)

	template := "## Summary\n" + in.Description + "\n\n## Type\n" + prefix + "\n"
	if ticket != "" {
		template += "\n## Ticket\n" + ticket + "\n"
	}

	if in.BreakingCount > 0 {
		template += "\n## Breaking changes\nThis change includes breaking API/contract changes. Reviewers must confirm the compatibility check above.\n"
	}

	return template
}
