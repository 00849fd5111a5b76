package plangen

import (
	"github.com/vinpuli/archscribe/pkg/risk"
	"github.com/vinpuli/archscribe/pkg/slugify"
)

const maxBranchLength = 80

// descriptionSlugTokens is slug-construction cap
// ("5-6 tokens").
const descriptionSlugTokens = 6

// BranchInputs configures branch-prefix resolution and naming.
type BranchInputs struct {
	// ExplicitPrefix overrides resolution entirely, e.g. "exp".
	ExplicitPrefix string
	BreakingCount  int
	IsHotfix       bool
	HasDeletions   bool
	HasCreations   bool
	RiskLevel      risk.Level
	TicketID       string
	Scope          string
	Description    string
}

// ResolveBranchPrefix implements resolution rule:
// breaking > hotfix > refactor-on-delete > feature-on-create >
// bugfix-on-high-risk > chore.
func ResolveBranchPrefix(in BranchInputs) string {
	if in.ExplicitPrefix != "" {
		return in.ExplicitPrefix
	}

	switch {
	case in.BreakingCount > 0:
		return "breaking"
	case in.IsHotfix:
		return "hotfix"
	case in.HasDeletions:
		return "refactor"
	case in.HasCreations:
		return "feature"
	case in.RiskLevel == risk.High || in.RiskLevel == risk.Critical:
		return "fix"
	default:
		return "chore"
	}
}

// BranchName builds `<prefix>/<TICKET-or-scope>-<slug>`, truncated to
// at most 80 characters
func BranchName(in BranchInputs) string {
	prefix := ResolveBranchPrefix(in)

	scope := NormalizeTicket(in.TicketID)
	if scope == "" {
		scope = slugify.Slug(in.Scope)
	}

	if scope == "" {
		scope = "change"
	}

	slug := slugify.SlugCapped(in.Description, descriptionSlugTokens)
	if slug == "" {
		slug = "update"
	}

	branch := prefix + "/" + scope + "-" + slug

	if len(branch) > maxBranchLength {
		branch = branch[:maxBranchLength]
	}

	return branch
}
