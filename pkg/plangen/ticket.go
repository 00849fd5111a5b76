// Package plangen holds the change-planning
// generators (procedure, git workflow, commit sequence, rollback plan,
// feature-flag strategy, rollout plan, migration strategy), each a
// pure function over upstream signals. Failure tolerance for the
// sub-tools a generator composes is handled by the caller assembling
// its Inputs (mirroring pkg/risk's per-signal success/failure
// bookkeeping) — these generators themselves never fail, since they
// only shape already-computed data.
package plangen

import (
	"regexp"
	"strings"

	"github.com/vinpuli/archscribe/pkg/slugify"
)

const maxTicketLength = 32

var (
	bareDigitsRe  = regexp.MustCompile(`^[0-9]+$`)
	projectCodeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*-[0-9]+$`)
)

// NormalizeTicket implements "Ticket tokens" rule:
// bare digits become TICKET-N; an existing PROJ-123-shaped token is
// preserved (uppercased); anything else is slugged, uppercased, and
// capped at 32 characters.
func NormalizeTicket(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if bareDigitsRe.MatchString(trimmed) {
		return "TICKET-" + trimmed
	}

	if projectCodeRe.MatchString(trimmed) {
		return strings.ToUpper(trimmed)
	}

	slug := strings.ToUpper(slugify.Slug(trimmed))
	if len(slug) > maxTicketLength {
		slug = slug[:maxTicketLength]
	}

	return slug
}
