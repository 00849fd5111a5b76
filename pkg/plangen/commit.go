package plangen

import "fmt"

// CommitMessage is one conventional-commits-shaped entry in a commit
// sequence.
type CommitMessage struct {
	Type    string   `json:"type"`
	Scope   string   `json:"scope"`
	Summary string   `json:"summary"`
	Ticket  string   `json:"ticket,omitempty"`
	Files   []string `json:"files"`
}

// Format renders `<type>(<scope>): <summary> [<TICKET>]`, following
// conventional-commits.
func (c CommitMessage) Format() string {
	if c.Ticket == "" {
		return fmt.Sprintf("%s(%s): %s", c.Type, c.Scope, c.Summary)
	}

	return fmt.Sprintf("%s(%s): %s [%s]", c.Type, c.Scope, c.Summary, c.Ticket)
}

// CommitScope groups a feature bucket's files under one commit.
type CommitScope struct {
	Scope   string
	Files   []string
	Summary string
}

// commitTypeForPrefix maps a resolved branch prefix to the
// conventional-commits type it implies.
var commitTypeForPrefix = map[string]string{
	"breaking": "feat!",
	"hotfix":   "fix",
	"fix":      "fix",
	"refactor": "refactor",
	"feature":  "feat",
	"chore":    "chore",
	"exp":      "chore",
}

// GenerateCommitSequence builds one ordered commit per scope, applying
// the branch prefix's implied commit type and the normalized ticket
// token to every entry.
func GenerateCommitSequence(scopes []CommitScope, prefix, ticketID string) []CommitMessage {
	commitType, ok := commitTypeForPrefix[prefix]
	if !ok {
		commitType = "chore"
	}

	ticket := NormalizeTicket(ticketID)

	commits := make([]CommitMessage, 0, len(scopes))

	for _, s := range scopes {
		commits = append(commits, CommitMessage{
			Type: commitType, Scope: s.Scope, Summary: s.Summary, Ticket: ticket, Files: s.Files,
		})
	}

	return commits
}
