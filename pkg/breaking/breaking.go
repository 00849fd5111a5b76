// Package breaking diffs the Contract
// Surface of modified and deleted files before/after a change and
// reports breaking-change findings.
package breaking

import (
	"context"
	"errors"
	"sort"

	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
)

// Severity mirrors closed severity set.
type Severity string

const (
	Critical Severity = "critical"
	High     Severity = "high"
	Medium   Severity = "medium"
	Low      Severity = "low"
)

// Finding is Breaking-change Finding.
type Finding struct {
	Category     string   `json:"category"`
	Severity     Severity `json:"severity"`
	FilePath     string   `json:"file_path"`
	ChangeType   string   `json:"change_type"`
	Symbol       string   `json:"symbol,omitempty"`
	OldSignature string   `json:"old_signature,omitempty"`
	NewSignature string   `json:"new_signature,omitempty"`
	Description  string   `json:"description"`
}

// Options configures a Detect invocation.
type Options struct {
	BaseRef        string
	TargetRef      string // empty means diff against the working tree
	LanguageByPath map[string]string
}

// Detect walks each modified or deleted file in changes, extracts its
// before/after Contract Surface via loader, and reports findings.
func Detect(ctx context.Context, loader *contractkernel.Loader, changes []gitdiff.FileChange, opts Options) ([]Finding, error) {
	var findings []Finding

	for _, change := range changes {
		if change.Action != gitdiff.Modify && change.Action != gitdiff.Delete {
			continue
		}

		language := opts.LanguageByPath[change.Path]

		before, beforeErr := loader.Before(ctx, opts.BaseRef, change.Path, change.OldPath)
		if beforeErr != nil && !errors.Is(beforeErr, contractkernel.ErrNotFound) {
			return nil, beforeErr
		}

		var after []byte

		if change.Action == gitdiff.Modify {
			var afterErr error

			after, afterErr = loader.After(ctx, opts.TargetRef, change.Path)
			if afterErr != nil && !errors.Is(afterErr, contractkernel.ErrNotFound) {
				return nil, afterErr
			}
		}

		beforeSurface := contractkernel.BuildSurface(language, change.Path, before)
		afterSurface := contractkernel.BuildSurface(language, change.Path, after)

		findings = append(findings, diffSurfaces(change, beforeSurface, afterSurface)...)

		if change.Action == gitdiff.Delete && contractkernel.IsContractHintPath(change.Path) && len(beforeSurface) == 0 {
			findings = append(findings, Finding{
				Category:    "deleted_api_contract_file",
				Severity:    High,
				FilePath:    change.Path,
				ChangeType:  string(change.Action),
				Description: "contract-hint file deleted with no parseable contract surface",
			})
		}

		if change.Action == gitdiff.Modify && change.OldPath != "" &&
			contractkernel.IsContractHintPath(change.OldPath) && contractkernel.IsContractHintPath(change.Path) {
			findings = append(findings, Finding{
				Category:    "api_contract_path_change",
				Severity:    Medium,
				FilePath:    change.Path,
				ChangeType:  "rename",
				Description: "contract-hint file renamed from " + change.OldPath + " to " + change.Path,
			})
		}
	}

	findings = dedupe(findings)
	sortFindings(findings)

	return findings, nil
}

func diffSurfaces(change gitdiff.FileChange, before, after contractkernel.Surface) []Finding {
	var findings []Finding

	isContractHint := contractkernel.IsContractHintPath(change.Path)

	for key, entry := range before {
		if _, stillPresent := after[key]; stillPresent {
			continue
		}

		severity := Medium
		if entry.Kind == "endpoint" || entry.Kind == "interface" || entry.Kind == "schema_key" {
			severity = High
		}

		if change.Action == gitdiff.Delete && isContractHint {
			severity = High
		}

		findings = append(findings, Finding{
			Category:     "api_contract_removal",
			Severity:     severity,
			FilePath:     change.Path,
			ChangeType:   string(change.Action),
			Symbol:       entry.Name,
			OldSignature: entry.Signature,
			Description:  entry.Kind + " " + entry.Name + " removed from contract surface",
		})
	}

	for key, beforeEntry := range before {
		afterEntry, stillPresent := after[key]
		if !stillPresent || afterEntry.Signature == beforeEntry.Signature {
			continue
		}

		findings = append(findings, Finding{
			Category:     "api_contract_signature_change",
			Severity:     Medium,
			FilePath:     change.Path,
			ChangeType:   string(change.Action),
			Symbol:       beforeEntry.Name,
			OldSignature: beforeEntry.Signature,
			NewSignature: afterEntry.Signature,
			Description:  beforeEntry.Kind + " " + beforeEntry.Name + " signature changed",
		})
	}

	return findings
}

func dedupe(findings []Finding) []Finding {
	seen := make(map[string]bool)

	var out []Finding

	for _, f := range findings {
		key := f.FilePath + "|" + f.Category + "|" + f.ChangeType + "|" + f.Symbol
		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, f)
	}

	return out
}

var severityRank = map[Severity]int{Critical: 0, High: 1, Medium: 2, Low: 3}

func sortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if severityRank[findings[i].Severity] != severityRank[findings[j].Severity] {
			return severityRank[findings[i].Severity] < severityRank[findings[j].Severity]
		}

		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}

		return findings[i].Symbol < findings[j].Symbol
	})
}
