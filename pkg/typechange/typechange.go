// Package typechange diffs pkg/typesig's
// before/after analysis of a modified file and reports typed-symbol
// regressions, restricted to statically-typed languages.
package typechange

import (
	"context"
	"errors"
	"sort"

	"github.com/vinpuli/archscribe/pkg/breaking"
	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
	"github.com/vinpuli/archscribe/pkg/typesig"
)

var staticallyTypedLanguages = map[string]bool{
	"typescript": true, "java": true, "go": true, "csharp": true, "rust": true,
}

// Severity reuses breaking's severity type rather than redefine an
// identical closed set.
type Severity = breaking.Severity

const (
	High   = breaking.High
	Medium = breaking.Medium
)

// Finding is Type-safety Finding.
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

// Options configures an Analyze invocation.
type Options struct {
	BaseRef        string
	TargetRef      string
	LanguageByPath map[string]string
}

// explicitTypeRatioDropThreshold and castIncreaseThreshold are
// fixed thresholds.
const (
	explicitTypeRatioDropThreshold = 0.15
	castIncreaseThreshold          = 2
	unsafeTypeHighDelta            = 2
)

// Analyze diffs before/after C4 (pkg/typesig) summaries for every
// modified file in a statically-typed language and reports findings.
func Analyze(ctx context.Context, loader *contractkernel.Loader, changes []gitdiff.FileChange, opts Options) ([]Finding, error) {
	var findings []Finding

	for _, change := range changes {
		if change.Action != gitdiff.Modify {
			continue
		}

		language := opts.LanguageByPath[change.Path]
		if !staticallyTypedLanguages[language] {
			continue
		}

		before, beforeErr := loader.Before(ctx, opts.BaseRef, change.Path, change.OldPath)
		if beforeErr != nil && !errors.Is(beforeErr, contractkernel.ErrNotFound) {
			return nil, beforeErr
		}

		after, afterErr := loader.After(ctx, opts.TargetRef, change.Path)
		if afterErr != nil && !errors.Is(afterErr, contractkernel.ErrNotFound) {
			return nil, afterErr
		}

		beforeSummary := typesig.Analyze(language, before)
		afterSummary := typesig.Analyze(language, after)

		findings = append(findings, diffSummaries(change.Path, string(change.Action), beforeSummary, afterSummary)...)
	}

	sortFindings(findings)

	return findings, nil
}

func diffSummaries(path, changeType string, before, after typesig.Summary) []Finding {
	var findings []Finding

	findings = append(findings, diffTypeDefinitions(path, changeType, before, after)...)
	findings = append(findings, diffSignatures(path, changeType, before, after)...)
	findings = append(findings, diffTypedSymbols(path, changeType, before, after)...)

	if before.ExplicitTypeRatio-after.ExplicitTypeRatio > explicitTypeRatioDropThreshold {
		findings = append(findings, Finding{
			Category: "explicit_typing_regression", Severity: Medium, FilePath: path, ChangeType: changeType,
			Description: "explicit type ratio dropped",
		})
	}

	if len(after.Casts)-len(before.Casts) > castIncreaseThreshold {
		findings = append(findings, Finding{
			Category: "cast_usage_increase", Severity: Medium, FilePath: path, ChangeType: changeType,
			Description: "cast usage increased",
		})
	}

	if delta := after.UnsafeTypeCount() - before.UnsafeTypeCount(); delta > 0 {
		severity := Medium
		if delta >= unsafeTypeHighDelta {
			severity = High
		}

		findings = append(findings, Finding{
			Category: "unsafe_type_usage_increase", Severity: severity, FilePath: path, ChangeType: changeType,
			Description: "unsafe type usage increased",
		})
	}

	return findings
}

func diffTypeDefinitions(path, changeType string, before, after typesig.Summary) []Finding {
	afterNames := make(map[string]bool)
	for _, d := range after.TypeDefinitions {
		afterNames[d.Name] = true
	}

	var findings []Finding

	for _, d := range before.TypeDefinitions {
		if afterNames[d.Name] {
			continue
		}

		findings = append(findings, Finding{
			Category: "type_definition_removed", Severity: High, FilePath: path, ChangeType: changeType,
			Symbol: d.Name, Description: d.Kind + " " + d.Name + " removed",
		})
	}

	return findings
}

func diffSignatures(path, changeType string, before, after typesig.Summary) []Finding {
	afterByName := make(map[string]typesig.FunctionSignature)
	for _, s := range after.Signatures {
		afterByName[s.Name] = s
	}

	var findings []Finding

	for _, s := range before.Signatures {
		afterSig, ok := afterByName[s.Name]
		if !ok {
			findings = append(findings, Finding{
				Category: "typed_function_removed", Severity: High, FilePath: path, ChangeType: changeType,
				Symbol: s.Name, OldSignature: signatureString(s), Description: "typed function " + s.Name + " removed",
			})

			continue
		}

		if signatureString(s) != signatureString(afterSig) {
			findings = append(findings, Finding{
				Category: "typed_function_signature_changed", Severity: High, FilePath: path, ChangeType: changeType,
				Symbol: s.Name, OldSignature: signatureString(s), NewSignature: signatureString(afterSig),
				Description: "typed function " + s.Name + " signature changed",
			})
		}
	}

	return findings
}

func diffTypedSymbols(path, changeType string, before, after typesig.Summary) []Finding {
	afterByName := make(map[string]typesig.TypedSymbol)
	for _, s := range after.TypedSymbols {
		afterByName[s.Name] = s
	}

	var findings []Finding

	for _, s := range before.TypedSymbols {
		afterSym, ok := afterByName[s.Name]
		if !ok {
			findings = append(findings, Finding{
				Category: "typed_symbol_removed", Severity: Medium, FilePath: path, ChangeType: changeType,
				Symbol: s.Name, OldSignature: s.Type, Description: "typed symbol " + s.Name + " removed",
			})

			continue
		}

		if afterSym.Type != s.Type {
			findings = append(findings, Finding{
				Category: "typed_symbol_type_changed", Severity: Medium, FilePath: path, ChangeType: changeType,
				Symbol: s.Name, OldSignature: s.Type, NewSignature: afterSym.Type,
				Description: "typed symbol " + s.Name + " type changed",
			})
		}
	}

	return findings
}

func signatureString(s typesig.FunctionSignature) string {
	out := s.Name + "("

	for i, p := range s.Parameters {
		if i > 0 {
			out += ", "
		}

		out += p.Name

		if p.Type != "" {
			out += ": " + p.Type
		}
	}

	out += ")"

	if s.ReturnType != "" {
		out += ": " + s.ReturnType
	}

	return out
}

var severityRank = map[Severity]int{breaking.Critical: 0, High: 1, Medium: 2, breaking.Low: 3}

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
