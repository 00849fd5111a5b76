// Package feature groups impacted files
// into product-feature buckets and assigns each a communication
// priority, so downstream plan generators can summarize a change by
// what it affects rather than by raw file list.
package feature

import (
	"sort"
	"strings"

	"github.com/vinpuli/archscribe/pkg/breaking"
	"github.com/vinpuli/archscribe/pkg/contractkernel"
	"github.com/vinpuli/archscribe/pkg/gitdiff"
	"github.com/vinpuli/archscribe/pkg/typechange"
)

// Priority is the communication priority assigned to a feature bucket.
type Priority string

const (
	Urgent Priority = "urgent"
	High   Priority = "high"
	Normal Priority = "normal"
	Low    Priority = "low"
)

// rootFeature names the bucket for files whose path has no segment
// beyond the closed noise set (NoiseParts).
const rootFeature = "root"

// Bucket is one product-feature grouping of impacted files.
type Bucket struct {
	Feature            string   `json:"feature"`
	Files              []string `json:"files"`
	Created            int      `json:"created"`
	Modified           int      `json:"modified"`
	Deleted            int      `json:"deleted"`
	BreakingFindings   int      `json:"breaking_findings"`
	TypeSafetyFindings int      `json:"type_safety_findings"`
	CoverageGaps       int      `json:"coverage_gaps"`
	Priority           Priority `json:"priority"`
}

// Inputs bundles the upstream signals a bucket's priority is derived
// from: the classified changes (C8), breaking-change findings (C10),
// type-safety findings (C11), and test-impact coverage gaps (C12).
type Inputs struct {
	Changes      []gitdiff.FileChange
	Breaking     []breaking.Finding
	TypeSafety   []typechange.Finding
	CoverageGaps []string
}

// Attribute groups every changed file into a feature bucket keyed by
// its first non-noise path segment, folds in the C10-C12 signals that
// touch each bucket's files, and derives a communication priority.
func Attribute(in Inputs) []Bucket {
	buckets := make(map[string]*Bucket)

	order := func(name string) *Bucket {
		b, ok := buckets[name]
		if !ok {
			b = &Bucket{Feature: name}
			buckets[name] = b
		}

		return b
	}

	for _, c := range in.Changes {
		b := order(featureOf(c.Path))
		b.Files = append(b.Files, c.Path)

		switch c.Action {
		case gitdiff.Create:
			b.Created++
		case gitdiff.Modify:
			b.Modified++
		case gitdiff.Delete:
			b.Deleted++
		}
	}

	for _, f := range in.Breaking {
		if b, ok := buckets[featureOf(f.FilePath)]; ok {
			b.BreakingFindings++
		}
	}

	for _, f := range in.TypeSafety {
		if b, ok := buckets[featureOf(f.FilePath)]; ok {
			b.TypeSafetyFindings++
		}
	}

	for _, gap := range in.CoverageGaps {
		if b, ok := buckets[featureOf(gap)]; ok {
			b.CoverageGaps++
		}
	}

	out := make([]Bucket, 0, len(buckets))

	for _, b := range buckets {
		sort.Strings(b.Files)
		b.Priority = priorityOf(*b)
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
		}

		return out[i].Feature < out[j].Feature
	})

	return out
}

// featureOf derives a bucket name from the first path segment that
// isn't in the closed noise set, mirroring C15's component-inventory
// grouping rule but applied to the impacted-file set instead of the
// whole repository tree.
func featureOf(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || contractkernel.NoiseParts[segment] {
			continue
		}

		return segment
	}

	return rootFeature
}

var priorityRank = map[Priority]int{Urgent: 0, High: 1, Normal: 2, Low: 3}

func priorityOf(b Bucket) Priority {
	switch {
	case b.BreakingFindings > 0 && b.Deleted > 0:
		return Urgent
	case b.BreakingFindings > 0 || b.CoverageGaps > 0:
		return High
	case b.Modified+b.Created+b.Deleted >= 3 || b.TypeSafetyFindings > 0:
		return Normal
	default:
		return Low
	}
}
