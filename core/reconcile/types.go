package reconcile

import (
	"sort"

	"github.com/VinniZP/lingx/core/catalog"
)

// Entry is a translation present on exactly one side of a diff.
type Entry struct {
	catalog.Identity
	Value string `json:"value"`
}

// Conflict is a translation present on both sides with different values.
// It carries both values so resolution never needs to reload a catalog.
type Conflict struct {
	catalog.Identity
	SourceValue string `json:"source_value"`
	TargetValue string `json:"target_value"`
}

// DiffResult classifies every (language, key) identity from the union of two
// catalogs into disjoint categories. Identities with identical values on both
// sides are omitted. All lists are ordered by language code, then key name.
type DiffResult struct {
	// AddedOnlySource lists identities present in the source catalog only.
	AddedOnlySource []Entry `json:"added_only_source"`

	// RemovedOnlyTarget lists identities present in the target catalog only.
	RemovedOnlyTarget []Entry `json:"removed_only_target"`

	// ChangedBothPresent lists identities present in both catalogs with
	// different values. Every entry is a potential conflict; the caller
	// decides resolution policy.
	ChangedBothPresent []Conflict `json:"changed_both_present"`
}

// Empty reports whether the diff found no differences at all.
func (d DiffResult) Empty() bool {
	return len(d.AddedOnlySource) == 0 &&
		len(d.RemovedOnlyTarget) == 0 &&
		len(d.ChangedBothPresent) == 0
}

// Winner names the side whose value wins a resolved conflict.
type Winner string

const (
	// WinnerSource applies the source catalog's value.
	WinnerSource Winner = "source"
	// WinnerTarget keeps the target catalog's current value.
	WinnerTarget Winner = "target"
)

// Valid reports whether the winner is one of the two known sides.
func (w Winner) Valid() bool {
	return w == WinnerSource || w == WinnerTarget
}

// Resolution records the decision for exactly one conflict.
type Resolution struct {
	Language string `json:"language"`
	Key      string `json:"key"`
	Winner   Winner `json:"winner"`
}

// Identity returns the (language, key) identity this resolution applies to.
func (r Resolution) Identity() catalog.Identity {
	return catalog.Identity{Language: r.Language, Key: r.Key}
}

// Upsert is one planned write: set (language, key) to Value.
type Upsert struct {
	catalog.Identity
	Value string `json:"value"`
}

// MergePlan is the materialized outcome of a diff plus its resolutions:
// the exact upserts and deletes to hand to a catalog writer, with
// per-language counts for operator reporting.
type MergePlan struct {
	Upserts []Upsert           `json:"upserts"`
	Deletes []catalog.Identity `json:"deletes"`
	Summary Summary            `json:"summary"`
}

// Empty reports whether the plan performs no writes.
func (p *MergePlan) Empty() bool {
	return len(p.Upserts) == 0 && len(p.Deletes) == 0
}

// PlanOptions controls merge plan construction.
type PlanOptions struct {
	// DeleteUnmatched turns target-only identities into deletes. Off by
	// default: the merge is additive unless the caller opts in, because
	// silently losing translator work is the worse failure mode.
	DeleteUnmatched bool
}

// LanguageCount holds the per-language outcome counts of a merge.
type LanguageCount struct {
	// Added counts keys newly written to the target.
	Added int `json:"added"`
	// Updated counts conflicts resolved to the source value.
	Updated int `json:"updated"`
	// Skipped counts conflicts resolved to keep the target value.
	Skipped int `json:"skipped"`
	// Deleted counts target-only keys removed.
	Deleted int `json:"deleted"`
}

// Summary aggregates merge outcome counts per language.
type Summary struct {
	Languages map[string]*LanguageCount `json:"languages"`
}

func newSummary() Summary {
	return Summary{Languages: make(map[string]*LanguageCount)}
}

func (s Summary) bump(language string) *LanguageCount {
	count, ok := s.Languages[language]
	if !ok {
		count = &LanguageCount{}
		s.Languages[language] = count
	}
	return count
}

// Totals sums the counts across all languages.
func (s Summary) Totals() LanguageCount {
	var total LanguageCount
	for _, count := range s.Languages {
		total.Added += count.Added
		total.Updated += count.Updated
		total.Skipped += count.Skipped
		total.Deleted += count.Deleted
	}
	return total
}

// SortedLanguages returns the summary's language codes in sorted order,
// for deterministic report output.
func (s Summary) SortedLanguages() []string {
	langs := make([]string, 0, len(s.Languages))
	for lang := range s.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
