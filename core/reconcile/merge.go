package reconcile

import (
	"fmt"
	"strings"

	"github.com/VinniZP/lingx/core/catalog"
)

// UnresolvedError reports conflicts that had no accepted resolution when a
// merge plan was requested. The plan is refused outright: a merge must never
// silently drop or guess on a conflicting key.
type UnresolvedError struct {
	Identities []catalog.Identity
}

func (e *UnresolvedError) Error() string {
	names := make([]string, 0, len(e.Identities))
	for _, id := range e.Identities {
		names = append(names, id.Language+"/"+id.Key)
	}
	return fmt.Sprintf("%d unresolved conflict(s): %s", len(e.Identities), strings.Join(names, ", "))
}

// BuildPlan turns a diff plus accepted resolutions into a concrete merge
// plan. Rules apply in order and each identity is placed exactly once:
//
//  1. Source-only entries become upserts ("added").
//  2. Conflicts with an accepted resolution: winner source becomes an upsert
//     ("updated"); winner target produces no write but still counts as
//     resolved ("skipped").
//  3. Conflicts without a resolution refuse the whole plan with
//     *UnresolvedError; they never default to either side.
//  4. Target-only entries become deletes only when opts.DeleteUnmatched.
//
// Stateless: nothing persists across calls.
func BuildPlan(diff DiffResult, resolutions []Resolution, opts PlanOptions) (*MergePlan, error) {
	decided := make(map[catalog.Identity]Winner, len(resolutions))
	for _, r := range resolutions {
		if !r.Winner.Valid() {
			return nil, fmt.Errorf("resolution for %s/%s has unknown winner %q", r.Language, r.Key, r.Winner)
		}
		if _, dup := decided[r.Identity()]; dup {
			// First decision wins; a later duplicate never overwrites it.
			continue
		}
		decided[r.Identity()] = r.Winner
	}

	plan := &MergePlan{Summary: newSummary()}

	for _, entry := range diff.AddedOnlySource {
		plan.Upserts = append(plan.Upserts, Upsert{Identity: entry.Identity, Value: entry.Value})
		plan.Summary.bump(entry.Language).Added++
	}

	var unresolved []catalog.Identity
	for _, conflict := range diff.ChangedBothPresent {
		winner, ok := decided[conflict.Identity]
		if !ok {
			unresolved = append(unresolved, conflict.Identity)
			continue
		}
		if winner == WinnerSource {
			plan.Upserts = append(plan.Upserts, Upsert{Identity: conflict.Identity, Value: conflict.SourceValue})
			plan.Summary.bump(conflict.Language).Updated++
		} else {
			// Keeping the target value is a resolved outcome, not an error.
			plan.Summary.bump(conflict.Language).Skipped++
		}
	}
	if len(unresolved) > 0 {
		return nil, &UnresolvedError{Identities: unresolved}
	}

	if opts.DeleteUnmatched {
		for _, entry := range diff.RemovedOnlyTarget {
			plan.Deletes = append(plan.Deletes, entry.Identity)
			plan.Summary.bump(entry.Language).Deleted++
		}
	}

	return plan, nil
}
