package reconcile

import (
	"sort"

	"github.com/VinniZP/lingx/core/catalog"
)

// Diff compares two catalog snapshots and classifies every (language, key)
// identity in their union. Pure function: no I/O, no mutation of either
// input, safe to call concurrently on independent inputs.
//
// Values are compared by exact string equality. A trailing-whitespace
// difference is a change; no normalization is applied.
func Diff(source, target catalog.Catalog) DiffResult {
	var result DiffResult

	union := make(map[catalog.Identity]struct{}, source.Len()+target.Len())
	for _, id := range source.Identities() {
		union[id] = struct{}{}
	}
	for _, id := range target.Identities() {
		union[id] = struct{}{}
	}

	for id := range union {
		sourceValue, inSource := source.Get(id.Language, id.Key)
		targetValue, inTarget := target.Get(id.Language, id.Key)

		switch {
		case inSource && !inTarget:
			result.AddedOnlySource = append(result.AddedOnlySource, Entry{Identity: id, Value: sourceValue})
		case !inSource && inTarget:
			result.RemovedOnlyTarget = append(result.RemovedOnlyTarget, Entry{Identity: id, Value: targetValue})
		case sourceValue != targetValue:
			result.ChangedBothPresent = append(result.ChangedBothPresent, Conflict{
				Identity:    id,
				SourceValue: sourceValue,
				TargetValue: targetValue,
			})
		}
		// Equal values on both sides are omitted by design.
	}

	sortEntries(result.AddedOnlySource)
	sortEntries(result.RemovedOnlyTarget)
	sort.Slice(result.ChangedBothPresent, func(i, j int) bool {
		return result.ChangedBothPresent[i].Identity.Less(result.ChangedBothPresent[j].Identity)
	})

	return result
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Identity.Less(entries[j].Identity)
	})
}
