package reconcile

import (
	"testing"

	"github.com/VinniZP/lingx/core/catalog"

	"github.com/stretchr/testify/assert"
)

func TestDiff_Classification(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{
		"en": {"greeting": "Hi"},
		"es": {"greeting": "Hola"},
	})
	target := catalog.FromMap(map[string]map[string]string{
		"en": {"greeting": "Hello"},
	})

	diff := Diff(source, target)

	assert.Equal(t, []Entry{
		{Identity: catalog.Identity{Language: "es", Key: "greeting"}, Value: "Hola"},
	}, diff.AddedOnlySource)
	assert.Empty(t, diff.RemovedOnlyTarget)
	assert.Equal(t, []Conflict{
		{
			Identity:    catalog.Identity{Language: "en", Key: "greeting"},
			SourceValue: "Hi",
			TargetValue: "Hello",
		},
	}, diff.ChangedBothPresent)
}

func TestDiff_IdenticalInputsAreEmpty(t *testing.T) {
	c := catalog.FromMap(map[string]map[string]string{
		"en": {"a": "1", "b": "2"},
		"fr": {"a": "un"},
	})

	diff := Diff(c, c.Clone())
	assert.True(t, diff.Empty())
}

func TestDiff_EmptyCatalogs(t *testing.T) {
	diff := Diff(catalog.New(), catalog.New())
	assert.True(t, diff.Empty())

	// Empty source: everything is target-only, nothing conflicts
	target := catalog.FromMap(map[string]map[string]string{"en": {"a": "1"}})
	diff = Diff(catalog.New(), target)
	assert.Empty(t, diff.AddedOnlySource)
	assert.Empty(t, diff.ChangedBothPresent)
	assert.Len(t, diff.RemovedOnlyTarget, 1)
}

func TestDiff_LanguageAbsentOnOneSide(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{
		"en": {"a": "1"},
		"de": {"a": "eins", "b": "zwei"},
	})
	target := catalog.FromMap(map[string]map[string]string{
		"en": {"a": "1"},
	})

	diff := Diff(source, target)

	// A language present only in the source contributes all of its keys to
	// the only-list, never to the conflict list.
	assert.Len(t, diff.AddedOnlySource, 2)
	assert.Empty(t, diff.ChangedBothPresent)
	for _, e := range diff.AddedOnlySource {
		assert.Equal(t, "de", e.Language)
	}
}

func TestDiff_ExactEquality(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{"en": {"a": "hi "}})
	target := catalog.FromMap(map[string]map[string]string{"en": {"a": "hi"}})

	diff := Diff(source, target)
	assert.Len(t, diff.ChangedBothPresent, 1)

	// Empty string is a value; differing from a non-empty one is a change
	source = catalog.FromMap(map[string]map[string]string{"en": {"a": ""}})
	diff = Diff(source, target)
	assert.Len(t, diff.ChangedBothPresent, 1)
}

func TestDiff_DeterministicOrdering(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{
		"fr": {"z": "1", "a": "2"},
		"de": {"m": "3"},
		"en": {"k": "4"},
	})
	target := catalog.New()

	for i := 0; i < 10; i++ {
		diff := Diff(source, target)
		var got []catalog.Identity
		for _, e := range diff.AddedOnlySource {
			got = append(got, e.Identity)
		}
		assert.Equal(t, []catalog.Identity{
			{Language: "de", Key: "m"},
			{Language: "en", Key: "k"},
			{Language: "fr", Key: "a"},
			{Language: "fr", Key: "z"},
		}, got)
	}
}

// Category lists must be pairwise disjoint and, together with the unchanged
// pairs, cover the identity union of both inputs exactly.
func TestDiff_DisjointAndExhaustive(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{
		"en": {"a": "1", "b": "2", "c": "3"},
		"es": {"a": "uno"},
	})
	target := catalog.FromMap(map[string]map[string]string{
		"en": {"b": "2", "c": "changed", "d": "4"},
		"fr": {"a": "un"},
	})

	diff := Diff(source, target)

	seen := make(map[catalog.Identity]int)
	for _, e := range diff.AddedOnlySource {
		seen[e.Identity]++
	}
	for _, e := range diff.RemovedOnlyTarget {
		seen[e.Identity]++
	}
	for _, c := range diff.ChangedBothPresent {
		seen[c.Identity]++
	}

	for id, n := range seen {
		assert.Equal(t, 1, n, "identity %v appears in more than one category", id)
	}

	union := make(map[catalog.Identity]struct{})
	for _, id := range source.Identities() {
		union[id] = struct{}{}
	}
	for _, id := range target.Identities() {
		union[id] = struct{}{}
	}
	for id := range seen {
		_, ok := union[id]
		assert.True(t, ok, "identity %v not in the input union", id)
	}

	// Unchanged pairs account for the remainder of the union
	unchanged := 0
	for id := range union {
		if _, ok := seen[id]; ok {
			continue
		}
		sv, sok := source.Get(id.Language, id.Key)
		tv, tok := target.Get(id.Language, id.Key)
		assert.True(t, sok && tok && sv == tv)
		unchanged++
	}
	assert.Equal(t, len(union), len(seen)+unchanged)
}

// Swapping inputs must mirror the conflict set with sides exchanged.
func TestDiff_ConflictSymmetry(t *testing.T) {
	a := catalog.FromMap(map[string]map[string]string{
		"en": {"x": "1", "y": "same"},
		"es": {"x": "2"},
	})
	b := catalog.FromMap(map[string]map[string]string{
		"en": {"x": "one", "y": "same"},
		"es": {"x": "dos"},
	})

	forward := Diff(a, b).ChangedBothPresent
	backward := Diff(b, a).ChangedBothPresent

	assert.Equal(t, len(forward), len(backward))
	for i := range forward {
		assert.Equal(t, forward[i].Identity, backward[i].Identity)
		assert.Equal(t, forward[i].SourceValue, backward[i].TargetValue)
		assert.Equal(t, forward[i].TargetValue, backward[i].SourceValue)
	}
}
