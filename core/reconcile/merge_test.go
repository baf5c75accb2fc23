package reconcile

import (
	"testing"

	"github.com/VinniZP/lingx/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlan_AddedBecomesUpsert(t *testing.T) {
	diff := DiffResult{
		AddedOnlySource: []Entry{
			{Identity: catalog.Identity{Language: "es", Key: "greeting"}, Value: "Hola"},
		},
	}

	plan, err := BuildPlan(diff, nil, PlanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []Upsert{
		{Identity: catalog.Identity{Language: "es", Key: "greeting"}, Value: "Hola"},
	}, plan.Upserts)
	assert.Empty(t, plan.Deletes)
	assert.Equal(t, 1, plan.Summary.Languages["es"].Added)
}

func TestBuildPlan_ResolvedConflicts(t *testing.T) {
	diff := DiffResult{
		ChangedBothPresent: []Conflict{
			{Identity: catalog.Identity{Language: "en", Key: "a"}, SourceValue: "new", TargetValue: "old"},
			{Identity: catalog.Identity{Language: "en", Key: "b"}, SourceValue: "new", TargetValue: "old"},
		},
	}
	resolutions := []Resolution{
		{Language: "en", Key: "a", Winner: WinnerSource},
		{Language: "en", Key: "b", Winner: WinnerTarget},
	}

	plan, err := BuildPlan(diff, resolutions, PlanOptions{})
	require.NoError(t, err)

	// Winner source writes the source value; winner target writes nothing
	// but still counts as resolved.
	assert.Equal(t, []Upsert{
		{Identity: catalog.Identity{Language: "en", Key: "a"}, Value: "new"},
	}, plan.Upserts)
	assert.Equal(t, 1, plan.Summary.Languages["en"].Updated)
	assert.Equal(t, 1, plan.Summary.Languages["en"].Skipped)
}

func TestBuildPlan_UnresolvedConflictRefusesPlan(t *testing.T) {
	diff := DiffResult{
		AddedOnlySource: []Entry{
			{Identity: catalog.Identity{Language: "es", Key: "x"}, Value: "1"},
		},
		ChangedBothPresent: []Conflict{
			{Identity: catalog.Identity{Language: "en", Key: "a"}, SourceValue: "new", TargetValue: "old"},
			{Identity: catalog.Identity{Language: "en", Key: "b"}, SourceValue: "new", TargetValue: "old"},
		},
	}
	resolutions := []Resolution{{Language: "en", Key: "a", Winner: WinnerSource}}

	plan, err := BuildPlan(diff, resolutions, PlanOptions{})
	assert.Nil(t, plan)

	var unresolved *UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []catalog.Identity{{Language: "en", Key: "b"}}, unresolved.Identities)
	assert.Contains(t, unresolved.Error(), "en/b")
}

func TestBuildPlan_DeleteUnmatched(t *testing.T) {
	diff := DiffResult{
		RemovedOnlyTarget: []Entry{
			{Identity: catalog.Identity{Language: "en", Key: "obsolete"}, Value: "x"},
		},
	}

	// Default: target-only keys are preserved
	plan, err := BuildPlan(diff, nil, PlanOptions{})
	require.NoError(t, err)
	assert.Empty(t, plan.Deletes)
	assert.True(t, plan.Empty())

	// Opt-in: they become deletes
	plan, err = BuildPlan(diff, nil, PlanOptions{DeleteUnmatched: true})
	require.NoError(t, err)
	assert.Equal(t, []catalog.Identity{{Language: "en", Key: "obsolete"}}, plan.Deletes)
	assert.Equal(t, 1, plan.Summary.Languages["en"].Deleted)
}

func TestBuildPlan_DuplicateResolutionFirstWins(t *testing.T) {
	diff := DiffResult{
		ChangedBothPresent: []Conflict{
			{Identity: catalog.Identity{Language: "en", Key: "a"}, SourceValue: "new", TargetValue: "old"},
		},
	}
	resolutions := []Resolution{
		{Language: "en", Key: "a", Winner: WinnerTarget},
		{Language: "en", Key: "a", Winner: WinnerSource},
	}

	plan, err := BuildPlan(diff, resolutions, PlanOptions{})
	require.NoError(t, err)
	assert.Empty(t, plan.Upserts)
	assert.Equal(t, 1, plan.Summary.Languages["en"].Skipped)
}

func TestBuildPlan_InvalidWinnerRejected(t *testing.T) {
	diff := DiffResult{}
	_, err := BuildPlan(diff, []Resolution{{Language: "en", Key: "a", Winner: "remote"}}, PlanOptions{})
	assert.Error(t, err)
}

// The worked example: resolving en/greeting to target and merging without
// deletes keeps "Hello" and still adds es/greeting.
func TestBuildPlan_SpecExample(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{
		"en": {"greeting": "Hi"},
		"es": {"greeting": "Hola"},
	})
	target := catalog.FromMap(map[string]map[string]string{
		"en": {"greeting": "Hello"},
	})

	diff := Diff(source, target)
	plan, err := BuildPlan(diff, []Resolution{
		{Language: "en", Key: "greeting", Winner: WinnerTarget},
	}, PlanOptions{})
	require.NoError(t, err)

	next := target.Clone()
	for _, u := range plan.Upserts {
		next.Set(u.Language, u.Key, u.Value)
	}
	for _, d := range plan.Deletes {
		next.Delete(d.Language, d.Key)
	}

	value, _ := next.Get("en", "greeting")
	assert.Equal(t, "Hello", value)
	value, ok := next.Get("es", "greeting")
	assert.True(t, ok)
	assert.Equal(t, "Hola", value)
}

// Applying a plan for a pure-addition diff and re-diffing must leave no
// remaining source-only entries for those keys.
func TestBuildPlan_ApplyThenRediffConverges(t *testing.T) {
	source := catalog.FromMap(map[string]map[string]string{
		"en": {"a": "1", "b": "2"},
		"fr": {"a": "un"},
	})
	target := catalog.FromMap(map[string]map[string]string{
		"en": {"a": "1"},
	})

	diff := Diff(source, target)
	require.Empty(t, diff.ChangedBothPresent)

	plan, err := BuildPlan(diff, nil, PlanOptions{})
	require.NoError(t, err)

	next := target.Clone()
	for _, u := range plan.Upserts {
		next.Set(u.Language, u.Key, u.Value)
	}

	rediff := Diff(source, next)
	assert.Empty(t, rediff.AddedOnlySource)
	assert.Empty(t, rediff.ChangedBothPresent)
}
