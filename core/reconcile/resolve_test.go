package reconcile

import (
	"context"
	"fmt"
	"testing"

	"github.com/VinniZP/lingx/core/catalog"

	"github.com/stretchr/testify/assert"
)

func conflictFixture(n int) []Conflict {
	conflicts := make([]Conflict, 0, n)
	for i := 0; i < n; i++ {
		conflicts = append(conflicts, Conflict{
			Identity:    catalog.Identity{Language: "en", Key: fmt.Sprintf("key%d", i)},
			SourceValue: "local",
			TargetValue: "remote",
		})
	}
	return conflicts
}

func TestForceResolvers(t *testing.T) {
	conflicts := conflictFixture(3)

	accepted, rejected, err := ForceSource().Resolve(context.Background(), conflicts)
	assert.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Len(t, accepted, 3)
	for _, r := range accepted {
		assert.Equal(t, WinnerSource, r.Winner)
	}

	accepted, rejected, err = ForceTarget().Resolve(context.Background(), conflicts)
	assert.NoError(t, err)
	assert.Empty(t, rejected)
	for _, r := range accepted {
		assert.Equal(t, WinnerTarget, r.Winner)
	}
}

func TestForceResolver_NoConflicts(t *testing.T) {
	accepted, rejected, err := ForceSource().Resolve(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, accepted)
	assert.Empty(t, rejected)
}

// scriptedPrompter returns pre-recorded answers in call order.
type scriptedPrompter struct {
	answers []Winner
	errs    []error
	calls   []Conflict
}

func (p *scriptedPrompter) Choose(ctx context.Context, c Conflict) (Winner, error) {
	i := len(p.calls)
	p.calls = append(p.calls, c)
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	return p.answers[i], nil
}

func TestInteractiveResolver_PromptsInOrder(t *testing.T) {
	conflicts := conflictFixture(3)
	prompter := &scriptedPrompter{answers: []Winner{WinnerSource, WinnerTarget, WinnerSource}}
	resolver := InteractiveResolver{Prompter: prompter}

	accepted, rejected, err := resolver.Resolve(context.Background(), conflicts)
	assert.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, conflicts, prompter.calls)

	assert.Equal(t, []Resolution{
		{Language: "en", Key: "key0", Winner: WinnerSource},
		{Language: "en", Key: "key1", Winner: WinnerTarget},
		{Language: "en", Key: "key2", Winner: WinnerSource},
	}, accepted)
}

func TestInteractiveResolver_CancellationKeepsPartialDecisions(t *testing.T) {
	conflicts := conflictFixture(4)
	prompter := &scriptedPrompter{
		answers: []Winner{WinnerSource, WinnerTarget, "", ""},
		errs:    []error{nil, nil, ErrCancelled, nil},
	}
	resolver := InteractiveResolver{Prompter: prompter}

	accepted, rejected, err := resolver.Resolve(context.Background(), conflicts)
	assert.ErrorIs(t, err, ErrCancelled)

	// Decisions made before the abort survive; the rest come back rejected,
	// never forced.
	assert.Len(t, accepted, 2)
	assert.Equal(t, conflicts[2:], rejected)
	assert.Len(t, prompter.calls, 3)
}

func TestInteractiveResolver_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conflicts := conflictFixture(2)
	resolver := InteractiveResolver{Prompter: &scriptedPrompter{answers: []Winner{WinnerSource, WinnerSource}}}

	accepted, rejected, err := resolver.Resolve(ctx, conflicts)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, accepted)
	assert.Equal(t, conflicts, rejected)
}

func TestInteractiveResolver_InvalidWinner(t *testing.T) {
	conflicts := conflictFixture(1)
	resolver := InteractiveResolver{Prompter: &scriptedPrompter{answers: []Winner{"both"}}}

	_, _, err := resolver.Resolve(context.Background(), conflicts)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCancelled)
}
