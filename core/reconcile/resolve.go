package reconcile

import (
	"context"
	"errors"
)

// ErrCancelled is returned when an interactive resolution session is aborted
// by the user or the caller's context. Decisions made before the abort are
// still returned; remaining conflicts come back as rejected.
var ErrCancelled = errors.New("conflict resolution cancelled")

// Resolver decides, per conflict, which side's value wins.
//
// Accepted resolutions cover the conflicts the resolver was able to decide;
// rejected conflicts were left undecided (interactive session aborted). A
// resolver must never invent a decision for a conflict it was not asked to
// resolve, and must preserve conflict order when delegating.
type Resolver interface {
	Resolve(ctx context.Context, conflicts []Conflict) (accepted []Resolution, rejected []Conflict, err error)
}

type forceResolver struct {
	winner Winner
}

// ForceSource returns a resolver that resolves every conflict to the source
// value automatically.
func ForceSource() Resolver { return forceResolver{winner: WinnerSource} }

// ForceTarget returns a resolver that keeps the target value for every
// conflict, equivalent to skipping all incoming changes.
func ForceTarget() Resolver { return forceResolver{winner: WinnerTarget} }

func (f forceResolver) Resolve(ctx context.Context, conflicts []Conflict) ([]Resolution, []Conflict, error) {
	if err := ctx.Err(); err != nil {
		return nil, conflicts, ErrCancelled
	}

	accepted := make([]Resolution, 0, len(conflicts))
	for _, c := range conflicts {
		accepted = append(accepted, Resolution{
			Language: c.Language,
			Key:      c.Key,
			Winner:   f.winner,
		})
	}
	return accepted, nil, nil
}

// Prompter asks an external collaborator (terminal, UI) to pick the winner
// for a single conflict. Returning ErrCancelled aborts the session.
type Prompter interface {
	Choose(ctx context.Context, conflict Conflict) (Winner, error)
}

// InteractiveResolver delegates each conflict, in order, to a Prompter.
type InteractiveResolver struct {
	Prompter Prompter
}

// Resolve prompts once per conflict. On cancellation, already-made decisions
// are kept and the remaining conflicts are returned as rejected, so a partial
// session yields a usable partial resolution instead of an all-or-nothing
// failure.
func (r InteractiveResolver) Resolve(ctx context.Context, conflicts []Conflict) ([]Resolution, []Conflict, error) {
	var accepted []Resolution

	for i, conflict := range conflicts {
		if err := ctx.Err(); err != nil {
			return accepted, conflicts[i:], ErrCancelled
		}

		winner, err := r.Prompter.Choose(ctx, conflict)
		if err != nil {
			if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
				return accepted, conflicts[i:], ErrCancelled
			}
			return accepted, conflicts[i:], err
		}
		if !winner.Valid() {
			return accepted, conflicts[i:], errors.New("prompter returned unknown winner " + string(winner))
		}

		accepted = append(accepted, Resolution{
			Language: conflict.Language,
			Key:      conflict.Key,
			Winner:   winner,
		})
	}

	return accepted, nil, nil
}
