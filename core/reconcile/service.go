package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/VinniZP/lingx/core/catalog"

	"go.uber.org/zap"
)

// ErrStaleCatalog signals that the target catalog changed between diff time
// and write time in a way that invalidates the computed plan. The service
// retries from the load step; if the conflict set materially changed, the
// error reaches the caller so a human can re-review instead of the service
// blindly re-applying stale decisions.
var ErrStaleCatalog = errors.New("target catalog changed since diff")

// Loader produces a point-in-time catalog snapshot. Implementations must not
// return a partially written catalog.
type Loader interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Writer applies a merge plan against the store a snapshot was loaded from.
// Upserts are applied before deletes. base is the target snapshot the plan
// was computed against; writers that can should condition each write on the
// base state (optimistic check) and return ErrStaleCatalog on mismatch.
type Writer interface {
	Apply(ctx context.Context, base catalog.Catalog, plan *MergePlan) error
}

// Archiver stores a recoverable copy of a catalog before destructive merges.
type Archiver interface {
	Archive(ctx context.Context, snapshot catalog.Catalog) error
}

// Service runs one reconciliation end-to-end: load both catalogs, diff,
// resolve, plan, write. It is the only part of the engine with I/O or retry
// concerns; everything it calls is pure.
type Service struct {
	Source Loader
	Target Loader
	Writer Writer

	// Archiver, when set, receives the target snapshot before any plan that
	// contains deletes is applied. Optional.
	Archiver Archiver

	// MaxAttempts bounds full load-diff-write retries after a write failure
	// or stale optimistic check. Zero means a single additional retry.
	MaxAttempts int

	Logger *zap.Logger
}

// MergeOptions selects how a merge resolves conflicts and what it deletes.
type MergeOptions struct {
	// Resolutions supplies explicit per-key decisions, e.g. from a review UI.
	// When nil, Resolver is consulted instead.
	Resolutions []Resolution

	// Resolver decides conflicts when no explicit resolutions are supplied.
	Resolver Resolver

	// DeleteUnmatched removes target-only keys (opt-in, destructive).
	DeleteUnmatched bool

	// DryRun computes the plan but skips archive and write.
	DryRun bool
}

// Diff loads both catalogs fresh and returns their diff. Never writes.
func (s *Service) Diff(ctx context.Context) (DiffResult, error) {
	source, target, err := s.load(ctx)
	if err != nil {
		return DiffResult{}, err
	}
	return Diff(source, target), nil
}

// Merge runs the full pipeline. It fails with *UnresolvedError and performs
// zero writes if any conflict is left undecided, returns ErrCancelled with
// zero writes if an interactive session is aborted, and retries the whole
// pipeline from the load step on write failure rather than resuming a
// remembered partial plan.
func (s *Service) Merge(ctx context.Context, opts MergeOptions) (*MergePlan, error) {
	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 2
	}

	// Target values the accepted resolutions were decided against, used to
	// detect materially changed conflicts on retry.
	var decidedAgainst map[catalog.Identity]string
	var resolutions []Resolution

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		source, target, err := s.load(ctx)
		if err != nil {
			return nil, err
		}

		diff := Diff(source, target)

		if attempt == 1 {
			resolutions, err = s.resolve(ctx, diff, opts)
			if err != nil {
				return nil, err
			}
			decidedAgainst = make(map[catalog.Identity]string, len(diff.ChangedBothPresent))
			for _, c := range diff.ChangedBothPresent {
				decidedAgainst[c.Identity] = c.TargetValue
			}
		} else {
			// Re-diffed after a failed write: keep only resolutions whose
			// conflict is unchanged, drop the moot ones, and bail out if a
			// decided key now conflicts against a different target value.
			resolutions, err = revalidate(diff, resolutions, decidedAgainst)
			if err != nil {
				return nil, err
			}
		}

		plan, err := BuildPlan(diff, resolutions, PlanOptions{DeleteUnmatched: opts.DeleteUnmatched})
		if err != nil {
			return nil, err
		}

		if opts.DryRun || plan.Empty() {
			return plan, nil
		}

		if len(plan.Deletes) > 0 && s.Archiver != nil {
			if err := s.Archiver.Archive(ctx, target); err != nil {
				return nil, fmt.Errorf("failed to archive target catalog: %w", err)
			}
		}

		if err := s.Writer.Apply(ctx, target, plan); err != nil {
			lastErr = err
			s.log().Warn("merge write failed, retrying from load",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		return plan, nil
	}

	return nil, fmt.Errorf("merge failed after %d attempts: %w", attempts, lastErr)
}

func (s *Service) load(ctx context.Context) (source, target catalog.Catalog, err error) {
	// Both snapshots are taken before any computation so staleness skew is
	// bounded to one round trip.
	source, err = s.Source.Load(ctx)
	if err != nil {
		return catalog.Catalog{}, catalog.Catalog{}, fmt.Errorf("failed to load source catalog: %w", err)
	}
	target, err = s.Target.Load(ctx)
	if err != nil {
		return catalog.Catalog{}, catalog.Catalog{}, fmt.Errorf("failed to load target catalog: %w", err)
	}
	return source, target, nil
}

func (s *Service) resolve(ctx context.Context, diff DiffResult, opts MergeOptions) ([]Resolution, error) {
	if opts.Resolutions != nil {
		return opts.Resolutions, nil
	}
	if opts.Resolver == nil || len(diff.ChangedBothPresent) == 0 {
		return nil, nil
	}

	accepted, rejected, err := opts.Resolver.Resolve(ctx, diff.ChangedBothPresent)
	if err != nil {
		return nil, err
	}
	if len(rejected) > 0 {
		// Undecided conflicts without an explicit cancellation still mean
		// the session did not finish; never force the remainder.
		return nil, ErrCancelled
	}
	return accepted, nil
}

// revalidate filters resolutions after a re-diff. A resolution survives only
// if its identity still conflicts with the same target value it was decided
// against. Identities that no longer conflict are moot (already applied or
// independently converged); a changed target value aborts with
// ErrStaleCatalog.
func revalidate(diff DiffResult, resolutions []Resolution, decidedAgainst map[catalog.Identity]string) ([]Resolution, error) {
	current := make(map[catalog.Identity]string, len(diff.ChangedBothPresent))
	for _, c := range diff.ChangedBothPresent {
		current[c.Identity] = c.TargetValue
	}

	kept := resolutions[:0]
	for _, r := range resolutions {
		targetValue, stillConflicts := current[r.Identity()]
		if !stillConflicts {
			continue
		}
		if targetValue != decidedAgainst[r.Identity()] {
			return nil, fmt.Errorf("conflict %s/%s: %w", r.Language, r.Key, ErrStaleCatalog)
		}
		kept = append(kept, r)
	}
	return kept, nil
}

func (s *Service) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
