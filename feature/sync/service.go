package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/feature/branches"

	"go.uber.org/zap"
)

// Mode selects how conflicting keys are decided.
type Mode string

const (
	// ModeForceLocal lets every local value win without asking.
	ModeForceLocal Mode = "force-local"
	// ModeInteractive prompts for each conflict.
	ModeInteractive Mode = "interactive"
)

// Valid reports whether the mode is one of the defined modes.
func (m Mode) Valid() bool {
	return m == ModeForceLocal || m == ModeInteractive
}

// Options configures one sync run.
type Options struct {
	// Dir is the local translation directory.
	Dir string
	// BranchID is the server branch to sync into.
	BranchID string
	// Mode decides conflicts; interactive requires a Prompter.
	Mode Mode
	// Prompter answers interactive conflicts.
	Prompter reconcile.Prompter
	// Delete removes branch keys absent from the directory.
	Delete bool
	// DryRun computes the plan without writing.
	DryRun bool
}

// Service pushes a local translation directory into a server branch through
// the shared reconciliation engine.
type Service struct {
	store  *branches.Store
	cfg    reconcile.Config
	logger *zap.Logger
}

// NewService creates the sync service.
func NewService(store *branches.Store, cfg reconcile.Config, logger *zap.Logger) *Service {
	return &Service{store: store, cfg: cfg, logger: logger}
}

// Run loads the directory and the branch, resolves conflicts per the mode,
// and applies the resulting plan. Cancelling an interactive session returns
// reconcile.ErrCancelled with the branch untouched.
func (s *Service) Run(ctx context.Context, opts Options) (*reconcile.MergePlan, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("unknown sync mode %q", opts.Mode)
	}
	if opts.Mode == ModeInteractive && opts.Prompter == nil {
		return nil, fmt.Errorf("interactive mode requires a prompter")
	}
	if _, err := s.store.GetBranch(ctx, opts.BranchID); err != nil {
		return nil, err
	}

	var resolver reconcile.Resolver
	switch opts.Mode {
	case ModeForceLocal:
		resolver = reconcile.ForceSource()
	case ModeInteractive:
		resolver = reconcile.InteractiveResolver{Prompter: opts.Prompter}
	}

	svc := &reconcile.Service{
		Source:      DirLoader{Dir: opts.Dir},
		Target:      s.store.Loader(opts.BranchID),
		Writer:      s.store.Writer(opts.BranchID),
		MaxAttempts: s.cfg.MaxAttempts,
		Logger:      s.logger,
	}

	plan, err := svc.Merge(ctx, reconcile.MergeOptions{
		Resolver:        resolver,
		DeleteUnmatched: opts.Delete,
		DryRun:          opts.DryRun,
	})
	if err != nil {
		return nil, err
	}

	totals := plan.Summary.Totals()
	s.logger.Info("sync finished",
		zap.String("branch", opts.BranchID),
		zap.String("dir", opts.Dir),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("added", totals.Added),
		zap.Int("updated", totals.Updated),
		zap.Int("skipped", totals.Skipped),
		zap.Int("deleted", totals.Deleted),
	)
	return plan, nil
}

// WriteReport prints the per-language outcome of a plan.
func WriteReport(w io.Writer, plan *reconcile.MergePlan) {
	if plan.Empty() {
		fmt.Fprintln(w, "Already up to date.")
		return
	}

	for _, lang := range plan.Summary.SortedLanguages() {
		c := plan.Summary.Languages[lang]
		fmt.Fprintf(w, "%s: %d added, %d updated, %d skipped, %d deleted\n",
			lang, c.Added, c.Updated, c.Skipped, c.Deleted)
	}
	totals := plan.Summary.Totals()
	fmt.Fprintf(w, "total: %d added, %d updated, %d skipped, %d deleted\n",
		totals.Added, totals.Updated, totals.Skipped, totals.Deleted)
}
