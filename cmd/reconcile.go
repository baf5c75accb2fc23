package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/VinniZP/lingx/core/config"
	"github.com/VinniZP/lingx/core/database"
	"github.com/VinniZP/lingx/core/logger"
	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/core/storage"
	"github.com/VinniZP/lingx/feature/branches"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	reconcileSource string
	reconcileTarget string
	doMerge         bool
	preferSide      string
	deleteUnmatched bool
	dryRunReconcile bool
	yesConfirm      bool
)

// reconcileCmd diffs two branches and optionally merges them.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile one branch into another (report + optional merge)",
	Long: `Reconcile two translation branches.

Reports added, removed, and conflicting keys between the source and target
branch. With --merge, applies the changes to the target; conflicting keys
need --prefer to decide which side wins.

Examples:
  # Report only
  lingx reconcile --source feature-x --target main

  # Merge, source values win conflicts (with interactive confirmation)
  lingx reconcile --source feature-x --target main --merge --prefer source

  # Merge and remove target-only keys, non-interactive
  lingx reconcile --source feature-x --target main --merge --prefer source --delete --yes

  # Show the plan without writing
  lingx reconcile --source feature-x --target main --merge --prefer source --dry-run`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileSource, "source", "", "Source branch id")
	reconcileCmd.Flags().StringVar(&reconcileTarget, "target", "", "Target branch id")
	reconcileCmd.Flags().BoolVar(&doMerge, "merge", false, "Apply the changes to the target branch")
	reconcileCmd.Flags().StringVar(&preferSide, "prefer", "", "Conflict winner: source or target")
	reconcileCmd.Flags().BoolVar(&deleteUnmatched, "delete", false, "Delete target keys absent from the source")
	reconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Compute the plan without writing")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	_ = reconcileCmd.MarkFlagRequired("source")
	_ = reconcileCmd.MarkFlagRequired("target")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store := branches.NewStore(db)
	if _, err := store.GetBranch(ctx, reconcileSource); err != nil {
		return err
	}
	if _, err := store.GetBranch(ctx, reconcileTarget); err != nil {
		return err
	}

	svc := &reconcile.Service{
		Source:      store.Loader(reconcileSource),
		Target:      store.Loader(reconcileTarget),
		Writer:      store.Writer(reconcileTarget),
		Archiver:    reconcileArchiver(cfg.Storage, l),
		MaxAttempts: cfg.Reconcile.MaxAttempts,
		Logger:      l,
	}

	// Step 1: Report (always runs)
	diff, err := svc.Diff(ctx)
	if err != nil {
		return fmt.Errorf("failed to diff branches: %w", err)
	}
	printDiffReport(l, diff)

	if !doMerge {
		l.Info("No actions requested. Use --merge with --prefer to apply changes.")
		return nil
	}

	opts := reconcile.MergeOptions{
		DeleteUnmatched: deleteUnmatched,
		DryRun:          true,
	}
	switch preferSide {
	case "source":
		opts.Resolver = reconcile.ForceSource()
	case "target":
		opts.Resolver = reconcile.ForceTarget()
	case "":
		// Conflicts stay undecided; the merge fails listing them.
		opts.Resolutions = []reconcile.Resolution{}
	default:
		return fmt.Errorf("unknown --prefer value %q, want source or target", preferSide)
	}

	// Step 2: Plan without writing, so the operator confirms real numbers.
	plan, err := svc.Merge(ctx, opts)
	if err != nil {
		return err
	}
	printPlanReport(l, plan)

	if plan.Empty() {
		l.Info("Branches already reconciled.")
		return nil
	}
	if dryRunReconcile {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	// Step 3: Apply for real. The engine re-loads and re-plans, so edits
	// made while the prompt was open are caught by the optimistic writer.
	opts.DryRun = false
	applied, err := svc.Merge(ctx, opts)
	if err != nil {
		return err
	}

	totals := applied.Summary.Totals()
	l.Info("Merge applied",
		zap.String("source_branch", reconcileSource),
		zap.String("target_branch", reconcileTarget),
		zap.Int("added", totals.Added),
		zap.Int("updated", totals.Updated),
		zap.Int("skipped", totals.Skipped),
		zap.Int("deleted", totals.Deleted),
	)
	return nil
}

func reconcileArchiver(cfg storage.Config, l *zap.Logger) reconcile.Archiver {
	if !cfg.ArchiveEnabled {
		return nil
	}
	client, err := storage.NewClient(cfg)
	if err != nil {
		l.Warn("Archiving disabled, storage unavailable", zap.Error(err))
		return nil
	}
	return &branches.SnapshotArchiver{
		Client:   client,
		Bucket:   cfg.Bucket,
		Prefix:   cfg.ArchivePrefix,
		BranchID: reconcileTarget,
	}
}

// printDiffReport prints a formatted diff report using logger.
func printDiffReport(l *zap.Logger, diff reconcile.DiffResult) {
	l.Info("Branch diff report",
		zap.Int("added_only_source", len(diff.AddedOnlySource)),
		zap.Int("removed_only_target", len(diff.RemovedOnlyTarget)),
		zap.Int("changed_both_present", len(diff.ChangedBothPresent)),
	)

	maxShow := 5
	for i, c := range diff.ChangedBothPresent {
		if i == maxShow {
			l.Info("Additional conflicts not shown", zap.Int("count", len(diff.ChangedBothPresent)-maxShow))
			break
		}
		l.Info("Conflict",
			zap.String("language", c.Language),
			zap.String("key", c.Key),
			zap.String("source_value", c.SourceValue),
			zap.String("target_value", c.TargetValue),
		)
	}
}

// printPlanReport prints per-language plan counts using logger.
func printPlanReport(l *zap.Logger, plan *reconcile.MergePlan) {
	for _, lang := range plan.Summary.SortedLanguages() {
		c := plan.Summary.Languages[lang]
		l.Info("Planned changes",
			zap.String("language", lang),
			zap.Int("added", c.Added),
			zap.Int("updated", c.Updated),
			zap.Int("skipped", c.Skipped),
			zap.Int("deleted", c.Deleted),
		)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("Type 'yes' to confirm writing to the target branch: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
