package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/VinniZP/lingx/core/config"
	"github.com/VinniZP/lingx/core/database"
	"github.com/VinniZP/lingx/core/logger"
	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/feature/branches"
	"github.com/VinniZP/lingx/feature/sync"

	"github.com/spf13/cobra"
)

var (
	// Flags for the sync command
	syncDir        string
	syncBranch     string
	syncForceLocal bool
	syncDelete     bool
	syncDryRun     bool
)

// syncCmd pushes a local translation directory into a branch.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync a local translation directory into a branch",
	Long: `Sync local translation files into a server branch.

The directory holds one flat JSON file per language (en.json, de.json, ...).
Conflicting keys are decided interactively unless --force-local is set.
Quitting the interactive session leaves the branch untouched.

Examples:
  # Interactive conflict resolution
  lingx sync --dir ./locales --branch main

  # Local values win every conflict
  lingx sync --dir ./locales --branch main --force-local

  # Also remove branch keys deleted locally
  lingx sync --dir ./locales --branch main --force-local --delete

  # Preview without writing
  lingx sync --dir ./locales --branch main --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncDir, "dir", "", "Local translation directory")
	syncCmd.Flags().StringVar(&syncBranch, "branch", "", "Target branch id")
	syncCmd.Flags().BoolVar(&syncForceLocal, "force-local", false, "Local values win every conflict")
	syncCmd.Flags().BoolVar(&syncDelete, "delete", false, "Delete branch keys absent from the directory")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute the plan without writing")
	_ = syncCmd.MarkFlagRequired("dir")
	_ = syncCmd.MarkFlagRequired("branch")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	svc := sync.NewService(branches.NewStore(db), cfg.Reconcile, l)

	opts := sync.Options{
		Dir:      syncDir,
		BranchID: syncBranch,
		Mode:     sync.ModeInteractive,
		Prompter: sync.NewTerminalPrompter(os.Stdin, os.Stdout),
		Delete:   syncDelete,
		DryRun:   syncDryRun,
	}
	if syncForceLocal {
		opts.Mode = sync.ModeForceLocal
		opts.Prompter = nil
	}

	plan, err := svc.Run(ctx, opts)
	if errors.Is(err, reconcile.ErrCancelled) {
		fmt.Println("Sync cancelled. No changes were made.")
		return nil
	}
	if err != nil {
		return err
	}

	if syncDryRun {
		fmt.Println("Dry-run plan:")
	}
	sync.WriteReport(os.Stdout, plan)
	return nil
}
