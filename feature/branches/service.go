package branches

import (
	"context"
	"time"

	"github.com/VinniZP/lingx/core/catalog"
	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/core/storage"

	"go.uber.org/zap"
)

// Service orchestrates branch-to-branch reconciliation on top of the engine.
type Service struct {
	store   *Store
	logger  *zap.Logger
	cfg     reconcile.Config
	cache   *snapshotCache
	client  storage.Client
	archive storage.Config
}

// NewService creates the branch reconciliation service. client may be nil
// when snapshot archiving is disabled.
func NewService(store *Store, client storage.Client, archiveCfg storage.Config, cfg reconcile.Config, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		cfg:     cfg,
		cache:   newSnapshotCache(time.Duration(cfg.CacheTTLSeconds) * time.Second),
		client:  client,
		archive: archiveCfg,
	}
}

// Diff compares two branch catalogs without writing anything. Preview reads
// may be served from the snapshot cache when a TTL is configured.
func (s *Service) Diff(ctx context.Context, sourceID, targetID string) (reconcile.DiffResult, error) {
	source, err := s.cache.get(ctx, sourceID, s.store.LoadCatalog)
	if err != nil {
		return reconcile.DiffResult{}, err
	}
	target, err := s.cache.get(ctx, targetID, s.store.LoadCatalog)
	if err != nil {
		return reconcile.DiffResult{}, err
	}
	return reconcile.Diff(source, target), nil
}

// Catalog returns the current catalog of a branch.
func (s *Service) Catalog(ctx context.Context, branchID string) (catalog.Catalog, error) {
	return s.store.LoadCatalog(ctx, branchID)
}

// Merge reconciles source into target using explicit resolutions from a
// review. Fails with *reconcile.UnresolvedError and zero writes when any
// conflict is left undecided.
func (s *Service) Merge(ctx context.Context, sourceID, targetID string, resolutions []reconcile.Resolution, deleteUnmatched bool) (*reconcile.MergePlan, error) {
	// Resolve both ids up front so identity errors surface before any work.
	if _, err := s.store.GetBranch(ctx, sourceID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetBranch(ctx, targetID); err != nil {
		return nil, err
	}

	svc := &reconcile.Service{
		Source:      s.store.Loader(sourceID),
		Target:      s.store.Loader(targetID),
		Writer:      s.store.Writer(targetID),
		Archiver:    s.archiver(targetID),
		MaxAttempts: s.cfg.MaxAttempts,
		Logger:      s.logger,
	}

	if resolutions == nil {
		// An explicit empty list means "no decisions", which still fails
		// when conflicts exist; nil would make the engine look for a
		// resolver it does not have.
		resolutions = []reconcile.Resolution{}
	}

	plan, err := svc.Merge(ctx, reconcile.MergeOptions{
		Resolutions:     resolutions,
		DeleteUnmatched: deleteUnmatched,
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidate(targetID)

	totals := plan.Summary.Totals()
	s.logger.Info("branch merge applied",
		zap.String("source_branch", sourceID),
		zap.String("target_branch", targetID),
		zap.Int("added", totals.Added),
		zap.Int("updated", totals.Updated),
		zap.Int("skipped", totals.Skipped),
		zap.Int("deleted", totals.Deleted),
	)
	return plan, nil
}

func (s *Service) archiver(branchID string) reconcile.Archiver {
	if s.client == nil || !s.archive.ArchiveEnabled {
		return nil
	}
	return s.archiveStore(branchID)
}

func (s *Service) archiveStore(branchID string) *SnapshotArchiver {
	return &SnapshotArchiver{
		Client:   s.client,
		Bucket:   s.archive.Bucket,
		Prefix:   s.archive.ArchivePrefix,
		BranchID: branchID,
	}
}

// Archives lists the stored snapshots of a branch, newest first.
func (s *Service) Archives(ctx context.Context, branchID string) ([]ArchiveInfo, error) {
	if err := s.requireArchives(ctx, branchID); err != nil {
		return nil, err
	}
	return s.archiveStore(branchID).List(ctx)
}

// ArchivedCatalog restores one stored snapshot of a branch.
func (s *Service) ArchivedCatalog(ctx context.Context, branchID, name string) (catalog.Catalog, error) {
	if err := s.requireArchives(ctx, branchID); err != nil {
		return catalog.Catalog{}, err
	}
	return s.archiveStore(branchID).Load(ctx, name)
}

// RemoveArchive deletes one stored snapshot of a branch.
func (s *Service) RemoveArchive(ctx context.Context, branchID, name string) error {
	if err := s.requireArchives(ctx, branchID); err != nil {
		return err
	}
	return s.archiveStore(branchID).Remove(ctx, name)
}

// PruneArchives deletes all but the newest keep snapshots of a branch.
func (s *Service) PruneArchives(ctx context.Context, branchID string, keep int) (int, error) {
	if err := s.requireArchives(ctx, branchID); err != nil {
		return 0, err
	}
	removed, err := s.archiveStore(branchID).Prune(ctx, keep)
	if err != nil {
		return 0, err
	}
	s.logger.Info("branch archives pruned",
		zap.String("branch", branchID),
		zap.Int("kept", keep),
		zap.Int("removed", removed),
	)
	return removed, nil
}

func (s *Service) requireArchives(ctx context.Context, branchID string) error {
	if s.client == nil {
		return ErrArchivesDisabled
	}
	_, err := s.store.GetBranch(ctx, branchID)
	return err
}

// Store exposes the underlying store for sibling features (the sync CLI
// loads branch catalogs through it).
func (s *Service) Store() *Store {
	return s.store
}
