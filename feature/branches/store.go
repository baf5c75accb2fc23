package branches

import (
	"context"
	"errors"
	"fmt"

	"github.com/VinniZP/lingx/core/catalog"
	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/feature/branches/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrBranchNotFound is returned when a branch id does not resolve to a
// loadable catalog. Fatal for the call; no partial work is attempted.
var ErrBranchNotFound = errors.New("branch not found")

// Store is the GORM-backed catalog loader/writer for branch catalogs.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetBranch resolves a branch by id.
func (s *Store) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	var branch models.Branch
	err := s.db.WithContext(ctx).First(&branch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("branch %s: %w", id, ErrBranchNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up branch %s: %w", id, err)
	}
	return &branch, nil
}

// ListBranches returns all branches of a space, or all branches when
// spaceID is empty.
func (s *Store) ListBranches(ctx context.Context, spaceID string) ([]models.Branch, error) {
	var branches []models.Branch
	q := s.db.WithContext(ctx).Order("space_id, name")
	if spaceID != "" {
		q = q.Where("space_id = ?", spaceID)
	}
	if err := q.Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

// CreateBranch creates a branch with a fresh id.
func (s *Store) CreateBranch(ctx context.Context, spaceID, name string) (*models.Branch, error) {
	branch := models.Branch{
		ID:      uuid.NewString(),
		SpaceID: spaceID,
		Name:    name,
	}
	if err := s.db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return &branch, nil
}

// LoadCatalog reads the full catalog of a branch as one point-in-time
// snapshot. The branch must exist; an empty catalog is a valid result.
func (s *Store) LoadCatalog(ctx context.Context, branchID string) (catalog.Catalog, error) {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return catalog.Catalog{}, err
	}

	var rows []models.Translation
	// A single SELECT is a consistent snapshot; no row of a concurrent
	// write transaction can appear partially.
	if err := s.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Find(&rows).Error; err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to load catalog for branch %s: %w", branchID, err)
	}

	c := catalog.New()
	for _, row := range rows {
		c.Set(row.Language, row.Key, row.Value)
	}
	return c, nil
}

// Loader adapts a branch to the engine's Loader port.
func (s *Store) Loader(branchID string) reconcile.Loader {
	return loaderFunc(func(ctx context.Context) (catalog.Catalog, error) {
		return s.LoadCatalog(ctx, branchID)
	})
}

type loaderFunc func(ctx context.Context) (catalog.Catalog, error)

func (f loaderFunc) Load(ctx context.Context) (catalog.Catalog, error) { return f(ctx) }

// Writer adapts a branch to the engine's Writer port.
func (s *Store) Writer(branchID string) reconcile.Writer {
	return &branchWriter{store: s, branchID: branchID}
}

type branchWriter struct {
	store    *Store
	branchID string
}

// Apply writes the plan atomically, upserts before deletes. Every write is
// conditioned on the base snapshot's state for that key; a concurrent edit
// rolls the whole transaction back with ErrStaleCatalog so the service can
// re-diff instead of overwriting unseen work.
func (w *branchWriter) Apply(ctx context.Context, base catalog.Catalog, plan *reconcile.MergePlan) error {
	return w.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range plan.Upserts {
			if err := applyUpsert(tx, w.branchID, base, u); err != nil {
				return err
			}
		}
		for _, d := range plan.Deletes {
			if err := applyDelete(tx, w.branchID, base, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyUpsert(tx *gorm.DB, branchID string, base catalog.Catalog, u reconcile.Upsert) error {
	priorValue, existed := base.Get(u.Language, u.Key)

	if !existed {
		row := models.Translation{
			BranchID: branchID,
			Language: u.Language,
			Key:      u.Key,
			Value:    u.Value,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Unique index violation: someone inserted the key after diff time.
				return fmt.Errorf("insert %s/%s: %w", u.Language, u.Key, reconcile.ErrStaleCatalog)
			}
			return fmt.Errorf("failed to insert %s/%s: %w", u.Language, u.Key, err)
		}
		return nil
	}

	res := tx.Model(&models.Translation{}).
		Where("branch_id = ? AND language = ? AND `key` = ? AND value = ?",
			branchID, u.Language, u.Key, priorValue).
		Update("value", u.Value)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s/%s: %w", u.Language, u.Key, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s/%s: %w", u.Language, u.Key, reconcile.ErrStaleCatalog)
	}
	return nil
}

func applyDelete(tx *gorm.DB, branchID string, base catalog.Catalog, id catalog.Identity) error {
	priorValue, existed := base.Get(id.Language, id.Key)
	if !existed {
		return nil
	}

	res := tx.Where("branch_id = ? AND language = ? AND `key` = ? AND value = ?",
		branchID, id.Language, id.Key, priorValue).
		Delete(&models.Translation{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", id.Language, id.Key, res.Error)
	}
	if res.RowsAffected == 0 {
		// Row may be gone already (fine) or changed (stale).
		var count int64
		if err := tx.Model(&models.Translation{}).
			Where("branch_id = ? AND language = ? AND `key` = ?", branchID, id.Language, id.Key).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to verify delete of %s/%s: %w", id.Language, id.Key, err)
		}
		if count > 0 {
			return fmt.Errorf("delete %s/%s: %w", id.Language, id.Key, reconcile.ErrStaleCatalog)
		}
	}
	return nil
}
