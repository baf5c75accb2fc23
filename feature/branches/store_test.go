package branches_test

import (
	"context"
	"testing"

	"github.com/VinniZP/lingx/core/catalog"
	"github.com/VinniZP/lingx/core/database"
	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/feature/branches"
	"github.com/VinniZP/lingx/feature/branches/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedBranch(t *testing.T, db *gorm.DB, id string, entries map[string]map[string]string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Branch{ID: id, SpaceID: "space-1", Name: id}).Error)
	for lang, keys := range entries {
		for key, value := range keys {
			row := models.Translation{BranchID: id, Language: lang, Key: key, Value: value}
			require.NoError(t, db.Create(&row).Error)
		}
	}
}

func TestStore_LoadCatalog(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "main", map[string]map[string]string{
		"en": {"home:title": "Welcome", "home:cta": "Start"},
		"de": {"home:title": "Willkommen"},
	})

	cat, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())

	v, ok := cat.Get("de", "home:title")
	assert.True(t, ok)
	assert.Equal(t, "Willkommen", v)
}

func TestStore_LoadCatalogEmptyBranch(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "empty", nil)

	cat, err := store.LoadCatalog(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestStore_LoadCatalogUnknownBranch(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)

	_, err := store.LoadCatalog(context.Background(), "nope")
	assert.ErrorIs(t, err, branches.ErrBranchNotFound)
}

func TestStore_CreateAndListBranches(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)

	_, err := store.CreateBranch(context.Background(), "space-1", "main")
	require.NoError(t, err)
	_, err = store.CreateBranch(context.Background(), "space-1", "feature-x")
	require.NoError(t, err)
	_, err = store.CreateBranch(context.Background(), "space-2", "main")
	require.NoError(t, err)

	all, err := store.ListBranches(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := store.ListBranches(context.Background(), "space-1")
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
}

func TestWriter_ApplyInsertsUpdatesAndDeletes(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "main", map[string]map[string]string{
		"en": {"home:title": "Old", "home:obsolete": "Drop me"},
	})

	base, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)

	plan := &reconcile.MergePlan{
		Upserts: []reconcile.Upsert{
			{Identity: catalog.Identity{Language: "en", Key: "home:title"}, Value: "New"},
			{Identity: catalog.Identity{Language: "en", Key: "home:cta"}, Value: "Start"},
		},
		Deletes: []catalog.Identity{
			{Language: "en", Key: "home:obsolete"},
		},
	}

	err = store.Writer("main").Apply(context.Background(), base, plan)
	require.NoError(t, err)

	got, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{
		"en": {"home:title": "New", "home:cta": "Start"},
	}, got.Map())
}

func TestWriter_ApplyStaleUpdateRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "main", map[string]map[string]string{
		"en": {"home:title": "Old", "home:cta": "Start"},
	})

	base, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)

	// Concurrent edit between diff time and apply time.
	err = db.Model(&models.Translation{}).
		Where("branch_id = ? AND language = ? AND key = ?", "main", "en", "home:title").
		Update("value", "Edited meanwhile").Error
	require.NoError(t, err)

	plan := &reconcile.MergePlan{
		Upserts: []reconcile.Upsert{
			{Identity: catalog.Identity{Language: "en", Key: "home:cta"}, Value: "Go"},
			{Identity: catalog.Identity{Language: "en", Key: "home:title"}, Value: "New"},
		},
	}

	err = store.Writer("main").Apply(context.Background(), base, plan)
	assert.ErrorIs(t, err, reconcile.ErrStaleCatalog)

	// The transaction rolled back, so the cta update did not stick either.
	got, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)
	v, _ := got.Get("en", "home:cta")
	assert.Equal(t, "Start", v)
}

func TestWriter_ApplyStaleInsertRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "main", nil)

	base, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)

	// Key inserted after diff time.
	row := models.Translation{BranchID: "main", Language: "en", Key: "home:title", Value: "Raced"}
	require.NoError(t, db.Create(&row).Error)

	plan := &reconcile.MergePlan{
		Upserts: []reconcile.Upsert{
			{Identity: catalog.Identity{Language: "en", Key: "home:title"}, Value: "New"},
		},
	}

	err = store.Writer("main").Apply(context.Background(), base, plan)
	assert.ErrorIs(t, err, reconcile.ErrStaleCatalog)
}

func TestWriter_ApplyDeleteOfVanishedRowSucceeds(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "main", map[string]map[string]string{
		"en": {"home:obsolete": "Drop me"},
	})

	base, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)

	// Someone else already deleted it; the plan's intent is satisfied.
	err = db.Where("branch_id = ?", "main").Delete(&models.Translation{}).Error
	require.NoError(t, err)

	plan := &reconcile.MergePlan{
		Deletes: []catalog.Identity{{Language: "en", Key: "home:obsolete"}},
	}
	err = store.Writer("main").Apply(context.Background(), base, plan)
	assert.NoError(t, err)
}

func TestWriter_ApplyDeleteOfChangedRowIsStale(t *testing.T) {
	db := setupTestDB(t)
	store := branches.NewStore(db)
	seedBranch(t, db, "main", map[string]map[string]string{
		"en": {"home:obsolete": "Drop me"},
	})

	base, err := store.LoadCatalog(context.Background(), "main")
	require.NoError(t, err)

	err = db.Model(&models.Translation{}).
		Where("branch_id = ?", "main").
		Update("value", "Edited meanwhile").Error
	require.NoError(t, err)

	plan := &reconcile.MergePlan{
		Deletes: []catalog.Identity{{Language: "en", Key: "home:obsolete"}},
	}
	err = store.Writer("main").Apply(context.Background(), base, plan)
	assert.ErrorIs(t, err, reconcile.ErrStaleCatalog)
}
