package branches

import (
	"context"
	"sync"
	"time"

	"github.com/VinniZP/lingx/core/catalog"

	"golang.org/x/sync/singleflight"
)

// snapshot is one cached branch catalog with its build time.
type snapshot struct {
	catalog catalog.Catalog
	built   time.Time
}

func (s *snapshot) expired(ttl time.Duration) bool {
	if ttl == 0 {
		return true // No caching
	}
	return time.Since(s.built) > ttl
}

// snapshotCache caches branch catalogs for diff previews. The merge path
// never reads it: merges always load fresh so no stale diff is ever merged.
type snapshotCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*snapshot
	sf    singleflight.Group
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		ttl:   ttl,
		items: make(map[string]*snapshot),
	}
}

// get returns the branch catalog, loading through the store when the cached
// copy is missing or expired. Singleflight collapses concurrent loads of the
// same branch into one query.
func (c *snapshotCache) get(ctx context.Context, branchID string, load func(context.Context, string) (catalog.Catalog, error)) (catalog.Catalog, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		item, exists := c.items[branchID]
		c.mu.RUnlock()
		if exists && !item.expired(c.ttl) {
			return item.catalog, nil
		}
	}

	result, err, _ := c.sf.Do(branchID, func() (interface{}, error) {
		loaded, err := load(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.items[branchID] = &snapshot{catalog: loaded, built: time.Now()}
			c.mu.Unlock()
		}
		return loaded, nil
	})
	if err != nil {
		return catalog.Catalog{}, err
	}
	return result.(catalog.Catalog), nil
}

// invalidate drops a branch from the cache, e.g. right after a merge wrote
// to it.
func (c *snapshotCache) invalidate(branchID string) {
	c.mu.Lock()
	delete(c.items, branchID)
	c.mu.Unlock()
}
