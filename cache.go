package pagepress

import (
	"sync"
	"time"
)

// CategoryCache is an in-memory TTL cache of the ordered category list.
// The categories panel renders on every public page view, so this keeps the
// hot path off the database. Categories change rarely; writers that do touch
// them call Invalidate.
type CategoryCache struct {
	mu         sync.RWMutex
	categories []Category
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewCategoryCache creates a CategoryCache backed by the given Store.
func NewCategoryCache(s *Store, ttl time.Duration) *CategoryCache {
	return &CategoryCache{store: s, ttl: ttl}
}

func (c *CategoryCache) valid() bool {
	return c.categories != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	c.categories = nil
	c.mu.Unlock()
}

// List returns the ordered categories, loading from the store when the cached
// copy is stale. It tries a read lock first; only takes a write lock when a
// reload is needed.
func (c *CategoryCache) List() ([]Category, error) {
	c.mu.RLock()
	if c.valid() {
		categories := c.categories
		c.mu.RUnlock()
		return categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.categories, nil
	}
	categories, err := c.store.ListCategories()
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	c.categories = categories
	c.fetched = time.Now()
	return categories, nil
}
