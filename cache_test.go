package pagepress

import (
	"testing"
	"time"
)

func TestCategoryCacheServesStale(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	seedCategory(t, s, "News", 1)

	cache := NewCategoryCache(s, time.Hour)
	got, err := cache.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("category count = %d, want 1", len(got))
	}

	// A write behind the cache's back is invisible until invalidation.
	seedCategory(t, s, "Opinion", 2)
	got, err = cache.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("cached count = %d, want 1 (stale copy)", len(got))
	}

	cache.Invalidate()
	got, err = cache.List()
	if err != nil {
		t.Fatalf("List after Invalidate failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("count after Invalidate = %d, want 2", len(got))
	}
}

func TestCategoryCacheExpires(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	cache := NewCategoryCache(s, 50*time.Millisecond)
	if _, err := cache.List(); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	seedCategory(t, s, "News", 1)
	time.Sleep(80 * time.Millisecond)

	got, err := cache.List()
	if err != nil {
		t.Fatalf("List after TTL failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("count after TTL = %d, want 1 (reloaded)", len(got))
	}
}
