package querycache

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T, maxBytes int64) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.sqlite3")
	c, err := Open(path, maxBytes)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheStoreFetch(t *testing.T) {
	c := openTestCache(t, 1<<20)
	key := Key{Operation: "distance", Root: 1, Param: 2}

	if _, ok := c.Fetch(key); ok {
		t.Fatal("expected miss before Store")
	}

	if err := c.Store(key, []byte("3")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, ok := c.Fetch(key)
	if !ok {
		t.Fatal("expected hit after Store")
	}
	if string(got) != "3" {
		t.Errorf("Fetch() = %q, want %q", got, "3")
	}
}

func TestCacheDistinguishesKeys(t *testing.T) {
	c := openTestCache(t, 1<<20)
	a := Key{Operation: "distance", Root: 1, Param: 2}
	b := Key{Operation: "distance", Root: 1, Param: 3}

	_ = c.Store(a, []byte("one"))
	_ = c.Store(b, []byte("two"))

	got, _ := c.Fetch(a)
	if string(got) != "one" {
		t.Errorf("Fetch(a) = %q, want %q", got, "one")
	}
	got, _ = c.Fetch(b)
	if string(got) != "two" {
		t.Errorf("Fetch(b) = %q, want %q", got, "two")
	}
}

func TestCacheEvictsOldestOverBudget(t *testing.T) {
	c := openTestCache(t, 10)

	keys := []Key{
		{Operation: "distance", Root: 0, Param: 0},
		{Operation: "distance", Root: 1, Param: 0},
		{Operation: "distance", Root: 2, Param: 0},
	}
	for _, k := range keys {
		if err := c.Store(k, []byte("12345")); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}

	if _, ok := c.Fetch(keys[0]); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Fetch(keys[2]); !ok {
		t.Error("expected most recent entry to survive")
	}
}

func TestCacheStoreIgnoresDuplicateKey(t *testing.T) {
	c := openTestCache(t, 1<<20)
	key := Key{Operation: "path", Root: 0, Param: 1}

	_ = c.Store(key, []byte("first"))
	_ = c.Store(key, []byte("second"))

	got, _ := c.Fetch(key)
	if string(got) != "first" {
		t.Errorf("Fetch() = %q, want %q (duplicate Store should be a no-op)", got, "first")
	}
}

func TestCacheSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite3")
	key := Key{Operation: "step-groups", Root: 4, Param: 3}

	c1, err := Open(path, 1<<20)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c1.Store(key, []byte("[[1],[2]]")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := c1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected cache file to exist: %v", err)
	}

	c2, err := Open(path, 1<<20)
	if err != nil {
		t.Fatalf("reopen Open() error = %v", err)
	}
	defer c2.Close()

	got, ok := c2.Fetch(key)
	if !ok {
		t.Fatal("expected hit after reopening cache file")
	}
	if string(got) != "[[1],[2]]" {
		t.Errorf("Fetch() = %q, want %q", got, "[[1],[2]]")
	}
}

func TestCacheRejectsNegativeBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite3")
	if _, err := Open(path, -1); err == nil {
		t.Error("expected error for negative cache budget")
	}
}
