//go:build integration

package cache

import (
	"go-blog-app/internal/config"
	"path/filepath"
	"testing"
	"time"
)

// setupTestCache creates a cache backed by a SQLite file in a temp directory.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(config.CacheConfig{FilePath: filepath.Join(t.TempDir(), "cache.db")})
	if err != nil {
		t.Fatalf("Failed to initialize cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SetAndGet(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set("greeting", []byte("hello"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get("greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("expected cached value 'hello', got '%s'", got)
	}
}

func TestCache_MissingKeyIsAMiss(t *testing.T) {
	c := setupTestCache(t)

	got, err := c.Get("absent")
	if err != nil {
		t.Fatalf("expected a miss, not an error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing key, got '%s'", got)
	}
}

func TestCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := setupTestCache(t)

	// An entry whose TTL has already elapsed must never be served.
	if err := c.Set("stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get("stale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected expired entry to be a miss, got '%s'", got)
	}
}

func TestCache_Delete(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set("doomed", []byte("x"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Delete("doomed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get("doomed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected deleted entry to be a miss, got '%s'", got)
	}
}

func TestCache_SetOverwrites(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set("key", []byte("first"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Set("key", []byte("second"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get("key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected overwritten value 'second', got '%s'", got)
	}
}
