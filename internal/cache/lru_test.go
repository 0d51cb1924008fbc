package cache

import (
	"strconv"
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](3, time.Minute)

	c.Set("a", "one")
	if v, ok := c.Get("a"); !ok || v != "one" {
		t.Fatalf("Get(a) = %q, %v; want one, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) should miss")
	}

	c.Set("a", "updated")
	if v, _ := c.Get("a"); v != "updated" {
		t.Fatalf("Get(a) after overwrite = %q, want updated", v)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	// Touch "0" so "1" becomes the eviction candidate.
	c.Get("0")
	c.Set("3", 3)

	if _, ok := c.Get("1"); ok {
		t.Fatal("least recently used entry should have been evicted")
	}
	for _, key := range []string{"0", "2", "3"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("entry %q should have survived eviction", key)
		}
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[int](10, time.Millisecond)

	c.Set("x", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("x"); ok {
		t.Fatal("expired entry should not be returned")
	}

	c.Set("y", 2)
	time.Sleep(5 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("Size() after cleanup = %d, want 0", c.Size())
	}
}

func TestLRUCachePurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	for i := 0; i < 5; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	c.Purge()

	if c.Size() != 0 {
		t.Fatalf("Size() after purge = %d, want 0", c.Size())
	}
	if _, ok := c.Get("0"); ok {
		t.Fatal("purged entry should not be returned")
	}

	// The cache stays usable after a purge.
	c.Set("fresh", 42)
	if v, ok := c.Get("fresh"); !ok || v != 42 {
		t.Fatalf("Get(fresh) = %d, %v; want 42, true", v, ok)
	}
}
