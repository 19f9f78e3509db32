package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v; want 1, true", v, ok)
	}

	// "b" is now least recently used and gets evicted.
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Error("expected b evicted")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Errorf("size after expired get = %d, want 0", c.Size())
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("user:7:week", 1)
	c.Set("user:7:totals", 2)
	c.Set("user:8:week", 3)

	if n := c.DeletePrefix("user:7:"); n != 2 {
		t.Errorf("DeletePrefix removed %d, want 2", n)
	}
	if _, ok := c.Get("user:8:week"); !ok {
		t.Error("expected other user's entry kept")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)

	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired = %d, want 2", n)
	}
}

func TestManagerCleanup(t *testing.T) {
	m := NewManager()
	c := NewLRUCache[int](10, time.Millisecond)
	m.Register(c)
	c.Set("a", 1)

	m.StartCleanup(5 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Errorf("size after cleanup = %d, want 0", c.Size())
	}
}
