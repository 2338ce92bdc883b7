// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

// TestNew checks the creation of a cache with both valid and invalid sizes.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("ValidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := New[string](3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cache.Len() != 0 {
			t.Errorf("expected cache length to be 0, got %d", cache.Len())
		}
	})

	t.Run("InvalidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := New[string](0)
		if err == nil {
			t.Fatal("expected error when creating cache of size 0, got nil")
		}

		if cache != nil {
			t.Error("expected no cache to be returned on error")
		}
	})
}

// TestCache_AddAndGet verifies retrieval and eviction once the capacity is reached.
func TestCache_AddAndGet(t *testing.T) {
	t.Parallel()

	cache, err := New[string](2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.Add("foo", "bar") {
		t.Error("eviction should not occur when the cache is not full")
	}

	value, ok := cache.Get("foo")
	if !ok || value != "bar" {
		t.Errorf("expected 'bar', got %q (found=%v)", value, ok)
	}

	cache.Add("hello", "world")

	if !cache.Add("key3", "value3") {
		t.Error("expected eviction when adding third key to size 2 cache")
	}

	// "foo" was used before "hello" was added, so "foo" is the oldest.
	if _, ok := cache.Get("foo"); ok {
		t.Error("expected 'foo' to be evicted, but it still exists")
	}
}

// TestCache_AddExistingKey ensures that re-adding a key updates it without eviction.
func TestCache_AddExistingKey(t *testing.T) {
	t.Parallel()

	cache, _ := New[string](2)

	cache.Add("k1", "v1")
	cache.Add("k2", "v2")

	if cache.Add("k1", "v1-updated") {
		t.Error("re-adding an existing key should not evict anything")
	}

	if val, _ := cache.Get("k1"); val != "v1-updated" {
		t.Errorf("expected 'v1-updated', got %q", val)
	}

	if cache.Len() != 2 {
		t.Errorf("expected cache length 2, got %d", cache.Len())
	}
}

func TestCache_Purge(t *testing.T) {
	t.Parallel()

	cache, _ := New[int](3)
	cache.Add("first", 1)
	cache.Add("second", 2)

	cache.Purge()

	if cache.Len() != 0 {
		t.Errorf("expected empty cache after Purge, got %d", cache.Len())
	}

	if _, ok := cache.Get("first"); ok {
		t.Error("expected 'first' to be gone after Purge")
	}

	cache.Add("third", 3)

	if v, ok := cache.Get("third"); !ok || v != 3 {
		t.Errorf("expected 3 after re-adding, got %d (found=%v)", v, ok)
	}
}

func TestCache_GetOrAdd(t *testing.T) {
	t.Parallel()

	cache, _ := New[int](4)

	var calls atomic.Int32

	fill := func() int {
		calls.Add(1)
		return 42
	}

	if v := cache.GetOrAdd("k", fill); v != 42 {
		t.Errorf("expected 42, got %d", v)
	}

	if v := cache.GetOrAdd("k", fill); v != 42 {
		t.Errorf("expected 42, got %d", v)
	}

	if n := calls.Load(); n != 1 {
		t.Errorf("expected fill to run once, ran %d times", n)
	}
}

// TestCache_Concurrent exercises the cache from several goroutines under -race.
func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	cache, _ := New[int](16)

	var wg sync.WaitGroup

	for g := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				key := strconv.Itoa((g * i) % 32)
				cache.Add(key, i)
				cache.Get(key)
			}
		}()
	}

	wg.Wait()

	if cache.Len() > 16 {
		t.Errorf("cache grew past capacity: %d", cache.Len())
	}
}
