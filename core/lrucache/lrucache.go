// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache.
Keys are strings. The cache evicts the least recently used entry when it reaches capacity.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache[V any] struct {
	size      int                      // Maximum number of entries
	evictList *list.List               // Front is the most recently used entry
	items     map[string]*list.Element // Key to list element
	lock      sync.Mutex
}

type cacheEntry[V any] struct {
	key   string
	value V
}

// New creates a new cache holding at most size entries.
//
// It returns an error if size is not a positive integer.
func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Cache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}, nil
}

// Add adds or updates the value for key.
//
// If the key exists, it becomes the most recently used.
// If the cache is at capacity, the least recently used item is evicted.
// Add reports whether an eviction occurred.
func (c *Cache[V]) Add(key string, value V) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*cacheEntry[V]).value = value

		return false
	}

	c.items[key] = c.evictList.PushFront(&cacheEntry[V]{key: key, value: value})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeOldest()
	}

	return evicted
}

// Get retrieves the value for key and marks it as most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	ent, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	c.evictList.MoveToFront(ent)

	return ent.Value.(*cacheEntry[V]).value, true
}

// GetOrAdd returns the cached value for key, computing and storing it with
// fill on a miss. fill runs without the lock held, so two concurrent misses
// may both call it; the later Add wins.
func (c *Cache[V]) GetOrAdd(key string, fill func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}

	v := fill()
	c.Add(key, v)

	return v
}

// Purge removes every entry.
func (c *Cache[V]) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

// Len returns the current number of items in the cache.
func (c *Cache[V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

func (c *Cache[V]) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
	}
}

func (c *Cache[V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*cacheEntry[V]).key)
}
