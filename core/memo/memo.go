// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package memo provides a process-wide, fill-on-miss cache keyed by string.

A [Memo] runs its fill function at most once per key between invalidations,
even when many goroutines miss on the same key at the same time. The result
of fill is cached as-is, including zero values, so "absent" results are
remembered too. A fill that was already running when the memo was
invalidated still returns its value to its callers but does not cache it.
*/
package memo

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo caches the result of fill per key. The zero value is not ready for use;
// construct with [New].
type Memo[V any] struct {
	fill   func(key string) V
	values sync.Map // key: string, value: V
	group  singleflight.Group

	// gen counts invalidations. Fills store only if it is unchanged.
	mu  sync.RWMutex
	gen uint64
}

// New returns a Memo that populates missing keys with fill.
func New[V any](fill func(key string) V) *Memo[V] {
	return &Memo[V]{fill: fill}
}

// Get returns the cached value for key, calling fill on the first miss.
func (m *Memo[V]) Get(key string) V {
	if v, ok := m.load(key); ok {
		return v
	}

	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	// Flights are per generation so a miss after an invalidation never joins
	// a fill started before it.
	v, _, _ := m.group.Do(strconv.FormatUint(gen, 10)+"\x00"+key, func() (any, error) {
		// Another caller may have stored the value between our miss and Do.
		if v, ok := m.load(key); ok {
			return v, nil
		}

		v := m.fill(key)

		m.mu.RLock()
		if m.gen == gen {
			m.values.Store(key, v)
		}
		m.mu.RUnlock()

		return v, nil
	})

	out, _ := v.(V)

	return out
}

// Cached reports whether key has a cached value, without filling it.
func (m *Memo[V]) Cached(key string) bool {
	_, ok := m.values.Load(key)

	return ok
}

// Invalidate drops the cached value for key. The next Get fills it again.
func (m *Memo[V]) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.values.Delete(key)
}

// Reset drops every cached value.
func (m *Memo[V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.values.Clear()
}

func (m *Memo[V]) load(key string) (V, bool) {
	v, ok := m.values.Load(key)
	if !ok {
		var zero V
		return zero, false
	}

	out, _ := v.(V)

	return out, true
}
