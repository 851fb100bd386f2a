// Package store holds in-memory, TTL-bounded state such as running hunts.
package store

import (
	"sync"
	"time"
)

// Memory is a string-keyed store whose entries expire after ttl without
// access. Reads extend the expiry.
type Memory[V any] struct {
	items   sync.Map
	ttl     time.Duration
	now     func() time.Time
	onEvict func(key string, value V)

	stop      chan struct{}
	closeOnce sync.Once
}

type entry[V any] struct {
	value     V
	mu        sync.Mutex
	expiresAt time.Time
}

// Option customizes a Memory store.
type Option[V any] func(*Memory[V])

// WithEvictHook runs fn for entries removed by expiry, Delete or Close.
func WithEvictHook[V any](fn func(key string, value V)) Option[V] {
	return func(m *Memory[V]) { m.onEvict = fn }
}

// WithClock replaces time.Now, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(m *Memory[V]) { m.now = now }
}

// NewMemory creates a store and starts its cleanup loop, which sweeps
// expired entries every sweep interval. Close stops it.
func NewMemory[V any](ttl, sweep time.Duration, opts ...Option[V]) *Memory[V] {
	m := &Memory[V]{
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if sweep > 0 {
		go m.cleanup(sweep)
	}
	return m
}

// Set stores value under key, replacing any previous value.
func (m *Memory[V]) Set(key string, value V) {
	m.items.Store(key, &entry[V]{value: value, expiresAt: m.now().Add(m.ttl)})
}

// Get returns the live value for key.
func (m *Memory[V]) Get(key string) (V, bool) {
	var zero V
	raw, ok := m.items.Load(key)
	if !ok {
		return zero, false
	}
	e := raw.(*entry[V])
	now := m.now()

	e.mu.Lock()
	expired := now.After(e.expiresAt)
	if !expired {
		e.expiresAt = now.Add(m.ttl)
	}
	e.mu.Unlock()

	if expired {
		m.evict(key, e)
		return zero, false
	}
	return e.value, true
}

// Delete removes key and reports whether it was present.
func (m *Memory[V]) Delete(key string) bool {
	raw, ok := m.items.Load(key)
	if !ok {
		return false
	}
	return m.evict(key, raw.(*entry[V]))
}

// Range calls fn for every live entry until fn returns false. Unlike Get
// it does not extend expiry.
func (m *Memory[V]) Range(fn func(key string, value V) bool) {
	now := m.now()
	m.items.Range(func(key, raw any) bool {
		e := raw.(*entry[V])
		e.mu.Lock()
		expired := now.After(e.expiresAt)
		e.mu.Unlock()
		if expired {
			return true
		}
		return fn(key.(string), e.value)
	})
}

// Len counts stored entries, including ones not yet swept.
func (m *Memory[V]) Len() int {
	n := 0
	m.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep evicts every expired entry and returns how many were removed.
func (m *Memory[V]) Sweep() int {
	now := m.now()
	removed := 0
	m.items.Range(func(key, raw any) bool {
		e := raw.(*entry[V])
		e.mu.Lock()
		expired := now.After(e.expiresAt)
		e.mu.Unlock()
		if expired && m.evict(key.(string), e) {
			removed++
		}
		return true
	})
	return removed
}

// Close stops the cleanup loop and evicts everything.
func (m *Memory[V]) Close() {
	m.closeOnce.Do(func() {
		close(m.stop)
		m.items.Range(func(key, raw any) bool {
			m.evict(key.(string), raw.(*entry[V]))
			return true
		})
	})
}

func (m *Memory[V]) evict(key string, e *entry[V]) bool {
	if !m.items.CompareAndDelete(key, e) {
		return false
	}
	if m.onEvict != nil {
		m.onEvict(key, e.value)
	}
	return true
}

func (m *Memory[V]) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stop:
			return
		}
	}
}
