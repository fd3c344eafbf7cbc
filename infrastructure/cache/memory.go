// Package cache provides the in-memory TTL cache shared by every
// repository and traversal call in the process. Expiry is lazy (checked on
// read); a periodic sweep bounds memory but is not required for
// correctness.
package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a key-value cache with per-entry time-to-live.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry

	done chan struct{}
	once sync.Once
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// NewMemory creates a cache. A positive sweepInterval starts a background
// sweeper that proactively drops expired entries; zero disables it, which
// only affects memory, never visibility of expired entries.
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		items: make(map[string]entry),
		done:  make(chan struct{}),
	}

	if sweepInterval > 0 {
		go m.sweep(sweepInterval)
	}

	return m
}

// Get retrieves a value. An entry past its expiry is dropped and reported
// as absent.
func (m *Memory) Get(ctx context.Context, key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := m.items[key]; ok && time.Now().After(cur.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value with expiry now+ttl.
func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Len returns the number of entries currently held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Stop terminates the background sweeper. Safe to call more than once.
func (m *Memory) Stop() {
	m.once.Do(func() { close(m.done) })
}

func (m *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, e := range m.items {
				if now.After(e.expiresAt) {
					delete(m.items, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
