package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type windowHits struct {
	at     []time.Time
	window time.Duration
}

// sweepInterval bounds how often writes scan for keys nobody reads again.
const sweepInterval = time.Minute

// MemoryCounter is a process-local Counter. It backs tests and single
// instance deployments (CACHE_DRIVER=memory).
type MemoryCounter struct {
	mu      sync.Mutex
	entries   map[string]memoryEntry
	hits      map[string]*windowHits
	now       func() time.Time
	lastSweep time.Time
}

type MemoryOption func(*MemoryCounter)

// WithClock replaces time.Now, letting tests move past expiries.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryCounter) { m.now = now }
}

func NewMemoryCounter(opts ...MemoryOption) *MemoryCounter {
	m := &MemoryCounter{
		entries: make(map[string]memoryEntry),
		hits:    make(map[string]*windowHits),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lookup must be called with mu held. Expired entries are dropped lazily.
func (m *MemoryCounter) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// sweep drops expired entries and idle windows. It must be called with mu
// held and does nothing more than once per sweepInterval.
func (m *MemoryCounter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
	for key, h := range m.hits {
		if len(h.at) == 0 || !h.at[len(h.at)-1].After(now.Add(-h.window)) {
			delete(m.hits, key)
		}
	}
}

func (m *MemoryCounter) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryCounter) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

func (m *MemoryCounter) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	return e.value, ok, nil
}

func (m *MemoryCounter) SetWithExpiry(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(m.now())
	m.entries[key] = memoryEntry{value: value, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *MemoryCounter) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(m.now())
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: m.expiry(ttl)}
	return true, nil
}

// Increment keeps the current expiry, like Redis INCR.
func (m *MemoryCounter) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, _ := m.lookup(key)
	var n int64
	if e.value != "" {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: increment %s: %v", ErrMalformed, key, err)
		}
		n = parsed
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.entries[key] = e
	return n, nil
}

func (m *MemoryCounter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryCounter) SlidingWindowAllow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	h, ok := m.hits[key]
	if !ok {
		h = &windowHits{}
		m.hits[key] = h
	}
	h.window = window

	cutoff := now.Add(-window)
	kept := h.at[:0]
	for _, at := range h.at {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	allowed := len(kept) < limit
	h.at = append(kept, now)
	return allowed, nil
}

// Flush drops every key, the way FLUSHDB would.
func (m *MemoryCounter) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	m.hits = make(map[string]*windowHits)
}
