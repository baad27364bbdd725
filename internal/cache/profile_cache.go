package cache

import (
	"sync"
	"time"
)

// ProfileEntry is a cached identity lookup result.
type ProfileEntry struct {
	DisplayName string
	AvatarURL   string
}

type profileSlot struct {
	entry     ProfileEntry
	found     bool
	fetchedAt time.Time
	attempts  int
}

// ProfileCache is an explicitly constructed, injected cache for profile
// lookups with a bounded TTL and a per-key attempt budget: once a key has
// failed maxAttempts times inside one TTL window, further lookups are
// suppressed until the window expires.
type ProfileCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	maxAttempts int
	slots       map[string]*profileSlot
	now         func() time.Time
}

// NewProfileCache builds a cache with the given TTL and attempt budget.
func NewProfileCache(ttl time.Duration, maxAttempts int) *ProfileCache {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &ProfileCache{
		ttl:         ttl,
		maxAttempts: maxAttempts,
		slots:       make(map[string]*profileSlot),
		now:         time.Now,
	}
}

// Get returns the cached entry for key if one is present and fresh.
func (c *ProfileCache) Get(key string) (ProfileEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.liveSlot(key)
	if !ok || !slot.found {
		return ProfileEntry{}, false
	}
	return slot.entry, true
}

// Put stores a successful lookup, resetting the attempt budget.
func (c *ProfileCache) Put(key string, entry ProfileEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[key] = &profileSlot{entry: entry, found: true, fetchedAt: c.now()}
}

// ShouldAttempt reports whether a fetch for key is worthwhile: false while a
// fresh entry exists or the attempt budget for the current window is spent.
func (c *ProfileCache) ShouldAttempt(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.liveSlot(key)
	if !ok {
		return true
	}
	if slot.found {
		return false
	}
	return slot.attempts < c.maxAttempts
}

// RecordMiss counts a failed fetch against the key's attempt budget.
func (c *ProfileCache) RecordMiss(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.liveSlot(key)
	if !ok {
		slot = &profileSlot{fetchedAt: c.now()}
		c.slots[key] = slot
	}
	slot.attempts++
}

// liveSlot returns the slot for key, evicting it first if the TTL elapsed.
// Callers must hold the lock.
func (c *ProfileCache) liveSlot(key string) (*profileSlot, bool) {
	slot, ok := c.slots[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(slot.fetchedAt) >= c.ttl {
		delete(c.slots, key)
		return nil, false
	}
	return slot, true
}
