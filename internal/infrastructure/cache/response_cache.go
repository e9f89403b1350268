package cache

import (
	"strings"
	"sync"
	"time"
)

// Entry is a stored upstream response.
type Entry struct {
	Key         string
	Status      int
	ContentType string
	Body        []byte
	ExpiresAt   time.Time
}

// expired reports whether the entry is past its lifetime.
func (e *Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// ResponseCache is an in-memory response cache keyed by full request
// URL (path plus query string). There is no background janitor: expired
// entries are dropped when read, and stale seed data is purged once at
// construction. Capacity is bounded; when full, the entry closest to
// expiry is evicted to make room.
type ResponseCache struct {
	mu         sync.RWMutex
	entries    map[string]*Entry
	maxEntries int
	policy     *Policy

	hits   uint64
	misses uint64
}

// NewResponseCache creates a response cache. Seed entries (from a
// previous run or a test fixture) are scanned once and any already
// expired are discarded.
func NewResponseCache(maxEntries int, policy *Policy, seed []Entry) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if policy == nil {
		policy = NewPolicy(0, nil, nil)
	}

	c := &ResponseCache{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
		policy:     policy,
	}

	now := time.Now()
	for i := range seed {
		e := seed[i]
		if e.expired(now) || !policy.Cacheable(keyPath(e.Key)) {
			continue
		}
		if len(c.entries) >= maxEntries {
			break
		}
		c.entries[e.Key] = &e
	}

	return c
}

// Get returns the cached entry for the key, or nil on a miss. An
// expired entry counts as a miss and is evicted on the spot.
func (c *ResponseCache) Get(key string) *Entry {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil
	}

	if entry.expired(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// replaced the entry with a fresh one.
		if cur, ok := c.entries[key]; ok && cur.expired(time.Now()) {
			delete(c.entries, key)
		}
		c.misses++
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry
}

// Put stores a response if the policy allows caching its path. The TTL
// comes from the policy's route table.
func (c *ResponseCache) Put(key string, status int, contentType string, body []byte) {
	path := keyPath(key)
	if !c.policy.Cacheable(path) {
		return
	}

	entry := &Entry{
		Key:         key,
		Status:      status,
		ContentType: contentType,
		Body:        body,
		ExpiresAt:   time.Now().Add(c.policy.TTL(path)),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictSoonestLocked()
	}
	c.entries[key] = entry
}

// InvalidatePrefix drops every entry whose key starts with the prefix.
// Write operations call this so the dashboard sees its own updates
// instead of a stale cached page.
func (c *ResponseCache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *ResponseCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// evictSoonestLocked removes the entry closest to expiry. Callers must
// hold the write lock.
func (c *ResponseCache) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.ExpiresAt.Before(soonest) {
			victim = key
			soonest = entry.ExpiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

// keyPath strips the query string from a cache key so policy matching
// works on the route path alone.
func keyPath(key string) string {
	if i := strings.IndexByte(key, '?'); i >= 0 {
		return key[:i]
	}
	return key
}
