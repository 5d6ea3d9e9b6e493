package cache

import (
	"sync"
	"time"

	"skuunup-auth/internal/domain"

	"github.com/google/uuid"
)

// cacheEntry holds a resolved identity and the time it was cached.
type cacheEntry struct {
	identity *domain.ResolvedIdentity
	cachedAt time.Time
}

// SessionCache provides thread-safe in-memory memoization of resolved
// identities with TTL. Entries expire lazily on read; a background sweep
// reclaims memory for subjects that stop making requests.
// Implements domain.SessionCache.
type SessionCache struct {
	mu       sync.RWMutex
	entries  map[uuid.UUID]*cacheEntry
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionCache creates a new session cache with the specified TTL.
func NewSessionCache(ttl time.Duration) *SessionCache {
	c := &SessionCache{
		entries: make(map[uuid.UUID]*cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Stop halts the background sweep goroutine. Safe to call more than once.
// Lazy expiry on Get keeps working after Stop.
func (c *SessionCache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Get retrieves the cached identity for a subject. Returns a copy, never a
// reference into the cache, so callers cannot corrupt cached state. Expired
// entries report absent.
func (c *SessionCache) Get(subjectID uuid.UUID) (*domain.ResolvedIdentity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[subjectID]
	if !found || time.Since(entry.cachedAt) >= c.ttl {
		return nil, false
	}
	return entry.identity.Clone(), true
}

// Set stores a resolved identity, overwriting any existing entry and
// stamping the current time. Concurrent writers for the same subject race
// last-write-wins; within the TTL window they carry equivalent data.
func (c *SessionCache) Set(subjectID uuid.UUID, identity *domain.ResolvedIdentity) {
	entry := &cacheEntry{
		identity: identity.Clone(),
		cachedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[subjectID] = entry
}

// Invalidate evicts the subject's entry. Collaborators that mutate the
// underlying identity or profile records call this so stale data does not
// outlive a write.
func (c *SessionCache) Invalidate(subjectID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, subjectID)
}

// cleanup removes expired entries.
func (c *SessionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.Sub(entry.cachedAt) >= c.ttl {
			delete(c.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries until Stop.
func (c *SessionCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}
