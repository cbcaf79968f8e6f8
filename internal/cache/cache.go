// Package cache provides the in-memory query result cache used to avoid
// re-running the agent for queries it has already answered. Entries are
// bounded by a maximum count with least-recently-used eviction and expire
// lazily after a per-entry TTL.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when no override is given.
const DefaultTTL = 5 * time.Minute

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 1000

// Stats reports cumulative cache performance counters. Hits and misses
// survive Clear; Size counts physically present entries, including ones
// that have expired but not yet been touched.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
	expiresAt  time.Time
}

// Cache is a fixed-capacity LRU cache with per-entry TTL. Recency is
// tracked by last access: both Get hits and Put refresh an entry's
// position. The eviction order is kept in an explicit list so that
// entries inserted at the same instant still evict deterministically,
// oldest insertion first. Expired entries are removed on the Get that
// finds them, not by a background sweeper, so Size briefly includes
// logically dead entries.
//
// All methods are safe for concurrent use. Operations never block on
// anything but the cache's own mutex.
type Cache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	defaultTTL time.Duration
	items      map[string]*list.Element
	order      *list.List // front = most recently used

	hits   int64
	misses int64

	now func() time.Time // overridable in tests
}

// New creates a Cache holding at most maxEntries live entries, each
// expiring defaultTTL after insertion. maxEntries of zero yields a no-op
// cache: every Put is discarded and every Get misses. Negative values
// are configuration errors and are rejected rather than clamped.
func New[V any](maxEntries int, defaultTTL time.Duration) (*Cache[V], error) {
	if maxEntries < 0 {
		return nil, fmt.Errorf("cache: max entries must be >= 0, got %d", maxEntries)
	}
	if defaultTTL < 0 {
		return nil, fmt.Errorf("cache: ttl must be >= 0, got %v", defaultTTL)
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		now:        time.Now,
	}, nil
}

// Get returns the value stored under key. A hit marks the entry most
// recently used. An entry whose TTL has passed is removed and reported
// as a miss; absence is a normal outcome, never an error.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	e := el.Value.(*entry[V])
	if !c.now().Before(e.expiresAt) {
		// Lazy expiry: drop it now rather than serving stale data.
		c.removeLocked(el)
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Put stores value under key with the cache's default TTL.
func (c *Cache[V]) Put(key string, value V) {
	c.PutTTL(key, value, c.defaultTTL)
}

// PutTTL stores value under key, expiring ttl from now. An existing key
// is overwritten in place with fresh timestamps and refreshed recency.
// Inserting a new key at capacity first evicts the least-recently-used
// entry, whether or not that entry has already expired.
func (c *Cache[V]) PutTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries == 0 {
		return
	}

	now := c.now()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.insertedAt = now
		e.expiresAt = now.Add(ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxEntries {
		if lru := c.order.Back(); lru != nil {
			c.removeLocked(lru)
		}
	}

	el := c.order.PushFront(&entry[V]{
		key:        key,
		value:      value,
		insertedAt: now,
		expiresAt:  now.Add(ttl),
	})
	c.items[key] = el
}

// Stats returns the cumulative hit/miss counters and the current entry
// count.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Size: c.order.Len()}
}

// Clear removes every entry. The hit/miss counters are cumulative for
// the cache's lifetime and are deliberately left untouched.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.maxEntries)
	c.order.Init()
}

// Len returns the number of physically present entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	e := el.Value.(*entry[V])
	c.order.Remove(el)
	delete(c.items, e.key)
}
