// Package cache provides the bounded, TTL-expiring key/value cache shared
// by the event, station, waveform, and inventory lookups in the
// pipeline, plus a re-entrancy guard for building them.
package cache

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL and DefaultCapacity match spec.md §4.7's cache policy: a
// 24-hour entry lifetime and a 50-entry cap per cache instance.
const (
	DefaultTTL      = 24 * time.Hour
	DefaultCapacity = 50
)

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Cache is a bounded LRU cache with per-entry TTL. Safe for concurrent
// use. Zero value is not usable; construct with New.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	ll       *list.List
	index    map[string]*list.Element

	hits   int64
	misses int64
}

// New builds a Cache with the given capacity and TTL. A capacity <= 0 or
// ttl <= 0 falls back to DefaultCapacity / DefaultTTL.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get returns the cached value for key, or (nil, false) if absent or
// expired. A hit refreshes the entry's LRU position.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		c.removeElement(el)
		c.misses++
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Set inserts or updates key, evicting the least-recently-used entry if
// the cache is over capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = time.Now().Add(c.ttl)
		c.ll.MoveToFront(el)
		return
	}

	e := &entry{key: key, value: value, expiresAt: time.Now().Add(c.ttl)}
	el := c.ll.PushFront(e)
	c.index[key] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Invalidate drops a single key, if present.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.removeElement(el)
	}
}

// Clear drops every cached entry, e.g. on a station-change reset.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.index = make(map[string]*list.Element)
}

// Stats reports cumulative hit/miss counts since construction.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.index, e.key)
	c.ll.Remove(el)
}

// Group wraps singleflight.Group to guard against duplicate concurrent
// builds of the same cache key (spec.md §4.5/§4.7 re-entrancy guard).
type Group struct {
	sf singleflight.Group
}

// NewGroup constructs an empty re-entrancy guard.
func NewGroup() *Group {
	return &Group{}
}

// Do runs fn at most once per concurrently-in-flight key, sharing its
// result with every caller that arrives while it is running.
func (g *Group) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.sf.Do(key, fn)
}
