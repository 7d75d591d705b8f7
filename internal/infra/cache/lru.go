// Package cache provides the in-memory result cache for validated analyses.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gaiashield/gaiashield/internal/domain/analysis"
)

const (
	DefaultMaxEntries = 256
	DefaultTTL        = 10 * time.Minute
)

type entry struct {
	key       string
	resp      *analysis.Response
	createdAt time.Time
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a bounded LRU with a fixed per-entry TTL. Get refreshes recency
// but never the TTL: an entry inserted at T is gone at T+TTL regardless of
// reads. All operations are synchronous and safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	order      *list.List // front = most recently used
	items      map[string]*list.Element

	hits   atomic.Int64
	misses atomic.Int64

	now func() time.Time // overridable in tests
}

func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

func (c *Cache) Get(key string) (*analysis.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	e := el.Value.(*entry)
	if c.expired(e) {
		c.removeElement(el)
		c.misses.Add(1)
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits.Add(1)
	return e.resp, true
}

// Set inserts or replaces the entry for key. A replaced entry gets a fresh
// TTL; the least recently used entry is evicted when the cache is full.
func (c *Cache) Set(key string, resp *analysis.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.resp = resp
		e.createdAt = c.now()
		c.order.MoveToFront(el)
		return
	}
	c.purgeExpired()
	for c.order.Len() >= c.maxEntries {
		c.removeElement(c.order.Back())
	}
	c.items[key] = c.order.PushFront(&entry{key: key, resp: resp, createdAt: c.now()})
}

// Has reports whether key holds a live entry. It does not refresh recency.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	if c.expired(el.Value.(*entry)) {
		c.removeElement(el)
		return false
	}
	return true
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Len counts live entries, purging expired ones first.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpired()
	return c.order.Len()
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := c.order.Len()
	c.mu.Unlock()
	return Stats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func (c *Cache) expired(e *entry) bool {
	return c.now().Sub(e.createdAt) >= c.ttl
}

func (c *Cache) purgeExpired() {
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry)) {
			c.removeElement(el)
		}
		el = prev
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
