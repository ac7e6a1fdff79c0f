package kakao

import (
	"context"
	"sync"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/observability"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
)

// CachedProvider wraps a place.Provider with an in-memory LRU cache. The
// cache lives only as long as the process: resolved locations are never
// persisted across sessions.
type CachedProvider struct {
	inner   place.Provider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner place.Provider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) KeywordSearch(ctx context.Context, keyword string) ([]place.PlaceCandidate, error) {
	key := "kw:" + keyword
	if cached, ok := c.cache.get(key); ok {
		c.metrics.ProviderCache.WithLabelValues("keyword", "hit").Inc()
		return cached.candidates, nil
	}
	c.metrics.ProviderCache.WithLabelValues("keyword", "miss").Inc()

	candidates, err := c.inner.KeywordSearch(ctx, keyword)
	if err != nil {
		return candidates, err
	}
	// Only cache non-empty results so transient "not found" responses can
	// be retried.
	if len(candidates) > 0 {
		c.cache.put(key, cacheValue{candidates: candidates})
	}
	return candidates, nil
}

func (c *CachedProvider) AddressSearch(ctx context.Context, address string) ([]place.AddressMatch, error) {
	key := "addr:" + address
	if cached, ok := c.cache.get(key); ok {
		c.metrics.ProviderCache.WithLabelValues("address", "hit").Inc()
		return cached.matches, nil
	}
	c.metrics.ProviderCache.WithLabelValues("address", "miss").Inc()

	matches, err := c.inner.AddressSearch(ctx, address)
	if err != nil {
		return matches, err
	}
	if len(matches) > 0 {
		c.cache.put(key, cacheValue{matches: matches})
	}
	return matches, nil
}

type cacheValue struct {
	candidates []place.PlaceCandidate
	matches    []place.AddressMatch
}

// lruCache is a simple thread-safe LRU cache for search results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value cacheValue
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (cacheValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return cacheValue{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value cacheValue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
