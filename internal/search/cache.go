package search

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/hyperestate/aqari/internal/models"
)

// resultCache is a bounded TTL cache for search responses. Entries expire
// after ttl and the least recently used entry is evicted once maxSize is
// reached. A catalog reload must be followed by Purge.
type resultCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key       string
	response  *models.SearchResponse
	expiresAt time.Time
}

func newResultCache(maxSize int, ttl time.Duration) *resultCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &resultCache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func cacheKey(query, locale string, limit int, semantic bool) string {
	return fmt.Sprintf("%s|%s|%d|%t", locale, query, limit, semantic)
}

func (c *resultCache) Get(key string) (*models.SearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.response, true
}

func (c *resultCache) Set(key string, response *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	expiresAt := time.Now().Add(c.ttl)
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.response = response
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}
	if len(c.entries) >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, response: response, expiresAt: expiresAt})
}

// Purge drops every entry. Called after a catalog snapshot swap so stale
// results never outlive the data they came from.
func (c *resultCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
}

func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
