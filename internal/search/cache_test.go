package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/hyperestate/aqari/internal/models"
)

func TestResultCache_getSet(t *testing.T) {
	c := newResultCache(4, time.Minute)
	resp := &models.SearchResponse{Query: "q"}
	key := cacheKey("q", "ar", 10, false)
	c.Set(key, resp)
	got, ok := c.Get(key)
	if !ok || got != resp {
		t.Errorf("Get = (%v, %v)", got, ok)
	}
	if _, ok := c.Get(cacheKey("q", "en", 10, false)); ok {
		t.Error("different locale must be a different key")
	}
	if _, ok := c.Get(cacheKey("q", "ar", 10, true)); ok {
		t.Error("semantic flag must be part of the key")
	}
}

func TestResultCache_expiry(t *testing.T) {
	c := newResultCache(4, 10*time.Millisecond)
	key := cacheKey("q", "ar", 10, false)
	c.Set(key, &models.SearchResponse{})
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestResultCache_evictsOldest(t *testing.T) {
	c := newResultCache(2, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(cacheKey(fmt.Sprintf("q%d", i), "ar", 10, false), &models.SearchResponse{})
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get(cacheKey("q0", "ar", 10, false)); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestResultCache_purge(t *testing.T) {
	c := newResultCache(4, time.Minute)
	c.Set(cacheKey("q", "ar", 10, false), &models.SearchResponse{})
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("len after purge = %d, want 0", c.Len())
	}
}
