package inmemory

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"homebase-go/internal/domain/categorize"
)

const defaultMaxSuggestions = 1024

// SuggestionCache keeps accepted category suggestions keyed by folded
// description. Entries live for a fixed TTL and the least recently used one
// is evicted when the cache is full.
type SuggestionCache struct {
	lru *expirable.LRU[string, categorize.Suggestion]
}

func NewSuggestionCache(maxEntries int, ttl time.Duration) *SuggestionCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxSuggestions
	}
	return &SuggestionCache{
		lru: expirable.NewLRU[string, categorize.Suggestion](maxEntries, nil, ttl),
	}
}

func (c *SuggestionCache) Get(key string) (categorize.Suggestion, bool) {
	return c.lru.Get(key)
}

func (c *SuggestionCache) Set(key string, suggestion categorize.Suggestion) {
	c.lru.Add(key, suggestion)
}

func (c *SuggestionCache) Delete(key string) {
	c.lru.Remove(key)
}

func (c *SuggestionCache) Len() int {
	return c.lru.Len()
}
