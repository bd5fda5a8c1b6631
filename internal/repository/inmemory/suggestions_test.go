package inmemory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebase-go/internal/domain/categorize"
	"homebase-go/internal/domain/ledger"
)

func TestSuggestionCacheExpires(t *testing.T) {
	cache := NewSuggestionCache(10, 50*time.Millisecond)

	suggestion := categorize.Suggestion{Category: ledger.CategoryRent, Confidence: 0.9}
	cache.Set("rent", suggestion)

	got, ok := cache.Get("rent")
	require.True(t, ok)
	assert.Equal(t, suggestion, got)

	require.Eventually(t, func() bool {
		_, ok := cache.Get("rent")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestSuggestionCacheDelete(t *testing.T) {
	cache := NewSuggestionCache(10, time.Hour)
	cache.Set("rent", categorize.Suggestion{Category: ledger.CategoryRent})
	cache.Delete("rent")

	_, ok := cache.Get("rent")
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestSuggestionCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewSuggestionCache(2, time.Hour)

	cache.Set("a", categorize.Suggestion{Category: ledger.CategoryHealth})
	cache.Set("b", categorize.Suggestion{Category: ledger.CategoryTravel})
	_, ok := cache.Get("a")
	require.True(t, ok)
	cache.Set("c", categorize.Suggestion{Category: ledger.CategoryGifts})

	assert.Equal(t, 2, cache.Len())
	_, ok = cache.Get("b")
	assert.False(t, ok)
	_, ok = cache.Get("a")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestSuggestionCacheDefaultsCapacity(t *testing.T) {
	cache := NewSuggestionCache(0, time.Hour)
	for i := 0; i < defaultMaxSuggestions+5; i++ {
		cache.Set(fmt.Sprintf("desc-%d", i), categorize.Suggestion{Category: ledger.CategoryGifts})
	}
	assert.Equal(t, defaultMaxSuggestions, cache.Len())
}
