package categorize

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"homebase-go/internal/domain/ledger"
)

type mapCache struct {
	items map[string]Suggestion
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]Suggestion{}}
}

func (c *mapCache) Get(key string) (Suggestion, bool) {
	s, ok := c.items[key]
	return s, ok
}

func (c *mapCache) Set(key string, suggestion Suggestion) {
	c.items[key] = suggestion
}

var testConfig = Config{MinConfidence: 0.3}

func TestSuggestAcceptsKnownCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	suggester := NewMockSuggester(ctrl)
	cache := newMapCache()
	svc := NewService(suggester, testConfig, WithCache(cache))

	suggester.EXPECT().
		Suggest(gomock.Any(), "Tesco weekly shop", ledger.ExpenseCategories()).
		Return(RawSuggestion{Category: "groceries", Confidence: 0.92}, nil)

	suggestion, ok := svc.Suggest(context.Background(), "  Tesco   weekly shop ")
	require.True(t, ok)
	assert.Equal(t, ledger.CategoryGroceries, suggestion.Category)
	assert.InDelta(t, 0.92, suggestion.Confidence, 1e-9)
	assert.Equal(t, suggestion, cache.items["tesco weekly shop"])
}

func TestSuggestUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	suggester := NewMockSuggester(ctrl)
	svc := NewService(suggester, testConfig, WithCache(newMapCache()))

	suggester.EXPECT().
		Suggest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(RawSuggestion{Category: "Travel", Confidence: 0.8}, nil).
		Times(1)

	first, ok := svc.Suggest(context.Background(), "Train to Leeds")
	require.True(t, ok)
	second, ok := svc.Suggest(context.Background(), "TRAIN TO LEEDS")
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSuggestEmptyDescriptionSkipsModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	suggester := NewMockSuggester(ctrl)
	svc := NewService(suggester, testConfig)

	_, ok := svc.Suggest(context.Background(), "   ")
	assert.False(t, ok)
}

func TestSuggestRejectsUnusableAnswers(t *testing.T) {
	tests := []struct {
		name string
		raw  RawSuggestion
		err  error
	}{
		{name: "model error", err: errors.New("429 too many requests")},
		{name: "unknown category", raw: RawSuggestion{Category: "Crypto", Confidence: 0.9}},
		{name: "income category", raw: RawSuggestion{Category: "Salary", Confidence: 0.9}},
		{name: "confidence above one", raw: RawSuggestion{Category: "Rent", Confidence: 1.4}},
		{name: "negative confidence", raw: RawSuggestion{Category: "Rent", Confidence: -0.1}},
		{name: "nan confidence", raw: RawSuggestion{Category: "Rent", Confidence: math.NaN()}},
		{name: "low confidence", raw: RawSuggestion{Category: "Rent", Confidence: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			suggester := NewMockSuggester(ctrl)
			cache := newMapCache()
			svc := NewService(suggester, testConfig, WithCache(cache))

			suggester.EXPECT().Suggest(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.raw, tt.err)

			_, ok := svc.Suggest(context.Background(), "something")
			assert.False(t, ok)
			assert.Empty(t, cache.items)
		})
	}
}

func TestSuggestDisabledWithoutSuggester(t *testing.T) {
	svc := NewService(nil, testConfig)

	assert.False(t, svc.Enabled())
	_, ok := svc.Suggest(context.Background(), "coffee")
	assert.False(t, ok)
}
