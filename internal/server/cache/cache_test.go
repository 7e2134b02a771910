package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap/pkg/nutrition"
)

func TestCache_Expiry(t *testing.T) {
	c := New(20*time.Millisecond, 10*time.Millisecond)
	c.SetSearch("apple", 25, nutrition.EmptySearchResponse())

	_, found := c.GetSearch("apple", 25)
	require.True(t, found)

	assert.Eventually(t, func() bool {
		_, found := c.GetSearch("apple", 25)
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestCache_Flush(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	for i := 0; i < 5; i++ {
		c.SetSearch(fmt.Sprintf("food %d", i), 25, nutrition.EmptySearchResponse())
	}
	assert.Equal(t, 5, c.ItemCount())

	c.Flush()
	assert.Zero(t, c.ItemCount())
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "search:25:apple", SearchKey("apple", 25))
	assert.Equal(t, SearchKey("apple", 25), SearchKey("  Apple ", 25))
	assert.NotEqual(t, SearchKey("apple", 25), SearchKey("apple", 50))
}

func TestCache_SearchPages(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	_, found := c.GetSearch("apple", 25)
	assert.False(t, found)

	resp := &nutrition.SearchResponse{
		Foods:     []nutrition.SearchResult{{FoodIdentity: nutrition.FoodIdentity{ID: 171688, Name: "Apples, raw, with skin"}}},
		TotalHits: 1,
	}
	c.SetSearch("Apple", 25, resp)

	got, found := c.GetSearch("apple ", 25)
	require.True(t, found)
	assert.Same(t, resp, got)

	_, found = c.GetSearch("apple", 10)
	assert.False(t, found)
}

func TestCache_SearchIgnoresForeignValues(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	c.pages.SetDefault(SearchKey("apple", 25), "not a response")

	_, found := c.GetSearch("apple", 25)
	assert.False(t, found)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				query := fmt.Sprintf("food-%d-%d", id, j)
				c.SetSearch(query, 25, nutrition.EmptySearchResponse())
				_, _ = c.GetSearch(query, 25)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, c.ItemCount())
}
