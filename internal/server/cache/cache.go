// Package cache keeps recent search pages in memory so repeated keystrokes
// from many clients reach the reference provider once per TTL.
package cache

import (
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/carebridge/nutrimap/pkg/nutrition"
)

// Cache holds search pages keyed by normalized query and page size.
type Cache struct {
	pages *gocache.Cache
}

// New creates a cache whose entries expire after ttl. Expired entries are
// purged every cleanup.
func New(ttl, cleanup time.Duration) *Cache {
	return &Cache{pages: gocache.New(ttl, cleanup)}
}

// SearchKey returns the key of a search page. Queries differing only in
// case or surrounding whitespace share a key.
func SearchKey(query string, pageSize int) string {
	return "search:" + strconv.Itoa(pageSize) + ":" + strings.ToLower(strings.TrimSpace(query))
}

// GetSearch returns a cached search page.
func (c *Cache) GetSearch(query string, pageSize int) (*nutrition.SearchResponse, bool) {
	v, ok := c.pages.Get(SearchKey(query, pageSize))
	if !ok {
		return nil, false
	}
	resp, ok := v.(*nutrition.SearchResponse)
	return resp, ok
}

// SetSearch caches a search page for the default TTL.
func (c *Cache) SetSearch(query string, pageSize int, resp *nutrition.SearchResponse) {
	c.pages.SetDefault(SearchKey(query, pageSize), resp)
}

// ItemCount returns the number of cached pages, including expired ones not
// yet purged.
func (c *Cache) ItemCount() int {
	return c.pages.ItemCount()
}

// Flush drops every page.
func (c *Cache) Flush() {
	c.pages.Flush()
}
