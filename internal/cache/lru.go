// Package cache provides caching utilities for the query engine.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/itchyny/gojq"
)

// CodeCache provides thread-safe LRU caching for compiled jq programs,
// keyed by expression text.
type CodeCache struct {
	cache *lru.Cache[string, *gojq.Code]
}

// NewCodeCache creates a new LRU cache with the specified maximum number of items.
func NewCodeCache(maxItems int) (*CodeCache, error) {
	c, err := lru.New[string, *gojq.Code](maxItems)
	if err != nil {
		return nil, err
	}
	return &CodeCache{cache: c}, nil
}

// Get retrieves the compiled program for expression.
func (c *CodeCache) Get(expression string) (*gojq.Code, bool) {
	return c.cache.Get(expression)
}

// Put adds or updates a compiled program.
func (c *CodeCache) Put(expression string, code *gojq.Code) {
	c.cache.Add(expression, code)
}

// Len returns the current number of items in the cache.
func (c *CodeCache) Len() int {
	return c.cache.Len()
}
