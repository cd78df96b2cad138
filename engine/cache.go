package engine

import (
	"sync"
	"sync/atomic"

	"github.com/cpcf/ngsyntax/binding"
)

type cacheKey struct {
	directive string
	value     string
}

// ParseCache memoises parse results per directive and binding expression.
// Cached results are shared and must not be modified.
type ParseCache struct {
	mu      sync.RWMutex
	results map[cacheKey]*binding.ParseResult
	hits    atomic.Int64
	misses  atomic.Int64
}

type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func NewParseCache() *ParseCache {
	return &ParseCache{
		results: make(map[cacheKey]*binding.ParseResult),
	}
}

// Get returns the cached result for (directive, value) or parses it with
// parser and stores it.
func (c *ParseCache) Get(parser binding.Parser, directive, value string) *binding.ParseResult {
	key := cacheKey{directive: directive, value: value}

	c.mu.RLock()
	if result, exists := c.results[key]; exists {
		c.mu.RUnlock()
		c.hits.Add(1)
		return result
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if result, exists := c.results[key]; exists {
		c.hits.Add(1)
		return result
	}

	c.misses.Add(1)
	result := parser.ParseTemplateBindings(directive, value, "")
	if result == nil {
		result = &binding.ParseResult{}
	}
	c.results[key] = result
	return result
}

func (c *ParseCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Entries: len(c.results),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func (c *ParseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = make(map[cacheKey]*binding.ParseResult)
}
