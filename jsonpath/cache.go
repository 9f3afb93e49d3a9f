package jsonpath

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// Cache memoises compiled queries keyed on the exact path string.
// Queries are pure, so entries never need invalidation; the LRU bound
// only caps memory.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewCache returns a compile cache holding up to maxEntries queries.
func NewCache(maxEntries int) *Cache {
	return &Cache{lru: lru.New(maxEntries)}
}

// Compile returns the cached query for path, compiling on miss.
// Compile errors are not cached.
func (c *Cache) Compile(path string) (*Query, error) {
	c.mu.Lock()
	if cached, ok := c.lru.Get(lru.Key(path)); ok {
		c.mu.Unlock()
		return cached.(*Query), nil
	}
	c.mu.Unlock()

	q, err := Compile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(lru.Key(path), q)
	c.mu.Unlock()
	return q, nil
}
