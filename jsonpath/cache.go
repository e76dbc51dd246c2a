package jsonpath

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 1024

// cache is a read-mostly, bounded LRU of compiled expressions keyed by
// source string. Compilation is idempotent, so concurrent misses on the
// same key simply compile twice rather than synchronizing on it.
type cache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, *Expression]
}

func newCache(size int) *cache {
	l, err := lru.New[string, *Expression](size)
	if err != nil {
		// size <= 0; fall back to a minimally-sized cache rather than failing
		// the whole package at init time.
		l, _ = lru.New[string, *Expression](1)
	}

	return &cache{lru: l}
}

var defaultCache = newCache(defaultCacheSize)

// Compile parses source (if not already cached) and returns the shared,
// immutable compiled Expression. Compile is safe for concurrent use.
func Compile(source string) (*Expression, error) {
	return defaultCache.compile(source)
}

// MustCompile is like Compile but panics on error; intended for
// package-level var initialization of well-known paths.
func MustCompile(source string) *Expression {
	expr, err := Compile(source)
	if err != nil {
		panic(err)
	}

	return expr
}

func (c *cache) compile(source string) (*Expression, error) {
	c.mu.Lock()
	if expr, ok := c.lru.Get(source); ok {
		c.mu.Unlock()
		return expr, nil
	}
	c.mu.Unlock()

	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(source, expr)
	c.mu.Unlock()

	return expr, nil
}

// ResetCache clears the package-level compiled-expression cache. Intended
// for tests.
func ResetCache() {
	defaultCache = newCache(defaultCacheSize)
}
