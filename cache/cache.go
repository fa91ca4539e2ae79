// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package cache

import (
	"context"
	"sync"

	"github.com/spezifisch/mpv-mpris/logger"
)

// Cache fetches assets on demand and keeps the most recently used ones.
//
// When an asset is requested, Cache returns it if it is cached. Otherwise it
// calls the fetcher, stores a successful result and returns it. Failed
// fetches are not cached, so the next request tries again. An LRU bounds
// the number of entries; a size of zero disables caching entirely and every
// Get goes to the fetcher.
//
// Caches are indexed by strings; for artwork that is the media path.
type Cache[T any] struct {
	zero    T
	fetcher func(context.Context, string) (T, error)
	logger  logger.LoggerInterface

	mu    sync.Mutex
	cache map[string]T
	lru   *LRU
}

// NewCache sets up a new cache, given
//
//   - a zeroValue, returned when a fetch fails
//   - a fetcher, which can be a long-running function that loads assets; it
//     should honour ctx and return an asset, or an error
//   - the maximum number of cached assets
//   - a logger, used for reporting errors returned by the fetching function
func NewCache[T any](
	zeroValue T,
	fetcher func(context.Context, string) (T, error),
	size int,
	logger logger.LoggerInterface,
) *Cache[T] {
	return &Cache[T]{
		zero:    zeroValue,
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string]T),
		lru:     NewLRU(size),
	}
}

// Get returns the cached asset for key, fetching it on a miss. The lock is
// not held while fetching, so concurrent misses for one key may both fetch.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	c.mu.Lock()
	if v, ok := c.cache[key]; ok {
		c.lru.Touch(key)
		c.mu.Unlock()
		return v, true
	}
	c.mu.Unlock()

	asset, err := c.fetcher(ctx, key)
	if err != nil {
		c.logger.Debugf("error fetching asset %s: %s", key, err)
		return c.zero, false
	}
	c.Put(key, asset)
	return asset, true
}

func (c *Cache[T]) Put(key string, asset T) {
	if c.lru.size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = asset
	if remove := c.lru.Touch(key); remove != "" {
		delete(c.cache, remove)
	}
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Close clears the cache.
func (c *Cache[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.cache {
		delete(c.cache, k)
		c.lru.Remove(k)
	}
}
