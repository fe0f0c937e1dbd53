// Package querycache caches platform query results between commands of one process.
package querycache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL  = 30 * time.Second
	defaultSize = 256
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64 // expiry, size pressure and invalidation alike
	Size      int
	TTL       time.Duration
}

// Cache is an expiring LRU of query results. Results fetched under an older generation
// are never stored, so an invalidation cannot be undone by a request already in flight.
type Cache struct {
	lru   *expirable.LRU[string, any]
	group singleflight.Group
	ttl   time.Duration

	generation atomic.Uint64

	hits      int64
	misses    int64
	sets      int64
	evictions int64
}

// New returns a cache holding at most size entries for ttl each. Zero values pick defaults.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &Cache{ttl: ttl}
	c.lru = expirable.NewLRU[string, any](size, func(string, any) {
		atomic.AddInt64(&c.evictions, 1)
	}, ttl)
	return c
}

// Fetch returns the cached value for key or loads it with fn. Concurrent callers of the
// same key share one call to fn.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lru.Get(key); ok {
		if typed, ok := v.(T); ok {
			atomic.AddInt64(&c.hits, 1)
			return typed, nil
		}
		c.lru.Remove(key)
	}
	atomic.AddInt64(&c.misses, 1)

	gen := c.generation.Load()
	v, err, _ := c.group.Do(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		loaded, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if c.generation.Load() == gen {
			c.lru.Add(key, loaded)
			atomic.AddInt64(&c.sets, 1)
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("querycache: %q holds %T", key, v)
	}
	return typed, nil
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

// InvalidatePrefix drops every key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

// InvalidateAll empties the cache and fences off fetches already in flight.
func (c *Cache) InvalidateAll() {
	c.generation.Add(1)
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
