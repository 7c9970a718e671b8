package cache

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Cache is a bounded in-process result cache. Concurrent misses on the
// same key are coalesced into a single fetch; errors are never cached.
type Cache[V any] struct {
	lru        *lru.Cache[string, V]
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
}

// New creates a cache holding at most capacity entries, evicting the
// least recently used entry on overflow.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed
// explicitly; nil disables counting.
func New[V any](capacity int, cacheTotal *prometheus.CounterVec) (*Cache[V], error) {
	l, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache[V]{lru: l, cacheTotal: cacheTotal}, nil
}

// Do returns the cached value for key, or runs fetch and caches its
// result. Only one fetch per key is in flight at a time; late arrivals
// share its outcome.
func (c *Cache[V]) Do(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		c.inc("hit")
		return v, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another flight may have filled the entry between
		// the lookup above and acquiring the flight.
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		c.inc("miss")
		return zero, err
	}

	c.inc("miss")
	return res.(V), nil
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Purge drops every cached entry.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

func (c *Cache[V]) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// Key derives a deterministic cache key from an operation name and its
// parameters. Marshaling a struct fixes the field order, so equal
// parameter sets always map to the same key.
func Key(op string, params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal cache key params: %w", err)
	}
	return op + ":" + string(data), nil
}
