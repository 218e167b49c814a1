package cache

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// QueryCache keeps the first successful result of every query for the process lifetime.
// Entries never go stale, they are only dropped through Invalidate or Purge.
// Failed fetches are not stored so the next call tries again.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group

	// bumped on every Invalidate and Purge, a fetch started before a bump
	// hands its result to the callers but does not store it
	generation uint64
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]any),
	}
}

// Fetch returns the cached value for key or runs fetch once, concurrent callers
// asking for the same key share the in-flight call
func Fetch[T any](ctx context.Context, c *QueryCache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		log.WithField("query", key).Trace("query cache hit")
		return v.(T), nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// another caller may have filled the entry between get and Do
		if v, ok := c.get(key); ok {
			return v, nil
		}

		log.WithField("query", key).Debug("query cache miss, fetching")

		c.mu.RLock()
		generation := c.generation
		c.mu.RUnlock()

		// the call is shared, one caller going away must not fail the others
		res, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == generation {
			c.entries[key] = res
		} else {
			log.WithField("query", key).Debug("query cache cleared during fetch, result not stored")
		}
		c.mu.Unlock()

		return res, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	if shared {
		log.WithField("query", key).Trace("query result shared with a concurrent caller")
	}

	return v.(T), nil
}

func (c *QueryCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Invalidate drops a single query
func (c *QueryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.generation++
	c.mu.Unlock()

	c.group.Forget(key)
}

// Purge drops every query and returns how many entries were removed
func (c *QueryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++

	n := len(c.entries)
	for key := range c.entries {
		delete(c.entries, key)
		c.group.Forget(key)
	}

	return n
}

func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
