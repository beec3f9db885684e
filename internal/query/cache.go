// Package query caches API reads in the local store and collapses concurrent
// identical fetches.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/storage"
)

// Store is the slice of storage.Provider the cache needs.
type Store interface {
	GetCacheEntry(key string) (storage.CacheEntry, error)
	PutCacheEntry(storage.CacheEntry) error
	InvalidateTag(tag string) (int64, error)
	PurgeCache() (int64, error)
}

// Cache is safe for concurrent use.
type Cache struct {
	store    Store
	ttl      time.Duration
	disabled bool
	now      func() time.Time
	group    singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithoutPersistence skips reading and writing the store. Concurrent fetches
// are still collapsed.
func WithoutPersistence() Option {
	return func(c *Cache) {
		c.disabled = true
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache over store. A nil store behaves like WithoutPersistence.
func New(store Store, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		store:    store,
		ttl:      ttl,
		disabled: store == nil || ttl <= 0,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch decodes the value cached under key into dst. On a miss or a stale
// entry fn is called once for all concurrent callers of the same key and its
// result is stored under tag.
func (c *Cache) Fetch(ctx context.Context, key, tag string, dst interface{}, fn func(context.Context) (interface{}, error)) error {
	if payload, ok := c.lookup(key); ok {
		if err := json.Unmarshal(payload, dst); err == nil {
			logger.Debug("Cache hit", "key", key)
			return nil
		}
		logger.Warn("Discarding unreadable cache entry", "key", key)
	}

	// The fetch is shared, so one caller giving up must not cancel it for the
	// others. Each caller still stops waiting on its own ctx below.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		v, err := fn(shared)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		c.save(key, tag, payload)
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dst)
	}
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	if c.disabled {
		return nil, false
	}
	entry, err := c.store.GetCacheEntry(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if entry.Expired(c.now()) {
		return nil, false
	}
	return entry.Payload, true
}

func (c *Cache) save(key, tag string, payload []byte) {
	if c.disabled {
		return
	}
	now := c.now()
	err := c.store.PutCacheEntry(storage.CacheEntry{
		Key:       key,
		Tag:       tag,
		Payload:   payload,
		FetchedAt: now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every entry stored under the given tags.
func (c *Cache) Invalidate(tags ...string) {
	if c.disabled {
		return
	}
	for _, tag := range tags {
		n, err := c.store.InvalidateTag(tag)
		if err != nil {
			logger.Warn("Cache invalidation failed", "tag", tag, "error", err)
			continue
		}
		logger.Debug("Cache invalidated", "tag", tag, "entries", n)
	}
}

// Purge removes every cached entry and returns how many were dropped.
func (c *Cache) Purge() (int64, error) {
	if c.store == nil {
		return 0, nil
	}
	return c.store.PurgeCache()
}

// Get is a typed wrapper around Fetch.
func Get[T any](ctx context.Context, c *Cache, key, tag string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := c.Fetch(ctx, key, tag, &out, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	return out, err
}
