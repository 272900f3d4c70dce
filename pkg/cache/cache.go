// Package cache memoizes expensive introspection results (latest
// partitions, function lists) keyed by dialect, table and schema.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached introspection result.
type Key struct {
	Kind    string
	Dialect string
	Table   string
	Schema  string
}

func (k Key) String() string {
	return strings.Join([]string{k.Kind, strings.ToLower(k.Dialect), k.Schema, k.Table}, "\x00")
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache holds values for a fixed TTL. Concurrent misses for the same key
// share a single load. A zero TTL disables caching.
type Cache[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry[V]
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger for hit/miss tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Cache[V]{
		ttl:     ttl,
		now:     o.now,
		logger:  o.logger,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[V]) Get(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !c.now().Before(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key.
func (c *Cache[V]) Set(key Key, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate drops every entry for the given table, e.g. after a schema change.
func (c *Cache[V]) Invalidate(dialect, table, schema string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		parts := strings.Split(k, "\x00")
		if parts[1] == strings.ToLower(dialect) && parts[2] == schema && parts[3] == table {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do returns the cached value for key or calls load once and caches a
// successful result. Errors are not cached.
func (c *Cache[V]) Do(ctx context.Context, key Key, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		c.logger.Debug("cache hit", slog.String("kind", key.Kind), slog.String("table", key.Table))
		return v, nil
	}
	c.logger.Debug("cache miss", slog.String("kind", key.Kind), slog.String("table", key.Table), slog.Int("entries", c.Len()))

	res, err, _ := c.group.Do(key.String(), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}
