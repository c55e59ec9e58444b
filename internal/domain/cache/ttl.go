// Package cache provides an in-memory key/value store with per-entry expiry.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/neuroshop/pkg/metrics"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
	gen       uint64
	timer     *time.Timer
}

// TTL is a concurrency-safe map whose entries expire after a duration.
// Expired entries are removed by a timer and are also hidden from reads
// as soon as their deadline passes.
type TTL[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	gen     uint64
	opts    options
}

// New creates an empty cache.
func New[V any](opts ...Option) *TTL[V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[V]{
		entries: make(map[string]*entry[V]),
		opts:    o,
	}
}

// Name returns the metrics label of the cache.
func (c *TTL[V]) Name() string { return c.opts.name }

// Set stores value under key for ttl, replacing and cancelling any prior entry.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.opts.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		old.timer.Stop()
	}
	c.gen++
	gen := c.gen
	e := &entry[V]{
		value:     value,
		expiresAt: c.opts.now().Add(ttl),
		gen:       gen,
	}
	e.timer = time.AfterFunc(ttl, func() { c.expire(key, gen) })
	c.entries[key] = e
	metrics.UpdateCacheEntries(c.opts.name, len(c.entries))
}

// expire removes key only if it still holds the generation the timer was armed for.
func (c *TTL[V]) expire(key string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.gen != gen {
		return
	}
	delete(c.entries, key)
	metrics.RecordCacheEviction(c.opts.name)
	metrics.UpdateCacheEntries(c.opts.name, len(c.entries))
}

// Get returns the live value for key. A miss has no side effects.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.opts.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether key holds a live value.
func (c *TTL[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes key and cancels its expiry.
func (c *TTL[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(c.entries, key)
	metrics.UpdateCacheEntries(c.opts.name, len(c.entries))
	return true
}

// Clear removes every entry and cancels all pending expiries.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.timer.Stop()
	}
	clear(c.entries)
	metrics.UpdateCacheEntries(c.opts.name, 0)
}

// Len returns the number of live entries.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Keys returns the live keys in lexical order.
func (c *TTL[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.now()
	keys := make([]string, 0, len(c.entries))
	for k, e := range c.entries {
		if now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SearchKey is the cache key of an aggregated search for query.
func SearchKey(query string) string {
	return "search:" + NormalizeQuery(query)
}

// ClassifierKey is the cache key of a classifier answer of the given kind.
func ClassifierKey(kind, input string) string {
	return "llm:" + kind + ":" + NormalizeQuery(input)
}

// NormalizeQuery lowercases, trims and collapses inner whitespace.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
