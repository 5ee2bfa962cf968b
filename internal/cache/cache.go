// Package cache implements the fingerprint-indexed result cache of
// spec §4.4/§5: single-flight evaluation, LRU eviction bounded by both
// entry count and a byte budget, adapted from the teacher's
// container/list-based LRUCacheImpl (buffer_pool/buffer_lru.go) but
// simplified to a single eviction list since the scheduler has no
// young/old generation split to model.
package cache

import (
	"container/list"
	"context"
	"sync"

	"go.uber.org/atomic"

	vferrors "vegafusion-go/internal/errors"
)

// Stats tracks hit/miss counters the way the teacher's stats type
// does, using atomics so readers never take the cache mutex.
type Stats struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
}

func (s *Stats) HitCount() uint64    { return s.hits.Load() }
func (s *Stats) MissCount() uint64   { return s.misses.Load() }
func (s *Stats) EvictCount() uint64  { return s.evicts.Load() }
func (s *Stats) LookupCount() uint64 { return s.HitCount() + s.MissCount() }
func (s *Stats) HitRate() float64 {
	total := s.LookupCount()
	if total == 0 {
		return 0
	}
	return float64(s.HitCount()) / float64(total)
}

// entry is the value stored in the eviction list: either a pending
// future that concurrent requesters await together (single-flight) or
// a completed value (spec §4.4 step 2 "the cache stores a pending
// future or a completed value; a newcomer receives a handle to the
// pending future").
type entry struct {
	key      uint64
	pending  *future
	value    interface{}
	sizeHint int
	done     bool
}

// future lets concurrent Get callers that land on the same in-flight
// key await a single evaluation instead of racing it redundantly.
type future struct {
	ready chan struct{}
	value interface{}
	err   error
}

func newFuture() *future { return &future{ready: make(chan struct{})} }

func (f *future) resolve(v interface{}, err error) {
	f.value, f.err = v, err
	close(f.ready)
}

func (f *future) wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.ready:
		return f.value, f.err
	case <-ctx.Done():
		return nil, vferrors.Cancelled("cache: waiting for in-flight evaluation: %v", ctx.Err())
	}
}

// SizeOf estimates the byte footprint of a cached value, so the
// Connection/evaluator layer that inserts table values can report an
// accurate weight; scalars have a trivial fixed weight.
type SizeOf func(v interface{}) int

// Cache is a fingerprint-indexed LRU with a two-dimensional capacity
// (entry count and byte budget), matching spec §5's "two-dimensional
// limit (entry count, byte budget); when either is exceeded, LRU
// entries are evicted."
type Cache struct {
	mu sync.Mutex

	maxEntries int
	maxBytes   int
	curBytes   int

	items map[uint64]*list.Element
	order *list.List

	sizeOf SizeOf
	Stats  Stats
}

// New builds a cache bounded by maxEntries (0 = unlimited) and
// maxBytes (0 = unlimited). sizeOf may be nil, in which case every
// entry is weighted as 1 byte and only maxEntries is meaningful.
func New(maxEntries, maxBytes int, sizeOf SizeOf) *Cache {
	if sizeOf == nil {
		sizeOf = func(interface{}) int { return 1 }
	}
	return &Cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		items:      map[uint64]*list.Element{},
		order:      list.New(),
		sizeOf:     sizeOf,
	}
}

// GetOrCompute implements the single-flight contract of spec §4.4 step
// 2: if fingerprint is cached, returns the cached value; if another
// caller is already computing it, awaits that computation; otherwise
// runs compute itself and publishes the result for any waiters.
func (c *Cache) GetOrCompute(ctx context.Context, fingerprint uint64, compute func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if el, ok := c.items[fingerprint]; ok {
		e := el.Value.(*entry)
		c.order.MoveToFront(el)
		if e.done {
			c.Stats.hits.Inc()
			c.mu.Unlock()
			return e.value, nil
		}
		pending := e.pending
		c.mu.Unlock()
		return pending.wait(ctx)
	}

	c.Stats.misses.Inc()
	f := newFuture()
	e := &entry{key: fingerprint, pending: f}
	el := c.order.PushFront(e)
	c.items[fingerprint] = el
	c.mu.Unlock()

	v, err := compute(ctx)
	f.resolve(v, err)

	c.mu.Lock()
	if err != nil {
		// Failure poisons only this slot; it is simply dropped so a
		// later request retries rather than serving a negative cache
		// (spec §4.4 "Failure semantics": "no negative cache").
		delete(c.items, fingerprint)
		c.order.Remove(el)
		c.mu.Unlock()
		return nil, err
	}
	e.done = true
	e.value = v
	e.sizeHint = c.sizeOf(v)
	c.curBytes += e.sizeHint
	c.evictLocked()
	c.mu.Unlock()
	return v, nil
}

// evictLocked drops least-recently-used entries until both the entry
// count and byte budget are satisfied. Must be called with c.mu held.
func (c *Cache) evictLocked() {
	for (c.maxEntries > 0 && c.order.Len() > c.maxEntries) ||
		(c.maxBytes > 0 && c.curBytes > c.maxBytes) {
		back := c.order.Back()
		if back == nil {
			return
		}
		e := back.Value.(*entry)
		c.order.Remove(back)
		delete(c.items, e.key)
		c.curBytes -= e.sizeHint
		c.Stats.evicts.Inc()
	}
}

// Purge drops every cached entry, used when a schema-affecting config
// change invalidates all previously cached fingerprints.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[uint64]*list.Element{}
	c.order = list.New()
	c.curBytes = 0
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
