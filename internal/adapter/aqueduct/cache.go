package aqueduct

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
)

// CachedProvider wraps a HazardProvider with an in-memory LRU cache over
// dataset lookups. The layer catalog is static per deployment, so handles
// and sizes for a given filter never change. Sampling calls pass through
// untouched — depths depend on the submitted coordinates.
type CachedProvider struct {
	inner   domain.HazardProvider
	handles *lruCache[domain.DatasetHandle]
	sizes   *lruCache[int]
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a hazard provider.
func NewCachedProvider(inner domain.HazardProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		handles: newLRUCache[domain.DatasetHandle](maxEntries),
		sizes:   newLRUCache[int](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) QueryDataset(ctx context.Context, filter domain.DatasetFilter) (domain.DatasetHandle, error) {
	key := filterKey(filter)
	if handle, ok := c.handles.get(key); ok {
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return handle, nil
	}
	c.metrics.DatasetCache.WithLabelValues("miss").Inc()

	handle, err := c.inner.QueryDataset(ctx, filter)
	if err != nil {
		return "", err
	}
	c.handles.put(key, handle)
	return handle, nil
}

func (c *CachedProvider) DatasetSize(ctx context.Context, handle domain.DatasetHandle) (int, error) {
	key := string(handle)
	if size, ok := c.sizes.get(key); ok {
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return size, nil
	}
	c.metrics.DatasetCache.WithLabelValues("miss").Inc()

	size, err := c.inner.DatasetSize(ctx, handle)
	if err != nil {
		return 0, err
	}
	c.sizes.put(key, size)
	return size, nil
}

func (c *CachedProvider) SamplePoints(ctx context.Context, handle domain.DatasetHandle, points []domain.Point) ([]domain.PointDepth, error) {
	return c.inner.SamplePoints(ctx, handle, points)
}

func (c *CachedProvider) SampleBuffered(ctx context.Context, handle domain.DatasetHandle, points []domain.Point, radiusMeters float64) ([]domain.ZonalStats, error) {
	return c.inner.SampleBuffered(ctx, handle, points, radiusMeters)
}

func filterKey(f domain.DatasetFilter) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s", f.FloodType, f.Scenario, f.ReturnPeriod, f.Year, f.Model)
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
