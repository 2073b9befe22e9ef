package cache

import (
	"fmt"
	"sync"
	"time"

	"SignalScan/internal/domain/models"
	domrepo "SignalScan/internal/domain/repository"
)

type entry struct {
	series    *models.Series
	fetchedAt time.Time
}

// SeriesCache is a time-boxed memoization of fetched bar series keyed by
// (symbol, resolution, source). Entries are evicted lazily on read once older
// than the TTL. Last-write-wins: two concurrent misses may both fetch and
// both write, which costs a redundant fetch and nothing else.
type SeriesCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	ttl time.Duration
	now func() time.Time
}

// SeriesCacheOption configures a SeriesCache.
type SeriesCacheOption func(*SeriesCache)

// WithClock overrides the cache clock, for deterministic TTL tests.
func WithClock(now func() time.Time) SeriesCacheOption {
	return func(c *SeriesCache) { c.now = now }
}

// NewSeriesCache creates a cache with the given validity window.
func NewSeriesCache(ttl time.Duration, opts ...SeriesCacheOption) *SeriesCache {
	c := &SeriesCache{
		m:   make(map[string]entry),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(symbol string, resolution domrepo.Resolution, source string) string {
	return fmt.Sprintf("%s:%s:%s", source, resolution, symbol)
}

// Get returns a cached series if present and still within the TTL.
func (c *SeriesCache) Get(symbol string, resolution domrepo.Resolution, source string) (*models.Series, bool) {
	key := cacheKey(symbol, resolution, source)

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.series, true
}

// Put stores a freshly fetched series.
func (c *SeriesCache) Put(symbol string, resolution domrepo.Resolution, source string, s *models.Series) {
	key := cacheKey(symbol, resolution, source)
	c.mu.Lock()
	c.m[key] = entry{series: s, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Len reports the number of live entries, expired or not.
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

var _ domrepo.SeriesCache = (*SeriesCache)(nil)
