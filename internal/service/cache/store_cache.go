package cache

import (
	"context"
	"time"

	"SignalScan/internal/domain/models"
	domrepo "SignalScan/internal/domain/repository"
	pkgcache "SignalScan/pkg/cache"
)

// StoreSeriesCache adapts a pkg/cache.Service (Redis or memory) to the
// engine's SeriesCache interface, so fetched series can outlive one process
// or be shared between replicas. Expiry is delegated to the backing store.
type StoreSeriesCache struct {
	store pkgcache.Service
	ttl   time.Duration
}

// NewStoreSeriesCache wraps store with the given validity window.
func NewStoreSeriesCache(store pkgcache.Service, ttl time.Duration) *StoreSeriesCache {
	return &StoreSeriesCache{store: store, ttl: ttl}
}

func (c *StoreSeriesCache) Get(symbol string, resolution domrepo.Resolution, source string) (*models.Series, bool) {
	var s models.Series
	err := c.store.Get(context.Background(), cacheKey(symbol, resolution, source), &s)
	if err != nil {
		return nil, false
	}
	return &s, true
}

func (c *StoreSeriesCache) Put(symbol string, resolution domrepo.Resolution, source string, s *models.Series) {
	// best effort: a failed write only costs a refetch
	_ = c.store.Set(context.Background(), cacheKey(symbol, resolution, source), s, c.ttl)
}

var _ domrepo.SeriesCache = (*StoreSeriesCache)(nil)
