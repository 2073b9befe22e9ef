package repository

import (
	"context"
	"time"

	"SignalScan/internal/domain/models"
)

// BarProvider returns historical bars for one instrument at one resolution.
// An empty slice with a nil error means the source had no data; callers treat
// that as insufficient data, not a failure.
type BarProvider interface {
	Candles(ctx context.Context, symbol string, resolution Resolution, from, to time.Time) ([]models.Bar, error)
	Source() string
}

// SeriesCache memoizes fetched series for a validity window. Last-write-wins;
// concurrent misses for the same key may both fetch and both write.
type SeriesCache interface {
	Get(symbol string, resolution Resolution, source string) (*models.Series, bool)
	Put(symbol string, resolution Resolution, source string, s *models.Series)
}

// QuoteSource reports the most recent traded price for a symbol, when known.
type QuoteSource interface {
	LastPrice(symbol string) (float64, bool)
}

// Metrics records engine observability counters.
type Metrics interface {
	RecordScan(horizon string, instruments int, seconds float64)
	RecordFetch(source string, cacheHit bool)
	RecordFetchError(source string)
	RecordSignals(symbol string, count int)
	RecordScore(symbol string, score int)
}
