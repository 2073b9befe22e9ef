package di

import (
	"fmt"

	"SignalScan/internal/domain/repository"
	"SignalScan/internal/handler/api"
	icache "SignalScan/internal/service/cache"
	"SignalScan/internal/service/finnhub"
	"SignalScan/internal/service/ratelimit"
	"SignalScan/internal/usecase"
	pkgcache "SignalScan/pkg/cache"
	"SignalScan/pkg/config"
	xlogger "SignalScan/pkg/logger"
	"SignalScan/pkg/metrics"
	"SignalScan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	l, err := xlogger.New(&xlogger.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideLimiter creates the shared provider rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideBarProvider creates the Finnhub candle client.
func ProvideBarProvider(cfg *config.Config, limiter *ratelimit.Limiter) repository.BarProvider {
	return finnhub.NewClient(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.Timeout,
		limiter,
		cfg.Finnhub.RateLimit.Capacity,
		cfg.Finnhub.RateLimit.RefillPerSec,
	)
}

// ProvideSeriesCache creates the series cache for the configured backend.
func ProvideSeriesCache(cfg *config.Config) (repository.SeriesCache, error) {
	if cfg.Cache.TTL <= 0 {
		return nil, nil // caching disabled
	}
	if cfg.Cache.Backend == "redis" {
		store, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			pkgcache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("series cache: %w", err)
		}
		return icache.NewStoreSeriesCache(store, cfg.Cache.TTL), nil
	}
	return icache.NewSeriesCache(cfg.Cache.TTL), nil
}

// ProvideQuoteStream creates the optional live quote stream. Returns nil when
// streaming is disabled.
func ProvideQuoteStream(cfg *config.Config, logger *xlogger.Logger) *finnhub.Stream {
	if !cfg.Finnhub.StreamEnabled {
		return nil
	}
	return finnhub.NewStream(cfg.Finnhub.APIKey, cfg.Finnhub.WebSocketURL, 0, logger)
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideScanner assembles the batch scanner.
func ProvideScanner(
	provider repository.BarProvider,
	cache repository.SeriesCache,
	stream *finnhub.Stream,
	m repository.Metrics,
	logger *xlogger.Logger,
	cfg *config.Config,
) *usecase.Scanner {
	opts := []usecase.ScannerOption{usecase.WithMetrics(m)}
	if cache != nil {
		opts = append(opts, usecase.WithCache(cache))
	}
	if stream != nil {
		opts = append(opts, usecase.WithQuotes(stream))
	}
	return usecase.NewScanner(provider, logger, cfg.Scanner, opts...)
}

// ProvideScanHandler creates the HTTP handler.
func ProvideScanHandler(logger *xlogger.Logger, scanner *usecase.Scanner) *api.ScanHandler {
	return api.NewScanHandler(logger, scanner)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler *api.ScanHandler,
	stream *finnhub.Stream,
) *server.App {
	return server.New(cfg, logger, handler, stream)
}
