package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"SignalScan/internal/domain/models"
	domrepo "SignalScan/internal/domain/repository"
	sig "SignalScan/internal/services/signal"
	"SignalScan/pkg/config"
	xlogger "SignalScan/pkg/logger"
)

// ErrInvalidConfig is returned before any fetching begins when the scan
// request parameters are unusable. The whole invocation fails; per-instrument
// errors never use this.
var ErrInvalidConfig = errors.New("scan: invalid configuration")

// Scanner orchestrates the full pipeline across a universe of instruments:
// fetch, oscillator, detection, outcome simulation, aggregation, scoring and
// ranking. Instruments are fetched in fixed-size concurrent batches with an
// enforced delay between batches as admission control against the data
// source's rate limit.
type Scanner struct {
	provider domrepo.BarProvider
	cache    domrepo.SeriesCache
	quotes   domrepo.QuoteSource
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
	cfg      config.ScannerConfig
	policy   sig.ScorePolicy

	now   func() time.Time
	delay func(ctx context.Context, d time.Duration)
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithCache attaches a series cache in front of the provider.
func WithCache(c domrepo.SeriesCache) ScannerOption {
	return func(s *Scanner) { s.cache = c }
}

// WithQuotes attaches a live quote source used for current-price display.
func WithQuotes(q domrepo.QuoteSource) ScannerOption {
	return func(s *Scanner) { s.quotes = q }
}

// WithMetrics attaches an observability recorder.
func WithMetrics(m domrepo.Metrics) ScannerOption {
	return func(s *Scanner) { s.metrics = m }
}

// WithClock overrides the scanner's clock.
func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) { s.now = now }
}

// WithDelayFunc overrides the inter-batch delay implementation.
func WithDelayFunc(fn func(ctx context.Context, d time.Duration)) ScannerOption {
	return func(s *Scanner) { s.delay = fn }
}

// NewScanner creates a Scanner over the given provider.
func NewScanner(provider domrepo.BarProvider, logger *xlogger.Logger, cfg config.ScannerConfig, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		provider: provider,
		logger:   logger,
		cfg:      cfg,
		policy:   scorePolicyFromConfig(cfg),
		now:      time.Now,
		delay: func(ctx context.Context, d time.Duration) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func scorePolicyFromConfig(cfg config.ScannerConfig) sig.ScorePolicy {
	p := sig.DefaultScorePolicy()
	if cfg.Score.WinRateWeight > 0 || cfg.Score.RiskRewardWeight > 0 || cfg.Score.SampleWeight > 0 {
		p.WinRateWeight = cfg.Score.WinRateWeight
		p.RiskRewardWeight = cfg.Score.RiskRewardWeight
		p.SampleWeight = cfg.Score.SampleWeight
	}
	if len(cfg.Score.Breakpoints) > 0 {
		p.Breakpoints = p.Breakpoints[:0]
		for _, bp := range cfg.Score.Breakpoints {
			p.Breakpoints = append(p.Breakpoints, sig.SampleBreakpoint{MinSignals: bp.MinSignals, Credit: bp.Credit})
		}
	}
	return p
}

// Scan runs the pipeline for every requested instrument and returns the
// ranked, filtered result set. A per-instrument failure yields an errored
// result; it never aborts the remaining instruments.
func (s *Scanner) Scan(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := s.now()
	results := make([]models.ScanResult, 0, len(req.Instruments))

	for batchStart := 0; batchStart < len(req.Instruments); batchStart += s.cfg.BatchSize {
		if batchStart > 0 && s.cfg.BatchDelay > 0 {
			s.delay(ctx, s.cfg.BatchDelay)
		}

		end := batchStart + s.cfg.BatchSize
		if end > len(req.Instruments) {
			end = len(req.Instruments)
		}
		batch := req.Instruments[batchStart:end]

		batchResults := make([]models.ScanResult, len(batch))
		var wg sync.WaitGroup
		for i, symbol := range batch {
			wg.Add(1)
			go func(i int, symbol string) {
				defer wg.Done()
				batchResults[i] = s.scanOne(ctx, symbol, req)
			}(i, symbol)
		}
		wg.Wait()
		results = append(results, batchResults...)
	}

	sortResults(results)
	results = filterResults(results, req)

	if s.metrics != nil {
		s.metrics.RecordScan(req.Horizon, len(req.Instruments), s.now().Sub(start).Seconds())
	}
	s.logger.Info("scan complete",
		xlogger.Int("instruments", len(req.Instruments)),
		xlogger.Int("results", len(results)),
		xlogger.String("horizon", req.Horizon),
	)

	return &models.ScanResponse{
		Timestamp: s.now(),
		Config:    req,
		Results:   results,
	}, nil
}

func validateRequest(req models.ScanRequest) error {
	switch {
	case len(req.Instruments) == 0:
		return fmt.Errorf("%w: instruments must not be empty", ErrInvalidConfig)
	case req.Period <= 0:
		return fmt.Errorf("%w: period must be positive", ErrInvalidConfig)
	case req.Oversold <= 0 || req.Overbought >= 100 || req.Oversold >= req.Overbought:
		return fmt.Errorf("%w: thresholds must satisfy 0 < oversold < overbought < 100", ErrInvalidConfig)
	case len(req.Targets) == 0:
		return fmt.Errorf("%w: at least one gain target is required", ErrInvalidConfig)
	case req.LookforwardBars < 0:
		return fmt.Errorf("%w: lookforwardBars must not be negative", ErrInvalidConfig)
	}
	for _, t := range req.Targets {
		if t <= 0 {
			return fmt.Errorf("%w: targets must be positive fractional gains", ErrInvalidConfig)
		}
	}
	return nil
}

// scanOne runs the single-instrument pipeline. Failures are converted into an
// errored result with zeroed metrics.
func (s *Scanner) scanOne(ctx context.Context, symbol string, req models.ScanRequest) models.ScanResult {
	res := models.ScanResult{Symbol: symbol}

	shortSeries, err := s.fetchSeries(ctx, symbol, s.cfg.ShortTerm)
	if err != nil {
		s.logger.Warn("fetch failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		res.Error = err.Error()
		return res
	}

	shortMetrics, oscNow, hasOsc := s.evaluate(shortSeries, req, s.cfg.ShortTerm)
	res.ShortTerm = &shortMetrics
	res.CurrentOscillator = oscNow
	res.CurrentPrice = shortSeries.LastClose()
	// no oscillator means no zone; the zero oscNow is a placeholder, not an
	// oversold reading
	res.InSignalZone = hasOsc && inZone(oscNow, req)

	if s.quotes != nil {
		if p, ok := s.quotes.LastPrice(symbol); ok {
			res.CurrentPrice = p
		}
	}

	if req.Horizon == "dual" {
		longSeries, err := s.fetchSeries(ctx, symbol, s.cfg.LongTerm)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		longMetrics, _, _ := s.evaluate(longSeries, req, s.cfg.LongTerm)
		res.LongTerm = &longMetrics

		combined, err := sig.Combine(
			shortMetrics.SignalStrength, longMetrics.SignalStrength,
			shortSeries.Len(), longSeries.Len(),
			s.cfg.WeightShort,
		)
		if err != nil {
			// incomplete horizon: mark errored rather than defaulting
			res.Error = err.Error()
			return res
		}
		res.CombinedScore = combined
	} else {
		res.CombinedScore = shortMetrics.SignalStrength
	}

	if s.metrics != nil {
		s.metrics.RecordSignals(symbol, shortMetrics.TotalSignals)
		s.metrics.RecordScore(symbol, res.CombinedScore)
	}
	return res
}

func (s *Scanner) fetchSeries(ctx context.Context, symbol string, h config.HorizonConfig) (*models.Series, error) {
	resolution := domrepo.NormalizeResolution(h.Resolution)

	if s.cache != nil {
		if cached, ok := s.cache.Get(symbol, resolution, s.provider.Source()); ok {
			if s.metrics != nil {
				s.metrics.RecordFetch(s.provider.Source(), true)
			}
			return cached, nil
		}
	}

	to := s.now()
	from := to.AddDate(0, 0, -h.RangeDays)
	bars, err := s.provider.Candles(ctx, symbol, resolution, from, to)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFetchError(s.provider.Source())
		}
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if s.metrics != nil {
		s.metrics.RecordFetch(s.provider.Source(), false)
	}

	// range_days counts calendar days; a third of the session-bar estimate is
	// a loose floor that still catches thin listings and half-empty ranges
	if expect := h.RangeDays * domrepo.BarsPerDay(resolution); len(bars) < expect/3 {
		s.logger.Debug("sparse series",
			xlogger.String("symbol", symbol),
			xlogger.String("resolution", string(resolution)),
			xlogger.Int("bars", len(bars)),
			xlogger.Int("expected", expect),
		)
	}

	series := &models.Series{Symbol: symbol, Resolution: string(resolution), Bars: bars}
	if s.cache != nil {
		s.cache.Put(symbol, resolution, s.provider.Source(), series)
	}
	return series, nil
}

// evaluate runs oscillator through scoring for one series/horizon. An
// oscillator too short to produce points yields zeroed metrics, which is
// valid output, not a failure; the third return reports whether any points
// exist at all.
func (s *Scanner) evaluate(series *models.Series, req models.ScanRequest, h config.HorizonConfig) (models.TimeframeMetrics, float64, bool) {
	points := sig.Oscillator(series, req.Period)

	oscNow := 0.0
	if len(points) > 0 {
		oscNow = points[len(points)-1].Value
	}

	targetA := req.Targets[0]
	targetB := targetA
	if len(req.Targets) > 1 {
		targetB = req.Targets[1]
	}

	// each horizon carries its own lookahead; the request overrides both
	lookforward := h.LookforwardBars
	if req.LookforwardBars > 0 {
		lookforward = req.LookforwardBars
	}

	signals := sig.Detect(series, points, req.Period, sig.DetectConfig{
		Mode:         sig.DetectMode(req.Mode),
		Direction:    sig.Direction(req.Direction),
		Oversold:     req.Oversold,
		Overbought:   req.Overbought,
		SuppressBars: lookforward,
	})

	outcomes := make([]models.Outcome, 0, len(signals))
	for _, sg := range signals {
		outcomes = append(outcomes, sig.Simulate(series, sg, lookforward, targetA, targetB))
	}

	m := sig.Aggregate(outcomes)
	m.Resolution = string(domrepo.NormalizeResolution(h.Resolution))
	m.LookforwardBars = lookforward
	m.SignalStrength = sig.Score(m, s.policy)
	return m, oscNow, len(points) > 0
}

func inZone(osc float64, req models.ScanRequest) bool {
	if req.Direction == "overbought" {
		return osc > req.Overbought
	}
	return osc < req.Oversold
}

// sortResults orders by descending combined score with errored results last
// regardless of score. Ties break on symbol for a stable ranking.
func sortResults(results []models.ScanResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.Error == "") != (b.Error == "") {
			return a.Error == ""
		}
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		return a.Symbol < b.Symbol
	})
}

// filterResults is a pure post-filter over the sorted list; stored results
// are never mutated.
func filterResults(results []models.ScanResult, req models.ScanRequest) []models.ScanResult {
	if req.MinWinRate <= 0 && req.MinSignals <= 0 && !req.InZoneOnly {
		return results
	}
	kept := make([]models.ScanResult, 0, len(results))
	for _, r := range results {
		if r.Error == "" {
			if req.InZoneOnly && !r.InSignalZone {
				continue
			}
			if r.ShortTerm != nil {
				if req.MinWinRate > 0 && r.ShortTerm.WinRateAtA < req.MinWinRate {
					continue
				}
				if req.MinSignals > 0 && r.ShortTerm.TotalSignals < req.MinSignals {
					continue
				}
			}
		}
		kept = append(kept, r)
	}
	return kept
}
