package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"SignalScan/internal/domain/models"
	domrepo "SignalScan/internal/domain/repository"
	"SignalScan/pkg/config"
	xlogger "SignalScan/pkg/logger"
)

type fakeProvider struct {
	mu    sync.Mutex
	bars  map[string][]models.Bar
	fail  map[string]error
	calls int
}

func (f *fakeProvider) Candles(_ context.Context, symbol string, resolution domrepo.Resolution, _, _ time.Time) ([]models.Bar, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := f.fail[symbol]; err != nil {
		return nil, err
	}
	if bars, ok := f.bars[symbol+"@"+string(resolution)]; ok {
		return bars, nil
	}
	return f.bars[symbol], nil
}

func (f *fakeProvider) Source() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	mu   sync.Mutex
	m    map[string]*models.Series
	hits int
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string]*models.Series{}} }

func (c *fakeCache) Get(symbol string, resolution domrepo.Resolution, source string) (*models.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[source+":"+string(resolution)+":"+symbol]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *fakeCache) Put(symbol string, resolution domrepo.Resolution, source string, s *models.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[source+":"+string(resolution)+":"+symbol] = s
}

// winningBars builds a 300-bar series: a 96-bar climb at +0.4% per bar, then
// three cycles of an 8-bar drop at -0.8% per bar followed by a 60-bar climb.
// With period 14 the oscillator crosses below 50 exactly once per drop, and
// every entry recovers 1.5% within 10 bars.
func winningBars() []models.Bar {
	bars := make([]models.Bar, 0, 300)
	price := 100.0
	ts := int64(1_700_000_000)
	push := func(factor float64) {
		price *= factor
		bars = append(bars, models.Bar{Timestamp: ts, Open: price, High: price, Low: price, Close: price})
		ts += 3600
	}
	for i := 0; i < 96; i++ {
		push(1.004)
	}
	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 8; i++ {
			push(0.992)
		}
		for i := 0; i < 60; i++ {
			push(1.004)
		}
	}
	return bars
}

func testScannerConfig() config.ScannerConfig {
	return config.ScannerConfig{
		BatchSize:   3,
		BatchDelay:  100 * time.Millisecond,
		WeightShort: 0.6,
		ShortTerm:   config.HorizonConfig{Resolution: "60", RangeDays: 30, LookforwardBars: 14},
		LongTerm:    config.HorizonConfig{Resolution: "D", RangeDays: 365, LookforwardBars: 10},
	}
}

func baseRequest(instruments ...string) models.ScanRequest {
	return models.ScanRequest{
		Instruments:     instruments,
		Period:          14,
		Oversold:        50,
		Overbought:      70,
		Targets:         []float64{0.015, 0.02},
		LookforwardBars: 20,
		Mode:            "edge",
		Direction:       "oversold",
		Horizon:         "single",
	}
}

func noDelay(context.Context, time.Duration) {}

func TestScanPipeline(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{"AAPL": winningBars()}}
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	resp, err := s.Scan(context.Background(), baseRequest("AAPL"))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}

	r := resp.Results[0]
	if r.Error != "" {
		t.Fatalf("unexpected instrument error: %s", r.Error)
	}
	if r.ShortTerm == nil {
		t.Fatal("expected short-term metrics")
	}
	m := r.ShortTerm
	if m.TotalSignals != 3 {
		t.Fatalf("expected 3 signals, got %d", m.TotalSignals)
	}
	if m.WinsAtTargetA != 3 || m.WinsAtTargetB != 3 {
		t.Fatalf("expected 3 wins at both targets, got A=%d B=%d", m.WinsAtTargetA, m.WinsAtTargetB)
	}
	if m.WinRateAtA != 100 {
		t.Fatalf("expected 100%% win rate, got %v", m.WinRateAtA)
	}
	if m.AvgBarsToA != 10 {
		t.Fatalf("expected avg 10 bars to target, got %v", m.AvgBarsToA)
	}
	if m.Resolution != "60" {
		t.Fatalf("expected resolution 60, got %s", m.Resolution)
	}
	// 0.5*100 win rate + 0.3*62.9 risk/reward + 0.2*50 sample credit
	if m.SignalStrength != 79 {
		t.Fatalf("expected strength 79, got %d", m.SignalStrength)
	}
	if r.CombinedScore != 79 {
		t.Fatalf("single-horizon combined score should equal short strength, got %d", r.CombinedScore)
	}
	bars := provider.bars["AAPL"]
	if want := bars[len(bars)-1].Close; r.CurrentPrice != want {
		t.Fatalf("expected current price %v, got %v", want, r.CurrentPrice)
	}
	if r.InSignalZone {
		t.Fatal("series ends on a climb, should not be in the oversold zone")
	}
}

func TestScanDualHorizon(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"AAPL@60": winningBars(),
		"AAPL@D":  winningBars(),
	}}
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	req := baseRequest("AAPL")
	req.Horizon = "dual"
	resp, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	r := resp.Results[0]
	if r.Error != "" {
		t.Fatalf("unexpected instrument error: %s", r.Error)
	}
	if r.LongTerm == nil {
		t.Fatal("expected long-term metrics in dual horizon")
	}
	if r.CombinedScore != 79 {
		t.Fatalf("identical horizons should combine to the shared strength, got %d", r.CombinedScore)
	}
}

func TestScanDualHorizonIncompleteLongSeries(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"AAPL@60": winningBars(),
		"AAPL@D":  {},
	}}
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	req := baseRequest("AAPL")
	req.Horizon = "dual"
	resp, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	r := resp.Results[0]
	if r.Error == "" {
		t.Fatal("an empty long-horizon series must mark the instrument errored")
	}
}

func TestScanBatching(t *testing.T) {
	bars := winningBars()
	provider := &fakeProvider{bars: map[string][]models.Bar{}}
	symbols := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		sym := fmt.Sprintf("SYM%d", i)
		provider.bars[sym] = bars
		symbols = append(symbols, sym)
	}

	var mu sync.Mutex
	delays := 0
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(),
		WithDelayFunc(func(context.Context, time.Duration) {
			mu.Lock()
			delays++
			mu.Unlock()
		}))

	resp, err := s.Scan(context.Background(), baseRequest(symbols...))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(resp.Results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(resp.Results))
	}
	// 7 instruments at batch size 3 means 3 batches and 2 inter-batch delays.
	if delays != 2 {
		t.Fatalf("expected 2 delays, got %d", delays)
	}
	if provider.callCount() != 7 {
		t.Fatalf("expected 7 provider calls, got %d", provider.callCount())
	}
}

func TestScanFailureIsolation(t *testing.T) {
	bars := winningBars()
	provider := &fakeProvider{
		bars: map[string][]models.Bar{"AAPL": bars, "TSLA": bars},
		fail: map[string]error{"MSFT": errors.New("upstream 502")},
	}
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	resp, err := s.Scan(context.Background(), baseRequest("MSFT", "AAPL", "TSLA"))
	if err != nil {
		t.Fatalf("one failing instrument must not abort the scan: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	last := resp.Results[2]
	if last.Symbol != "MSFT" || last.Error == "" {
		t.Fatalf("errored instrument must rank last, got %+v", last)
	}
	for _, r := range resp.Results[:2] {
		if r.Error != "" {
			t.Fatalf("healthy instrument %s carries error %q", r.Symbol, r.Error)
		}
	}
	// equal scores tie-break on symbol
	if resp.Results[0].Symbol != "AAPL" || resp.Results[1].Symbol != "TSLA" {
		t.Fatalf("unexpected order: %s, %s", resp.Results[0].Symbol, resp.Results[1].Symbol)
	}
}

func TestScanInvalidRequest(t *testing.T) {
	s := NewScanner(&fakeProvider{}, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	cases := []struct {
		name string
		mod  func(*models.ScanRequest)
	}{
		{"no instruments", func(r *models.ScanRequest) { r.Instruments = nil }},
		{"zero period", func(r *models.ScanRequest) { r.Period = 0 }},
		{"inverted thresholds", func(r *models.ScanRequest) { r.Oversold = 80; r.Overbought = 20 }},
		{"no targets", func(r *models.ScanRequest) { r.Targets = nil }},
		{"negative target", func(r *models.ScanRequest) { r.Targets = []float64{-0.01} }},
		{"negative lookforward", func(r *models.ScanRequest) { r.LookforwardBars = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest("AAPL")
			tc.mod(&req)
			if _, err := s.Scan(context.Background(), req); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestScanUsesCache(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{"AAPL": winningBars()}}
	cache := newFakeCache()
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(),
		WithCache(cache), WithDelayFunc(noDelay))

	req := baseRequest("AAPL")
	if _, err := s.Scan(context.Background(), req); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if _, err := s.Scan(context.Background(), req); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if provider.callCount() != 1 {
		t.Fatalf("second scan should be served from cache, got %d provider calls", provider.callCount())
	}
	if cache.hits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", cache.hits)
	}
}

func TestScanInsufficientDataNotInZone(t *testing.T) {
	stub := []models.Bar{
		{Timestamp: 1_700_000_000, Open: 100, High: 100, Low: 100, Close: 100},
		{Timestamp: 1_700_003_600, Open: 100, High: 100, Low: 100, Close: 100},
	}
	provider := &fakeProvider{bars: map[string][]models.Bar{"THIN": stub}}
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	resp, err := s.Scan(context.Background(), baseRequest("THIN"))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	r := resp.Results[0]
	if r.Error != "" {
		t.Fatalf("a short series is valid empty output, not a failure: %s", r.Error)
	}
	if r.InSignalZone {
		t.Fatal("an instrument with no oscillator points must not read as in the signal zone")
	}
	if r.ShortTerm.TotalSignals != 0 || r.CurrentOscillator != 0 {
		t.Fatalf("expected zeroed metrics, got %+v", r)
	}

	req := baseRequest("THIN")
	req.InZoneOnly = true
	resp, err = s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("inZoneOnly must drop instruments with no oscillator, got %d results", len(resp.Results))
	}
}

func TestScanPerHorizonLookahead(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{"AAPL": winningBars()}}
	cfg := testScannerConfig()
	// five bars are not enough to recover the 1.5% target (it takes ten)
	cfg.ShortTerm.LookforwardBars = 5
	s := NewScanner(provider, xlogger.Nop(), cfg, WithDelayFunc(noDelay))

	req := baseRequest("AAPL")
	req.LookforwardBars = 0
	resp, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	m := resp.Results[0].ShortTerm
	if m.LookforwardBars != 5 {
		t.Fatalf("expected the horizon's configured lookahead 5, got %d", m.LookforwardBars)
	}
	if m.TotalSignals != 3 || m.WinsAtTargetA != 0 {
		t.Fatalf("5-bar lookahead cannot reach the target: %+v", m)
	}

	// an explicit request value overrides both horizons
	req.LookforwardBars = 20
	resp, err = s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	m = resp.Results[0].ShortTerm
	if m.LookforwardBars != 20 || m.WinsAtTargetA != 3 {
		t.Fatalf("request lookahead must win over the horizon default: %+v", m)
	}
}

func TestScanFilters(t *testing.T) {
	flat := make([]models.Bar, 0, 100)
	ts := int64(1_700_000_000)
	for i := 0; i < 100; i++ {
		flat = append(flat, models.Bar{Timestamp: ts, Open: 100, High: 100, Low: 100, Close: 100})
		ts += 3600
	}
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"AAPL": winningBars(),
		"FLAT": flat,
	}}
	s := NewScanner(provider, xlogger.Nop(), testScannerConfig(), WithDelayFunc(noDelay))

	req := baseRequest("AAPL", "FLAT")
	req.MinSignals = 1
	resp, err := s.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Symbol != "AAPL" {
		t.Fatalf("minSignals filter should drop the flat series, got %+v", resp.Results)
	}
}
