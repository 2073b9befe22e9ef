package signal

import (
	"math"
	"testing"

	"SignalScan/internal/domain/models"
)

func barsOHLC(rows [][4]float64) *models.Series {
	bars := make([]models.Bar, len(rows))
	for i, r := range rows {
		bars[i] = models.Bar{
			Timestamp: int64(1700000000 + i*60),
			Open:      r[0],
			High:      r[1],
			Low:       r[2],
			Close:     r[3],
		}
	}
	return &models.Series{Symbol: "TEST", Resolution: "D", Bars: bars}
}

func TestSimulateTargetsAndExcursions(t *testing.T) {
	// entry at bar 0 close = 100; target A 1.5% (101.5), B 2% (102)
	s := barsOHLC([][4]float64{
		{100, 100, 100, 100},
		{100, 101, 99, 100.5},  // neither target; maxGain 1%, dd 1%
		{100, 101.6, 98, 101},  // hits A at j=2; dd 2%
		{101, 102.5, 100, 102}, // hits B at j=3
		{102, 110, 90, 100},    // after both targets hit the window is closed
	})
	sig := models.Signal{Timestamp: s.Bars[0].Timestamp, Entry: 100, Index: 0}
	out := Simulate(s, sig, 10, 0.015, 0.02)

	if !out.ReachedTargetA || out.BarsToTargetA != 2 {
		t.Fatalf("expected target A at bar 2, got hit=%v bars=%d", out.ReachedTargetA, out.BarsToTargetA)
	}
	if !out.ReachedTargetB {
		t.Fatalf("expected target B hit")
	}
	if math.Abs(out.MaxGain-0.025) > 1e-12 {
		t.Fatalf("maxGain should stop at window close: got %v", out.MaxGain)
	}
	if math.Abs(out.MaxDrawdown-0.02) > 1e-12 {
		t.Fatalf("unexpected maxDrawdown %v", out.MaxDrawdown)
	}
}

func TestSimulateTruncatedHorizonIsValid(t *testing.T) {
	s := barsOHLC([][4]float64{
		{100, 100, 100, 100},
		{100, 100.5, 99.5, 100},
	})
	sig := models.Signal{Entry: 100, Index: 0}
	out := Simulate(s, sig, 50, 0.015, 0.02)
	if out.ReachedTargetA || out.ReachedTargetB {
		t.Fatalf("no target reachable in truncated window")
	}
	if math.Abs(out.MaxGain-0.005) > 1e-12 || math.Abs(out.MaxDrawdown-0.005) > 1e-12 {
		t.Fatalf("excursions must reflect the bars actually available: %+v", out)
	}
}

func TestSimulateNoFutureBars(t *testing.T) {
	s := barsOHLC([][4]float64{{100, 100, 100, 100}})
	out := Simulate(s, models.Signal{Entry: 100, Index: 0}, 10, 0.015, 0.02)
	if out.ReachedTargetA || out.MaxGain != 0 || out.MaxDrawdown != 0 {
		t.Fatalf("signal at the last bar must yield a zero outcome, got %+v", out)
	}
}
