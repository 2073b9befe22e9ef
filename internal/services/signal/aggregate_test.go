package signal

import (
	"math"
	"testing"

	"SignalScan/internal/domain/models"
)

func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(nil)
	if m.TotalSignals != 0 || m.WinRateAtA != 0 || m.AvgBarsToA != 0 {
		t.Fatalf("empty aggregate must be zeroed: %+v", m)
	}
}

func TestAggregateTimeToTargetOverHitsOnly(t *testing.T) {
	outcomes := []models.Outcome{
		{ReachedTargetA: true, BarsToTargetA: 2, MaxGain: 0.02, MaxDrawdown: 0.01},
		{ReachedTargetA: true, BarsToTargetA: 6, MaxGain: 0.03, MaxDrawdown: 0.02},
		{ReachedTargetA: false, MaxGain: 0.005, MaxDrawdown: 0.04},
	}
	m := Aggregate(outcomes)

	if m.TotalSignals != 3 || m.WinsAtTargetA != 2 {
		t.Fatalf("unexpected counts: %+v", m)
	}
	if math.Abs(m.WinRateAtA-100.0*2/3) > 1e-9 {
		t.Fatalf("unexpected win rate %v", m.WinRateAtA)
	}
	// the miss contributes nothing to the time average
	if math.Abs(m.AvgBarsToA-4) > 1e-9 {
		t.Fatalf("avg bars to A must average hits only, got %v", m.AvgBarsToA)
	}
	// excursions average over all outcomes, misses included
	if math.Abs(m.AvgMaxGain-(0.02+0.03+0.005)/3) > 1e-12 {
		t.Fatalf("unexpected avgMaxGain %v", m.AvgMaxGain)
	}
	if math.Abs(m.AvgMaxDrawdown-(0.01+0.02+0.04)/3) > 1e-12 {
		t.Fatalf("unexpected avgMaxDrawdown %v", m.AvgMaxDrawdown)
	}
}

func TestAggregateZeroHitsTimeIsZero(t *testing.T) {
	outcomes := []models.Outcome{
		{MaxGain: 0.001, MaxDrawdown: 0.03},
		{MaxGain: 0.002, MaxDrawdown: 0.02},
	}
	m := Aggregate(outcomes)
	if m.AvgBarsToA != 0 {
		t.Fatalf("zero hits must give 0, not NaN: %v", m.AvgBarsToA)
	}
}
