package models

import "time"

// Signal marks a threshold event at one bar of a series. Entry is the close
// of the triggering bar; Index points back into the series. Immutable once
// created; one signal feeds exactly one outcome.
type Signal struct {
	Timestamp int64
	Entry     float64
	Index     int
}

// Outcome is the simulated forward result of one signal. Never mutated after
// the simulator returns it.
type Outcome struct {
	ReachedTargetA bool
	ReachedTargetB bool
	BarsToTargetA  int
	MaxGain        float64 // max favorable excursion, fractional
	MaxDrawdown    float64 // max adverse excursion, fractional
}

// TimeframeMetrics aggregates all outcomes for one series at one horizon.
// Recomputed wholesale each scan; never updated incrementally.
type TimeframeMetrics struct {
	Resolution      string  `json:"resolution"`
	LookforwardBars int     `json:"lookforwardBars"`
	TotalSignals    int     `json:"totalSignals"`
	WinsAtTargetA   int     `json:"winsAtTargetA"`
	WinsAtTargetB   int     `json:"winsAtTargetB"`
	WinRateAtA      float64 `json:"winRateAtTargetA"` // percent
	WinRateAtB      float64 `json:"winRateAtTargetB"` // percent
	AvgBarsToA      float64 `json:"avgBarsToTargetA"`
	AvgMaxGain      float64 `json:"avgMaxGain"`
	AvgMaxDrawdown  float64 `json:"avgMaxDrawdown"`
	SignalStrength  int     `json:"signalStrength"`
}

// ScanResult is the per-instrument terminal record of one scan. Error is set
// when the instrument failed independently; metrics are zeroed in that case.
type ScanResult struct {
	Symbol            string            `json:"symbol"`
	CurrentPrice      float64           `json:"currentPrice"`
	CurrentOscillator float64           `json:"currentOscillator"`
	InSignalZone      bool              `json:"inSignalZone"`
	ShortTerm         *TimeframeMetrics `json:"shortTerm,omitempty"`
	LongTerm          *TimeframeMetrics `json:"longTerm,omitempty"`
	CombinedScore     int               `json:"combinedScore"`
	Error             string            `json:"error,omitempty"`
}

// ScanResponse carries the ranked results plus the effective configuration so
// callers can see why an instrument was included or excluded.
type ScanResponse struct {
	Timestamp time.Time    `json:"timestamp"`
	Config    ScanRequest  `json:"config"`
	Results   []ScanResult `json:"results"`
}
