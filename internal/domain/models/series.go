package models

// Bar is one time-indexed OHLCV observation. Timestamp is unix seconds and
// must be strictly increasing within a series. Volume may be absent for
// sources that do not report it.
type Bar struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    *float64
}

// Series is an ordered, gap-tolerant sequence of bars for one instrument at
// one resolution.
type Series struct {
	Symbol     string
	Resolution string
	Bars       []Bar
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// LastClose returns the close of the final bar, or 0 for an empty series.
func (s *Series) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// OscillatorPoint is one oscillator observation aligned to a series bar.
// Value is always within [0,100].
type OscillatorPoint struct {
	Timestamp int64
	Value     float64
}
