package signal

import (
	"errors"
	"math"
)

// ErrIncompleteData reports that one of the horizons had no bars to score.
// The caller decides whether to substitute a neutral score or mark the
// instrument errored; the combiner never defaults silently.
var ErrIncompleteData = errors.New("signal: incomplete data for dual-horizon score")

// Combine fuses independently computed horizon scores into one composite with
// a fixed short-term weight. shortBars/longBars are the bar counts backing
// each score.
func Combine(shortScore, longScore int, shortBars, longBars int, weightShort float64) (int, error) {
	if shortBars == 0 || longBars == 0 {
		return 0, ErrIncompleteData
	}
	combined := weightShort*float64(shortScore) + (1-weightShort)*float64(longScore)
	return int(math.Round(combined)), nil
}
