package signal

import "SignalScan/internal/domain/models"

// Simulate replays up to lookforward bars after the signal and reports whether
// the fractional gain targets were reached, plus the best and worst
// excursions. A series that ends before the window closes yields a valid
// shorter-horizon outcome; callers that need full windows must pre-filter.
func Simulate(s *models.Series, sig models.Signal, lookforward int, targetA, targetB float64) models.Outcome {
	out := models.Outcome{}
	entry := sig.Entry
	if entry <= 0 {
		return out
	}
	levelA := entry * (1 + targetA)
	levelB := entry * (1 + targetB)

	for j := 1; j <= lookforward; j++ {
		idx := sig.Index + j
		if idx >= len(s.Bars) {
			break
		}
		bar := s.Bars[idx]

		if gain := (bar.High - entry) / entry; gain > out.MaxGain {
			out.MaxGain = gain
		}
		if dd := (entry - bar.Low) / entry; dd > out.MaxDrawdown {
			out.MaxDrawdown = dd
		}

		if !out.ReachedTargetA && bar.High >= levelA {
			out.ReachedTargetA = true
			out.BarsToTargetA = j
		}
		if !out.ReachedTargetB && bar.High >= levelB {
			out.ReachedTargetB = true
		}
		if out.ReachedTargetA && out.ReachedTargetB {
			break
		}
	}
	return out
}
