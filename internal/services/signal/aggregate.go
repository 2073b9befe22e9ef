package signal

import "SignalScan/internal/domain/models"

// Aggregate reduces a set of simulated outcomes into summary statistics.
// AvgBarsToA is averaged over outcomes that actually hit target A; an average
// time to an event that never happened is undefined, so misses do not
// contribute. Excursion averages cover all outcomes regardless of hit status.
func Aggregate(outcomes []models.Outcome) models.TimeframeMetrics {
	m := models.TimeframeMetrics{TotalSignals: len(outcomes)}
	if len(outcomes) == 0 {
		return m
	}

	var barsToA int
	for _, o := range outcomes {
		if o.ReachedTargetA {
			m.WinsAtTargetA++
			barsToA += o.BarsToTargetA
		}
		if o.ReachedTargetB {
			m.WinsAtTargetB++
		}
		m.AvgMaxGain += o.MaxGain
		m.AvgMaxDrawdown += o.MaxDrawdown
	}

	n := float64(len(outcomes))
	m.WinRateAtA = 100 * float64(m.WinsAtTargetA) / n
	m.WinRateAtB = 100 * float64(m.WinsAtTargetB) / n
	if m.WinsAtTargetA > 0 {
		m.AvgBarsToA = float64(barsToA) / float64(m.WinsAtTargetA)
	}
	m.AvgMaxGain /= n
	m.AvgMaxDrawdown /= n
	return m
}
