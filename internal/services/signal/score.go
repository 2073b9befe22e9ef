package signal

import (
	"math"

	"SignalScan/internal/domain/models"
)

// SampleBreakpoint grants Credit (0-100) once a series produced at least
// MinSignals signals.
type SampleBreakpoint struct {
	MinSignals int     `yaml:"min_signals"`
	Credit     float64 `yaml:"credit"`
}

// ScorePolicy enumerates every tunable of the composite score.
type ScorePolicy struct {
	WinRateWeight    float64            `yaml:"win_rate_weight"`
	RiskRewardWeight float64            `yaml:"risk_reward_weight"`
	SampleWeight     float64            `yaml:"sample_weight"`
	Breakpoints      []SampleBreakpoint `yaml:"sample_breakpoints"`
}

// DefaultScorePolicy mirrors the shipped configuration: 0.5/0.3/0.2 weights
// and full sample credit at ten signals.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		WinRateWeight:    0.5,
		RiskRewardWeight: 0.3,
		SampleWeight:     0.2,
		Breakpoints: []SampleBreakpoint{
			{MinSignals: 10, Credit: 100},
			{MinSignals: 5, Credit: 75},
			{MinSignals: 3, Credit: 50},
			{MinSignals: 1, Credit: 25},
		},
	}
}

// Score maps aggregated metrics to a single 0-100 comparability score.
// Holding the other terms fixed, the score is monotone in win rate; the
// risk/reward term defaults to a neutral 50 when no drawdown was observed.
func Score(m models.TimeframeMetrics, p ScorePolicy) int {
	riskReward := 50.0
	if m.AvgMaxDrawdown > 0 {
		riskReward = math.Min(100, 50*m.AvgMaxGain/m.AvgMaxDrawdown)
	}
	sample := p.sampleCredit(m.TotalSignals)

	raw := p.WinRateWeight*m.WinRateAtA + p.RiskRewardWeight*riskReward + p.SampleWeight*sample
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func (p ScorePolicy) sampleCredit(count int) float64 {
	best := 0.0
	for _, bp := range p.Breakpoints {
		if count >= bp.MinSignals && bp.Credit > best {
			best = bp.Credit
		}
	}
	if best > 100 {
		best = 100
	}
	return best
}
