package signal

import "SignalScan/internal/domain/models"

// DetectMode selects the threshold policy.
type DetectMode string

const (
	// ModeEdge emits a signal only on a strict crossing into the zone.
	// Consecutive in-zone points do not re-trigger.
	ModeEdge DetectMode = "edge"
	// ModeSustained emits at any in-zone point but suppresses candidates
	// within SuppressBars of the previously emitted signal's index.
	ModeSustained DetectMode = "sustained"
)

// Direction selects which boundary the detector watches.
type Direction string

const (
	DirOversold   Direction = "oversold"
	DirOverbought Direction = "overbought"
)

// DetectConfig parameterizes one detector run.
type DetectConfig struct {
	Mode         DetectMode
	Direction    Direction
	Oversold     float64
	Overbought   float64
	SuppressBars int // sustained mode only, normally the lookforward window
}

// Detect scans oscillator points and emits signals where the configured
// boundary condition holds. Points align to series bars starting at index
// period, so signal indices refer back into the originating series.
func Detect(s *models.Series, points []models.OscillatorPoint, period int, cfg DetectConfig) []models.Signal {
	if len(points) == 0 {
		return nil
	}

	inZone := func(v float64) bool {
		if cfg.Direction == DirOverbought {
			return v > cfg.Overbought
		}
		return v < cfg.Oversold
	}

	var signals []models.Signal
	lastIdx := -1 << 30
	for i, p := range points {
		barIdx := period + i
		switch cfg.Mode {
		case ModeSustained:
			if !inZone(p.Value) {
				continue
			}
			if barIdx-lastIdx < cfg.SuppressBars {
				continue
			}
		default: // edge
			if !inZone(p.Value) {
				continue
			}
			// require the previous point to be outside the zone; the very
			// first point has no predecessor and counts as a crossing
			if i > 0 && inZone(points[i-1].Value) {
				continue
			}
		}
		signals = append(signals, models.Signal{
			Timestamp: p.Timestamp,
			Entry:     s.Bars[barIdx].Close,
			Index:     barIdx,
		})
		lastIdx = barIdx
	}
	return signals
}
