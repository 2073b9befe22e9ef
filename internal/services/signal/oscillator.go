package signal

import "SignalScan/internal/domain/models"

// Oscillator computes the Wilder-smoothed relative strength oscillator over a
// closing-price series. Point i aligns to series bar period+i; the first
// period bars produce no point.
//
// The recurrence avgGain = (avgGain*(period-1) + gain) / period is the defined
// semantics (an exponential average, not a re-windowed mean); rounding
// differences compound over long series, so the seed and update must not be
// restructured.
func Oscillator(s *models.Series, period int) []models.OscillatorPoint {
	if period <= 0 || s == nil || len(s.Bars) < period+1 {
		// insufficient data is a valid empty result, not an error
		return nil
	}

	bars := s.Bars
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	points := make([]models.OscillatorPoint, 0, len(bars)-period)
	points = append(points, models.OscillatorPoint{
		Timestamp: bars[period].Timestamp,
		Value:     oscillatorValue(avgGain, avgLoss),
	})

	for i := period + 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		points = append(points, models.OscillatorPoint{
			Timestamp: bars[i].Timestamp,
			Value:     oscillatorValue(avgGain, avgLoss),
		})
	}
	return points
}

func oscillatorValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}
