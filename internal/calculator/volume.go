package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// VolumeRatio divides each volume by its SMA(period). A zero average reads 1.
func VolumeRatio(volumes []float64, period int) (avg, ratio []float64) {
	avg = SMA(volumes, period)
	ratio = nanSeries(len(volumes))
	for i, v := range volumes {
		switch {
		case math.IsNaN(avg[i]):
		case avg[i] == 0:
			ratio[i] = 1
		default:
			ratio[i] = v / avg[i]
		}
	}
	return avg, ratio
}

// OBV is the running on-balance volume, seeded with the first volume.
func OBV(closes, volumes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	return talib.Obv(closes, volumes)
}

// CMF is Chaikin Money Flow over period. A candle with no range contributes no flow
// and a window with no volume reads 0.
func CMF(highs, lows, closes, volumes []float64, period int) []float64 {
	n := len(closes)
	out := nanSeries(n)
	if period <= 0 || n < period {
		return out
	}
	flow := make([]float64, n)
	for i := range closes {
		if rng := highs[i] - lows[i]; rng != 0 {
			mult := ((closes[i] - lows[i]) - (highs[i] - closes[i])) / rng
			flow[i] = mult * volumes[i]
		}
	}
	var flowSum, volSum float64
	for i := 0; i < n; i++ {
		flowSum += flow[i]
		volSum += volumes[i]
		if i >= period {
			flowSum -= flow[i-period]
			volSum -= volumes[i-period]
		}
		if i < period-1 {
			continue
		}
		if volSum == 0 {
			out[i] = 0
			continue
		}
		out[i] = flowSum / volSum
	}
	return out
}
