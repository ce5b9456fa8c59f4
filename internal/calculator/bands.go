package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Bands is an upper/middle/lower channel.
type Bands struct {
	Upper, Middle, Lower []float64
}

// Bollinger computes SMA(period) plus and minus dev standard deviations.
func Bollinger(closes []float64, period int, dev float64) Bands {
	if period <= 0 || len(closes) < period {
		n := len(closes)
		return Bands{nanSeries(n), nanSeries(n), nanSeries(n)}
	}
	upper, middle, lower := talib.BBands(closes, period, dev, dev, talib.SMA)
	return Bands{
		Upper:  mask(upper, period-1),
		Middle: mask(middle, period-1),
		Lower:  mask(lower, period-1),
	}
}

// Keltner computes an EMA(period) of the typical price with bands atrMult ATR(atrPeriod) away.
func Keltner(highs, lows, closes []float64, period, atrPeriod int, atrMult float64) Bands {
	n := len(closes)
	typical := make([]float64, n)
	for i := range closes {
		typical[i] = (highs[i] + lows[i] + closes[i]) / 3
	}
	middle := EMA(typical, period)
	atr := ATR(highs, lows, closes, atrPeriod)
	b := Bands{Upper: nanSeries(n), Middle: middle, Lower: nanSeries(n)}
	for i := range middle {
		b.Upper[i] = middle[i] + atrMult*atr[i]
		b.Lower[i] = middle[i] - atrMult*atr[i]
	}
	return b
}

// ATR is the Wilder-smoothed average true range.
func ATR(highs, lows, closes []float64, period int) []float64 {
	if period <= 0 || len(closes) <= period {
		return nanSeries(len(closes))
	}
	return mask(talib.Atr(highs, lows, closes, period), period)
}

// BandWidth returns (upper-lower)/middle*100.
func BandWidth(upper, middle, lower float64) float64 {
	if middle == 0 {
		return math.NaN()
	}
	return (upper - lower) / middle * 100
}

// BandPosition returns where price sits between lower (0) and upper (1).
// Breaches fall outside [0,1]. Collapsed bands read 0.5.
func BandPosition(price, upper, lower float64) float64 {
	if upper == lower {
		return 0.5
	}
	return (price - lower) / (upper - lower)
}
