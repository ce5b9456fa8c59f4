package calculator

import "math"

// highestLowest returns the rolling max of highs and min of lows over period.
func highestLowest(highs, lows []float64, period int) (hh, ll []float64) {
	n := len(highs)
	hh, ll = nanSeries(n), nanSeries(n)
	for i := period - 1; i < n; i++ {
		h, l := math.Inf(-1), math.Inf(1)
		for j := i - period + 1; j <= i; j++ {
			h = math.Max(h, highs[j])
			l = math.Min(l, lows[j])
		}
		hh[i], ll[i] = h, l
	}
	return hh, ll
}

// Stochastic returns the fast %K over period and %D as its smoothD-period SMA.
// A flat window reads 50.
func Stochastic(highs, lows, closes []float64, period, smoothD int) (k, d []float64) {
	n := len(closes)
	k = nanSeries(n)
	if period <= 0 || n < period {
		return k, nanSeries(n)
	}
	hh, ll := highestLowest(highs, lows, period)
	for i := period - 1; i < n; i++ {
		if hh[i] == ll[i] {
			k[i] = 50
			continue
		}
		k[i] = 100 * (closes[i] - ll[i]) / (hh[i] - ll[i])
	}
	d = nanSeries(n)
	tail := rollingMean(k[period-1:], smoothD)
	copy(d[period-1:], tail)
	return k, d
}

// WilliamsR returns %R in [-100, 0]. A flat window reads -50.
func WilliamsR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSeries(n)
	if period <= 0 || n < period {
		return out
	}
	hh, ll := highestLowest(highs, lows, period)
	for i := period - 1; i < n; i++ {
		if hh[i] == ll[i] {
			out[i] = -50
			continue
		}
		out[i] = -100 * (hh[i] - closes[i]) / (hh[i] - ll[i])
	}
	return out
}
