package calculator

import (
	"math"

	"MarketConfluence/internal/model"

	"github.com/markcheno/go-talib"
)

// columns is the series split into per-field slices, the shape talib expects.
type columns struct {
	open, high, low, close, volume []float64
}

func extractColumns(candles []model.Candle) columns {
	n := len(candles)
	c := columns{
		open:   make([]float64, n),
		high:   make([]float64, n),
		low:    make([]float64, n),
		close:  make([]float64, n),
		volume: make([]float64, n),
	}
	for i, b := range candles {
		c.open[i] = b.Open
		c.high[i] = b.High
		c.low[i] = b.Low
		c.close[i] = b.Close
		c.volume[i] = b.Volume
	}
	return c
}

// SMA returns the simple moving average series; the first period-1 values are NaN.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return mask(talib.Sma(values, period), period-1)
}

// EMA returns the exponential moving average series seeded with an SMA.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return mask(talib.Ema(values, period), period-1)
}

// rollingMean is a windowed mean that tolerates NaN-free inputs of any length.
func rollingMean(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// mask overwrites the talib warm-up zeros with NaN.
func mask(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
