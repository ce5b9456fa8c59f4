package calculator

import (
	"fmt"
	"math"

	"MarketConfluence/internal/model"
)

// Validate rejects the whole series on the first candle that breaks the OHLCV invariants
// or is not strictly later than its predecessor.
func Validate(series model.Series) error {
	for i, c := range series.Candles {
		if reason := candleProblem(c); reason != "" {
			return &model.MalformedCandleError{Index: i, Reason: reason}
		}
		if i > 0 && !c.Time.After(series.Candles[i-1].Time) {
			return &model.MalformedCandleError{Index: i, Reason: "timestamp not after previous candle"}
		}
	}
	return nil
}

func candleProblem(c model.Candle) string {
	for _, p := range []struct {
		name string
		v    float64
	}{{"open", c.Open}, {"high", c.High}, {"low", c.Low}, {"close", c.Close}} {
		if !finite(p.v) || p.v <= 0 {
			return fmt.Sprintf("%s must be positive and finite, got %v", p.name, p.v)
		}
	}
	if !finite(c.Volume) || c.Volume < 0 {
		return fmt.Sprintf("volume must be non-negative and finite, got %v", c.Volume)
	}
	if c.High < math.Max(c.Open, c.Close) {
		return fmt.Sprintf("high %v below body", c.High)
	}
	if c.Low > math.Min(c.Open, c.Close) {
		return fmt.Sprintf("low %v above body", c.Low)
	}
	return ""
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
