package calculator

import (
	"math"

	"MarketConfluence/internal/model"
)

// PriceAction measures one candle's body, wicks and range as percentages of its open.
type PriceAction struct {
	BodyPct, UpperWickPct, LowerWickPct, RangePct float64
}

// MeasureCandle computes the price-action percentages of c.
func MeasureCandle(c model.Candle) PriceAction {
	top := math.Max(c.Open, c.Close)
	bottom := math.Min(c.Open, c.Close)
	return PriceAction{
		BodyPct:      math.Abs(c.Close-c.Open) / c.Open * 100,
		UpperWickPct: (c.High - top) / c.Open * 100,
		LowerWickPct: (bottom - c.Low) / c.Open * 100,
		RangePct:     (c.High - c.Low) / c.Open * 100,
	}
}

// Pivots returns the classic floor pivot and first resistance/support of the same candle.
func Pivots(c model.Candle) (pivot, r1, s1 float64) {
	pivot = (c.High + c.Low + c.Close) / 3
	return pivot, 2*pivot - c.Low, 2*pivot - c.High
}
