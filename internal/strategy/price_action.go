package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// classifyPriceAction reads the latest candle's body and wicks.
func classifyPriceAction(row *model.IndicatorRow) model.ConfluenceSet {
	var set model.ConfluenceSet

	if row.BodyPct > 2 {
		dir := model.Bearish
		if row.Bullish() {
			dir = model.Bullish
		}
		strength := model.StrengthMedium
		if row.BodyPct > 3 {
			strength = model.StrengthStrong
		}
		set.Add(dir, model.Signal{
			Indicator:   "Price Action",
			Condition:   fmt.Sprintf("Large %s candle (Body: %.2f%%)", dir, row.BodyPct),
			Implication: fmt.Sprintf("Strong %s conviction. Expect follow-through in next few candles.", dir),
			Strength:    strength,
			Timeframe:   ShortTerm,
		})
	}

	if row.UpperWickPct > row.BodyPct*2 && row.Bullish() {
		set.Add(model.Bearish, model.Signal{
			Indicator:   "Price Action - Wicks",
			Condition:   fmt.Sprintf("Long upper wick on bullish candle (Wick: %.2f%%)", row.UpperWickPct),
			Implication: "Rejection at highs despite bullish close. Potential resistance area.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	}

	if row.LowerWickPct > row.BodyPct*2 && row.Bearish() {
		set.Add(model.Bullish, model.Signal{
			Indicator:   "Price Action - Wicks",
			Condition:   fmt.Sprintf("Long lower wick on bearish candle (Wick: %.2f%%)", row.LowerWickPct),
			Implication: "Support found at lows despite bearish close. Potential support area.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	}

	return set
}
