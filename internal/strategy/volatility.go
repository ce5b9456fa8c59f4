package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// classifyVolatility reads Bollinger position and width plus ATR%.
func classifyVolatility(row *model.IndicatorRow) model.ConfluenceSet {
	var set model.ConfluenceSet

	pos := row.BBPosition
	switch {
	case pos < 0.1:
		set.Add(model.Bullish, model.Signal{
			Indicator:   "Bollinger Bands",
			Condition:   fmt.Sprintf("Price near lower band (Position: %.2f)", pos),
			Implication: "Potential mean reversion setup. Watch for bounce off lower band or breakdown.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	case pos > 0.9:
		set.Add(model.Bearish, model.Signal{
			Indicator:   "Bollinger Bands",
			Condition:   fmt.Sprintf("Price near upper band (Position: %.2f)", pos),
			Implication: "Potential mean reversion setup. Watch for rejection at upper band or breakout.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	}

	switch {
	case row.BBWidth < 2:
		set.Add(model.Neutral, model.Signal{
			Indicator:   "Bollinger Band Width",
			Condition:   fmt.Sprintf("Low volatility environment (Width: %.2f%%)", row.BBWidth),
			Implication: "Squeeze condition. Expect volatility expansion and potential breakout soon.",
			Strength:    model.StrengthStrong,
			Timeframe:   ShortToMedium,
		})
	case row.BBWidth > 8:
		set.Add(model.Neutral, model.Signal{
			Indicator:   "Bollinger Band Width",
			Condition:   fmt.Sprintf("High volatility environment (Width: %.2f%%)", row.BBWidth),
			Implication: "Volatility expansion phase. Expect potential reversion to mean.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	}

	if row.ATRPct > 3 {
		set.Add(model.Neutral, model.Signal{
			Indicator:   "Average True Range",
			Condition:   fmt.Sprintf("High volatility (ATR: %.2f%%)", row.ATRPct),
			Implication: "Elevated volatility. Use wider stops and smaller position sizes.",
			Strength:    model.StrengthMedium,
			Timeframe:   AllTimeframes,
		})
	}

	return set
}
