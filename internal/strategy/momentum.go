package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// Horizon labels attached to signals.
const (
	ShortTerm     = "Short-term"
	MediumTerm    = "Medium-term"
	ShortToMedium = "Short to Medium-term"
	MediumToLong  = "Medium to Long-term"
	AllTimeframes = "All timeframes"
)

// classifyMomentum reads RSI(14), Stochastic and Williams %R.
func classifyMomentum(row *model.IndicatorRow) model.ConfluenceSet {
	var set model.ConfluenceSet

	rsi := row.RSI14
	switch {
	case rsi < 30:
		set.Add(model.Bullish, model.Signal{
			Indicator:   "RSI (14)",
			Condition:   fmt.Sprintf("Oversold at %.1f", rsi),
			Implication: "Potential bounce or reversal setup. Watch for bullish divergence or break above 30.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	case rsi > 70:
		set.Add(model.Bearish, model.Signal{
			Indicator:   "RSI (14)",
			Condition:   fmt.Sprintf("Overbought at %.1f", rsi),
			Implication: "Potential pullback or distribution. Watch for bearish divergence or break below 70.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	case rsi >= 45 && rsi <= 55:
		set.Add(model.Neutral, model.Signal{
			Indicator:   "RSI (14)",
			Condition:   fmt.Sprintf("Neutral at %.1f", rsi),
			Implication: "Balanced momentum. Look for directional break above 55 or below 45.",
			Strength:    model.StrengthLow,
			Timeframe:   ShortTerm,
		})
	}

	k, d := row.StochK, row.StochD
	switch {
	case k < 20 && d < 20:
		strength := model.StrengthMedium
		if k > d {
			strength = model.StrengthStrong
		}
		set.Add(model.Bullish, model.Signal{
			Indicator:   "Stochastic",
			Condition:   fmt.Sprintf("Both %%K (%.1f) and %%D (%.1f) oversold", k, d),
			Implication: "Strong oversold condition. Potential reversal when %K crosses above %D.",
			Strength:    strength,
			Timeframe:   ShortTerm,
		})
	case k > 80 && d > 80:
		strength := model.StrengthMedium
		if k < d {
			strength = model.StrengthStrong
		}
		set.Add(model.Bearish, model.Signal{
			Indicator:   "Stochastic",
			Condition:   fmt.Sprintf("Both %%K (%.1f) and %%D (%.1f) overbought", k, d),
			Implication: "Strong overbought condition. Potential reversal when %K crosses below %D.",
			Strength:    strength,
			Timeframe:   ShortTerm,
		})
	}

	wr := row.WilliamsR
	switch {
	case wr < -80:
		set.Add(model.Bullish, model.Signal{
			Indicator:   "Williams %R",
			Condition:   fmt.Sprintf("Oversold at %.1f", wr),
			Implication: "Potential buying opportunity. Watch for move above -80 for confirmation.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	case wr > -20:
		set.Add(model.Bearish, model.Signal{
			Indicator:   "Williams %R",
			Condition:   fmt.Sprintf("Overbought at %.1f", wr),
			Implication: "Potential selling pressure. Watch for move below -20 for confirmation.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	}

	return set
}
