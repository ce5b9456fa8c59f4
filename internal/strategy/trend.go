package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// classifyTrend reads EMA alignment, price against EMA 21, MACD and ADX.
func classifyTrend(row *model.IndicatorRow) model.ConfluenceSet {
	var set model.ConfluenceSet

	switch {
	case row.EMA9 > row.EMA21 && row.EMA21 > row.EMA50:
		set.Add(model.Bullish, model.Signal{
			Indicator:   "EMA Alignment",
			Condition:   "EMA 9 > EMA 21 > EMA 50",
			Implication: "Strong bullish trend structure. Expect continuation with pullbacks to EMAs as support.",
			Strength:    model.StrengthStrong,
			Timeframe:   MediumTerm,
		})
	case row.EMA9 < row.EMA21 && row.EMA21 < row.EMA50:
		set.Add(model.Bearish, model.Signal{
			Indicator:   "EMA Alignment",
			Condition:   "EMA 9 < EMA 21 < EMA 50",
			Implication: "Strong bearish trend structure. Expect continuation with rallies to EMAs as resistance.",
			Strength:    model.StrengthStrong,
			Timeframe:   MediumTerm,
		})
	}

	dist := (row.Close/row.EMA21 - 1) * 100
	if row.Close > row.EMA21 {
		set.Add(model.Bullish, model.Signal{
			Indicator:   "Price vs EMA 21",
			Condition:   fmt.Sprintf("Price %+.2f%% above EMA 21", dist),
			Implication: "Bullish bias maintained. EMA 21 likely to act as dynamic support.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortToMedium,
		})
	} else {
		set.Add(model.Bearish, model.Signal{
			Indicator:   "Price vs EMA 21",
			Condition:   fmt.Sprintf("Price %+.2f%% below EMA 21", dist),
			Implication: "Bearish bias maintained. EMA 21 likely to act as dynamic resistance.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortToMedium,
		})
	}

	// The histogram sign is already implied by each branch, so both read Strong.
	switch {
	case row.MACD > row.MACDSignal && row.MACDHist > 0:
		set.Add(model.Bullish, model.Signal{
			Indicator:   "MACD",
			Condition:   "MACD above signal line with positive histogram",
			Implication: "Bullish momentum building. Watch for histogram expansion for stronger moves.",
			Strength:    model.StrengthStrong,
			Timeframe:   MediumTerm,
		})
	case row.MACD < row.MACDSignal && row.MACDHist < 0:
		set.Add(model.Bearish, model.Signal{
			Indicator:   "MACD",
			Condition:   "MACD below signal line with negative histogram",
			Implication: "Bearish momentum building. Watch for histogram expansion for stronger moves.",
			Strength:    model.StrengthStrong,
			Timeframe:   MediumTerm,
		})
	}

	switch {
	case row.ADX > 25:
		dir := model.Bearish
		if row.PlusDI > row.MinusDI {
			dir = model.Bullish
		}
		strength := model.StrengthMedium
		if row.ADX > 40 {
			strength = model.StrengthStrong
		}
		set.Add(dir, model.Signal{
			Indicator:   "ADX Trend Strength",
			Condition:   fmt.Sprintf("Strong trending market (ADX: %.1f)", row.ADX),
			Implication: fmt.Sprintf("Strong %s trend in place. Expect trend continuation with minor pullbacks.", dir),
			Strength:    strength,
			Timeframe:   MediumToLong,
		})
	case row.ADX < 20:
		set.Add(model.Neutral, model.Signal{
			Indicator:   "ADX Trend Strength",
			Condition:   fmt.Sprintf("Weak trending market (ADX: %.1f)", row.ADX),
			Implication: "Market in consolidation/ranging phase. Look for breakout setups.",
			Strength:    model.StrengthMedium,
			Timeframe:   AllTimeframes,
		})
	}

	return set
}
