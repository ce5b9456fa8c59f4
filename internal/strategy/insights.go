package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// VolatilityLevel grades ATR% as High, Medium or Low.
func VolatilityLevel(atrPct float64) string {
	switch {
	case atrPct > 3:
		return "High"
	case atrPct > 1.5:
		return "Medium"
	default:
		return "Low"
	}
}

// Insights summarises momentum, short-term trend, volatility and participation.
func Insights(row *model.IndicatorRow) []model.Insight {
	out := make([]model.Insight, 0, 5)

	if row.RSI14 > 50 {
		out = append(out, model.Insight{Topic: "Momentum", Text: fmt.Sprintf("Bullish momentum (RSI: %.1f)", row.RSI14)})
	} else {
		out = append(out, model.Insight{Topic: "Momentum", Text: fmt.Sprintf("Bearish momentum (RSI: %.1f)", row.RSI14)})
	}

	if row.EMA9 > row.EMA21 {
		out = append(out, model.Insight{Topic: "Short-term Trend", Text: "Bullish (EMA 9 > EMA 21)"})
	} else {
		out = append(out, model.Insight{Topic: "Short-term Trend", Text: "Bearish (EMA 9 < EMA 21)"})
	}

	w := row.BBWidth
	switch {
	case w < 2:
		out = append(out, model.Insight{Topic: "Volatility", Text: fmt.Sprintf("Low - Expect breakout soon (BB Width: %.2f%%)", w)})
	case w > 6:
		out = append(out, model.Insight{Topic: "Volatility", Text: fmt.Sprintf("High - Potential mean reversion (BB Width: %.2f%%)", w)})
	default:
		out = append(out, model.Insight{Topic: "Volatility", Text: fmt.Sprintf("Normal (BB Width: %.2f%%)", w)})
	}

	v := row.VolumeRatio
	switch {
	case v > 1.5:
		out = append(out, model.Insight{Topic: "Volume", Text: fmt.Sprintf("Above average (%.1fx) - Strong participation", v)})
	case v < 0.7:
		out = append(out, model.Insight{Topic: "Volume", Text: fmt.Sprintf("Below average (%.1fx) - Weak participation", v)})
	default:
		out = append(out, model.Insight{Topic: "Volume", Text: fmt.Sprintf("Average (%.1fx) - Normal participation", v)})
	}

	out = append(out, model.Insight{
		Topic: "Volatility Level",
		Text:  fmt.Sprintf("%s (ATR: %.2f%%)", VolatilityLevel(row.ATRPct), row.ATRPct),
	})
	return out
}
