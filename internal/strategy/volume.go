package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// classifyVolume reads relative volume and Chaikin Money Flow.
func classifyVolume(row *model.IndicatorRow) model.ConfluenceSet {
	var set model.ConfluenceSet

	ratio := row.VolumeRatio
	switch {
	case ratio > 1.5:
		strength := model.StrengthMedium
		if ratio > 2 {
			strength = model.StrengthStrong
		}
		set.Add(model.Neutral, model.Signal{
			Indicator:   "Volume",
			Condition:   fmt.Sprintf("Above average volume (%.1fx normal)", ratio),
			Implication: "Strong participation. Moves likely to be more sustainable.",
			Strength:    strength,
			Timeframe:   ShortTerm,
		})
	case ratio < 0.7:
		set.Add(model.Neutral, model.Signal{
			Indicator:   "Volume",
			Condition:   fmt.Sprintf("Below average volume (%.1fx normal)", ratio),
			Implication: "Low participation. Moves may lack conviction and sustainability.",
			Strength:    model.StrengthMedium,
			Timeframe:   ShortTerm,
		})
	}

	cmf := row.CMF
	switch {
	case cmf > 0.2:
		strength := model.StrengthMedium
		if cmf > 0.3 {
			strength = model.StrengthStrong
		}
		set.Add(model.Bullish, model.Signal{
			Indicator:   "Chaikin Money Flow",
			Condition:   fmt.Sprintf("Strong buying pressure (CMF: %.2f)", cmf),
			Implication: "Money flowing into the asset. Supports bullish bias.",
			Strength:    strength,
			Timeframe:   MediumTerm,
		})
	case cmf < -0.2:
		strength := model.StrengthMedium
		if cmf < -0.3 {
			strength = model.StrengthStrong
		}
		set.Add(model.Bearish, model.Signal{
			Indicator:   "Chaikin Money Flow",
			Condition:   fmt.Sprintf("Strong selling pressure (CMF: %.2f)", cmf),
			Implication: "Money flowing out of the asset. Supports bearish bias.",
			Strength:    strength,
			Timeframe:   MediumTerm,
		})
	}

	return set
}
