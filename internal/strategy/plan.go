package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// Plan level names.
const (
	LevelEntry    = "Entry"
	LevelEntryAlt = "BB Middle"
	LevelStop     = "EMA 50 Stop"
	LevelATRStop  = "ATR Stop"
	LevelTarget1  = "Target 1"
	LevelTarget2  = "Target 2"
	LevelBuyZone  = "Buy Zone"
	LevelSellZone = "Sell Zone"
)

// ComposePlan picks the plan template for bias and fills it from row.
func ComposePlan(bias model.Bias, row *model.IndicatorRow, cfg Config) model.TradingPlan {
	stop := row.ATR * cfg.StopATRMultiple

	var plan model.TradingPlan
	switch {
	case bias.Label == model.BiasBullish && bias.Confidence > cfg.PlanConfidence:
		plan = model.TradingPlan{
			Kind:         model.PlanBullish,
			Title:        "BULLISH SETUP IDENTIFIED",
			StopDistance: stop,
			Levels: []model.PlanLevel{
				{Name: LevelEntry, Price: row.EMA21},
				{Name: LevelEntryAlt, Price: row.BBMiddle},
				{Name: LevelStop, Price: row.EMA50},
				{Name: LevelATRStop, Price: row.EMA21 - stop},
				{Name: LevelTarget1, Price: row.R1},
				{Name: LevelTarget2, Price: row.BBUpper},
			},
			Lines: []string{
				fmt.Sprintf("Entry Strategy: Look for pullbacks to EMA 21 ($%.4f) or BB Middle", row.EMA21),
				fmt.Sprintf("Stop Loss: Below EMA 50 ($%.4f) or %.4f below entry", row.EMA50, stop),
				fmt.Sprintf("Target 1: Pivot R1 ($%.4f)", row.R1),
				fmt.Sprintf("Target 2: BB Upper Band ($%.4f)", row.BBUpper),
				"Risk/Reward: Aim for 1:2 minimum ratio",
			},
		}
	case bias.Label == model.BiasBearish && bias.Confidence > cfg.PlanConfidence:
		plan = model.TradingPlan{
			Kind:         model.PlanBearish,
			Title:        "BEARISH SETUP IDENTIFIED",
			StopDistance: stop,
			Levels: []model.PlanLevel{
				{Name: LevelEntry, Price: row.EMA21},
				{Name: LevelEntryAlt, Price: row.BBMiddle},
				{Name: LevelStop, Price: row.EMA50},
				{Name: LevelATRStop, Price: row.EMA21 + stop},
				{Name: LevelTarget1, Price: row.S1},
				{Name: LevelTarget2, Price: row.BBLower},
			},
			Lines: []string{
				fmt.Sprintf("Entry Strategy: Look for rallies to EMA 21 ($%.4f) or BB Middle", row.EMA21),
				fmt.Sprintf("Stop Loss: Above EMA 50 ($%.4f) or %.4f above entry", row.EMA50, stop),
				fmt.Sprintf("Target 1: Pivot S1 ($%.4f)", row.S1),
				fmt.Sprintf("Target 2: BB Lower Band ($%.4f)", row.BBLower),
				"Risk/Reward: Aim for 1:2 minimum ratio",
			},
		}
	default:
		plan = model.TradingPlan{
			Kind:         model.PlanRange,
			Title:        "MIXED/RANGING MARKET",
			StopDistance: row.ATR,
			Levels: []model.PlanLevel{
				{Name: LevelBuyZone, Price: row.BBLower},
				{Name: LevelSellZone, Price: row.BBUpper},
			},
			Lines: []string{
				"Strategy: Range trading between key levels",
				fmt.Sprintf("Buy Zone: Near BB Lower ($%.4f) or Support", row.BBLower),
				fmt.Sprintf("Sell Zone: Near BB Upper ($%.4f) or Resistance", row.BBUpper),
				fmt.Sprintf("Stop Loss: Beyond range boundaries + %.4f", row.ATR),
				"Wait for: Clear breakout with volume confirmation",
			},
		}
	}

	plan.VolumeConfirmation = row.VolumeSMA
	plan.Risk = []string{
		"Position Size: Risk only 1-2% of capital per trade",
		fmt.Sprintf("ATR Stop: %.4f (Current volatility measure)", row.ATR),
		fmt.Sprintf("Volume Confirmation: Wait for volume > %.0f", row.VolumeSMA),
		"Time Filter: Avoid news events and low liquidity hours",
	}
	return plan
}

// Directional reports whether plan has an entry and stop to size against.
func Directional(plan *model.TradingPlan) bool {
	return plan.Kind == model.PlanBullish || plan.Kind == model.PlanBearish
}
