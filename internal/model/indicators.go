package model

import (
	"math"
	"time"
)

// IndicatorRow holds every derived value for one candle position.
type IndicatorRow struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`

	// Momentum
	RSI14     float64 `json:"rsi_14"`
	RSI21     float64 `json:"rsi_21"`
	StochK    float64 `json:"stoch_k"`
	StochD    float64 `json:"stoch_d"`
	WilliamsR float64 `json:"williams_r"`
	ROC5      float64 `json:"roc_5"`
	ROC14     float64 `json:"roc_14"`

	// Trend
	EMA9       float64 `json:"ema_9"`
	EMA21      float64 `json:"ema_21"`
	EMA50      float64 `json:"ema_50"`
	SMA20      float64 `json:"sma_20"`
	SMA50      float64 `json:"sma_50"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	ADX        float64 `json:"adx"`
	PlusDI     float64 `json:"plus_di"`
	MinusDI    float64 `json:"minus_di"`

	// Volatility
	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	BBWidth    float64 `json:"bb_width"`
	BBPosition float64 `json:"bb_position"`
	KCUpper    float64 `json:"kc_upper"`
	KCMiddle   float64 `json:"kc_middle"`
	KCLower    float64 `json:"kc_lower"`
	ATR        float64 `json:"atr"`
	ATRPct     float64 `json:"atr_pct"`

	// Volume
	VolumeSMA   float64 `json:"volume_sma"`
	VolumeRatio float64 `json:"volume_ratio"`
	OBV         float64 `json:"obv"`
	CMF         float64 `json:"cmf"`

	// Price action, percentages of the open
	BodyPct      float64 `json:"body_pct"`
	UpperWickPct float64 `json:"upper_wick_pct"`
	LowerWickPct float64 `json:"lower_wick_pct"`
	RangePct     float64 `json:"range_pct"`

	// Same-candle floor pivots
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	S1    float64 `json:"s1"`
}

// Bullish reports whether the candle closed above its open.
func (r *IndicatorRow) Bullish() bool { return r.Close > r.Open }

// Bearish reports whether the candle closed below its open.
func (r *IndicatorRow) Bearish() bool { return r.Close < r.Open }

// Values returns every numeric field in declaration order.
func (r *IndicatorRow) Values() []float64 {
	return []float64{
		r.Open, r.High, r.Low, r.Close, r.Volume,
		r.RSI14, r.RSI21, r.StochK, r.StochD, r.WilliamsR, r.ROC5, r.ROC14,
		r.EMA9, r.EMA21, r.EMA50, r.SMA20, r.SMA50, r.MACD, r.MACDSignal, r.MACDHist,
		r.ADX, r.PlusDI, r.MinusDI,
		r.BBUpper, r.BBMiddle, r.BBLower, r.BBWidth, r.BBPosition,
		r.KCUpper, r.KCMiddle, r.KCLower, r.ATR, r.ATRPct,
		r.VolumeSMA, r.VolumeRatio, r.OBV, r.CMF,
		r.BodyPct, r.UpperWickPct, r.LowerWickPct, r.RangePct,
		r.Pivot, r.R1, r.S1,
	}
}

// Complete reports whether every value is finite.
func (r *IndicatorRow) Complete() bool {
	for _, v := range r.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
