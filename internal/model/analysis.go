package model

import (
	"time"

	"github.com/google/uuid"
)

// Insight is a one-line market observation shown next to the confluences.
type Insight struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// Analysis is the full result of one analysis run.
type Analysis struct {
	ID          uuid.UUID     `json:"id"`
	Symbol      string        `json:"symbol"`
	Interval    Interval      `json:"interval"`
	Source      string        `json:"source"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        int           `json:"rows"`
	Latest      IndicatorRow  `json:"latest"`
	Confluences ConfluenceSet `json:"confluences"`
	Bias        Bias          `json:"bias"`
	Plan        TradingPlan   `json:"plan"`
	Insights    []Insight     `json:"insights"`

	// SuggestedStop is the configured ATR multiple expressed in price.
	SuggestedStop float64  `json:"suggested_stop"`
	Warnings      []string `json:"warnings,omitempty"`
}

// AnalysisRecord is the persisted summary of an Analysis.
type AnalysisRecord struct {
	ID           string    `db:"id" json:"id"`
	Symbol       string    `db:"symbol" json:"symbol"`
	Interval     string    `db:"timeframe" json:"interval"`
	Source       string    `db:"source" json:"source"`
	GeneratedAt  time.Time `db:"generated_at" json:"generated_at"`
	Close        float64   `db:"close" json:"close"`
	Bias         string    `db:"bias" json:"bias"`
	Confidence   float64   `db:"confidence" json:"confidence"`
	BullishScore int       `db:"bullish_score" json:"bullish_score"`
	BearishScore int       `db:"bearish_score" json:"bearish_score"`
	NeutralScore int       `db:"neutral_score" json:"neutral_score"`
	RSI14        float64   `db:"rsi_14" json:"rsi_14"`
	ADX          float64   `db:"adx" json:"adx"`
	ATRPct       float64   `db:"atr_pct" json:"atr_pct"`
	PlanKind     string    `db:"plan_kind" json:"plan_kind"`
	Payload      string    `db:"payload" json:"-"`
}

// Record flattens the analysis for storage. payload is the JSON document of the full analysis.
func (a *Analysis) Record(payload string) AnalysisRecord {
	return AnalysisRecord{
		ID:           a.ID.String(),
		Symbol:       a.Symbol,
		Interval:     string(a.Interval),
		Source:       a.Source,
		GeneratedAt:  a.GeneratedAt,
		Close:        a.Latest.Close,
		Bias:         string(a.Bias.Label),
		Confidence:   a.Bias.Confidence,
		BullishScore: a.Bias.BullishScore,
		BearishScore: a.Bias.BearishScore,
		NeutralScore: a.Bias.NeutralScore,
		RSI14:        a.Latest.RSI14,
		ADX:          a.Latest.ADX,
		ATRPct:       a.Latest.ATRPct,
		PlanKind:     string(a.Plan.Kind),
		Payload:      payload,
	}
}
