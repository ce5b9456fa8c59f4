package recorder

import (
	"context"
	"encoding/json"
	"fmt"

	"MarketConfluence/internal/model"
)

// Recorder persists analysis runs for later review.
type Recorder interface {
	RecordAnalysis(ctx context.Context, a *model.Analysis) error
	// Recent returns the newest records first. An empty symbol matches every symbol.
	Recent(ctx context.Context, symbol string, limit int) ([]model.AnalysisRecord, error)
	Close() error
}

// signalRow is one confluence of a recorded analysis.
type signalRow struct {
	AnalysisID string `db:"analysis_id"`
	Direction  string `db:"direction"`
	Indicator  string `db:"indicator"`
	Condition  string `db:"condition_text"`
	Strength   int    `db:"strength"`
	Timeframe  string `db:"horizon"`
}

// flatten encodes a for storage.
func flatten(a *model.Analysis) (model.AnalysisRecord, []signalRow, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return model.AnalysisRecord{}, nil, fmt.Errorf("encode analysis: %w", err)
	}
	rec := a.Record(string(payload))

	var signals []signalRow
	add := func(dir model.Direction, sigs []model.Signal) {
		for _, s := range sigs {
			signals = append(signals, signalRow{
				AnalysisID: rec.ID,
				Direction:  string(dir),
				Indicator:  s.Indicator,
				Condition:  s.Condition,
				Strength:   int(s.Strength),
				Timeframe:  s.Timeframe,
			})
		}
	}
	add(model.Bullish, a.Confluences.Bullish)
	add(model.Bearish, a.Confluences.Bearish)
	add(model.Neutral, a.Confluences.Neutral)
	return rec, signals, nil
}
