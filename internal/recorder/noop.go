package recorder

import (
	"context"

	"MarketConfluence/internal/model"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ context.Context, _ *model.Analysis) error { return nil }
func (n *NoopRecorder) Recent(_ context.Context, _ string, _ int) ([]model.AnalysisRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
