package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketConfluence/internal/calculator"
	"MarketConfluence/internal/model"
)

// Snapshot is a fetched series together with its indicator rows.
type Snapshot struct {
	Series model.Series
	Rows   []model.IndicatorRow
	Source string
}

// Latest returns the most recent complete indicator row.
func (s *Snapshot) Latest() model.IndicatorRow {
	row, _ := calculator.Latest(s.Rows)
	return row
}

// Collector orchestrates data fetching and indicator computation.
// FetchTimeout bounds each data source attempt, not the whole fallback chain.
type Collector struct {
	Fetcher      Fetcher
	MinRows      int
	FetchTimeout time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, minRows int, fetchTimeout time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, MinRows: minRows, FetchTimeout: fetchTimeout}
}

// Collect fetches candles and computes all indicators.
// Any fetch failure is reported as model.ErrDataUnavailable and no computation is attempted.
func (c *Collector) Collect(ctx context.Context, req model.Request) (*Snapshot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	series, err := c.fetch(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: %s returned no candles", model.ErrDataUnavailable, c.Fetcher.Name())
	}

	rows, err := calculator.Compute(series, c.MinRows)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	return &Snapshot{Series: series, Rows: rows, Source: series.Source}, nil
}

// fetch applies FetchTimeout per data source when the fetcher chains several of them.
func (c *Collector) fetch(ctx context.Context, req model.Request) (model.Series, error) {
	if b, ok := c.Fetcher.(budgeted); ok {
		return b.fetchWithin(ctx, req, c.FetchTimeout)
	}
	return fetchOne(ctx, c.Fetcher, req, c.FetchTimeout)
}
