package collector

import (
	"context"
	"time"

	"MarketConfluence/internal/model"
)

// Fetcher defines the interface for fetching candles.
// Implementations return candles oldest first and set Series.Source to their Name.
type Fetcher interface {
	FetchCandles(ctx context.Context, req model.Request) (model.Series, error)
	Name() string
}

// budgeted is implemented by fetchers that apply a per-source deadline themselves
// instead of sharing one deadline across everything they call.
type budgeted interface {
	fetchWithin(ctx context.Context, req model.Request, timeout time.Duration) (model.Series, error)
}

// MaxLimit is the largest number of candles a single request may ask for.
const MaxLimit = 1000

func clampLimit(limit int) int {
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
