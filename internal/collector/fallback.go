package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MarketConfluence/internal/model"
)

// MinViableCandles is the candle count a source must exceed to be accepted.
const MinViableCandles = 50

// FallbackFetcher tries each source in order and returns the first viable series.
// Each source runs under its own SourceTimeout, so a hanging source cannot starve the rest.
type FallbackFetcher struct {
	SourceTimeout time.Duration

	fetchers   []Fetcher
	minCandles int
	log        *zap.Logger
}

// NewFallbackFetcher chains fetchers in preference order.
func NewFallbackFetcher(log *zap.Logger, fetchers ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{fetchers: fetchers, minCandles: MinViableCandles, log: log}
}

func (f *FallbackFetcher) Name() string { return "fallback" }

// Sources lists the chained fetcher names in order.
func (f *FallbackFetcher) Sources() []string {
	names := make([]string, len(f.fetchers))
	for i, ft := range f.fetchers {
		names[i] = ft.Name()
	}
	return names
}

func (f *FallbackFetcher) FetchCandles(ctx context.Context, req model.Request) (model.Series, error) {
	return f.fetchWithin(ctx, req, f.SourceTimeout)
}

// fetchWithin walks the chain giving every source at most timeout. Only cancellation of
// ctx itself stops the walk.
func (f *FallbackFetcher) fetchWithin(ctx context.Context, req model.Request, timeout time.Duration) (model.Series, error) {
	var errs []error
	for _, ft := range f.fetchers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		f.log.Debug("trying data source", zap.String("source", ft.Name()), zap.String("symbol", req.Symbol))
		series, err := fetchOne(ctx, ft, req, timeout)
		if err != nil {
			f.log.Warn("data source failed", zap.String("source", ft.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ft.Name(), err))
			continue
		}
		if series.Len() <= f.minCandles {
			f.log.Warn("data source returned insufficient data",
				zap.String("source", ft.Name()), zap.Int("candles", series.Len()))
			errs = append(errs, fmt.Errorf("%s: only %d candles", ft.Name(), series.Len()))
			continue
		}
		if series.Source == "" {
			series.Source = ft.Name()
		}
		f.log.Info("data source succeeded", zap.String("source", series.Source), zap.Int("candles", series.Len()))
		return series, nil
	}
	if len(errs) == 0 {
		return model.Series{}, fmt.Errorf("%w: no data sources configured", model.ErrDataUnavailable)
	}
	return model.Series{}, fmt.Errorf("%w: all data sources failed: %w", model.ErrDataUnavailable, errors.Join(errs...))
}

func fetchOne(ctx context.Context, ft Fetcher, req model.Request, timeout time.Duration) (model.Series, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return ft.FetchCandles(ctx, req)
}
