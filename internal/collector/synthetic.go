package collector

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"MarketConfluence/internal/model"
)

// Reference prices the synthetic walk starts from.
var syntheticBasePrices = map[string]float64{
	"BTCUSDT":   45000,
	"ETHUSDT":   2800,
	"BNBUSDT":   320,
	"ADAUSDT":   0.85,
	"SOLUSDT":   95,
	"XRPUSDT":   0.62,
	"DOGEUSDT":  0.085,
	"AVAXUSDT":  28,
	"MATICUSDT": 0.95,
	"DOTUSDT":   7.2,
}

// SyntheticFetcher generates a deterministic random walk with a slight upward drift.
// It is the last resort of the fallback chain and the demo data source.
type SyntheticFetcher struct {
	Seed int64
	Now  func() time.Time
}

// NewSyntheticFetcher creates a generator seeded with seed.
func NewSyntheticFetcher(seed int64) *SyntheticFetcher {
	return &SyntheticFetcher{Seed: seed, Now: time.Now}
}

func (f *SyntheticFetcher) Name() string { return "synthetic" }

func (f *SyntheticFetcher) FetchCandles(_ context.Context, req model.Request) (model.Series, error) {
	if err := req.Validate(); err != nil {
		return model.Series{}, err
	}
	symbol := strings.ToUpper(req.Symbol)
	n := clampLimit(req.Limit)
	base, ok := syntheticBasePrices[symbol]
	if !ok {
		base = 1.0
	}

	rng := rand.New(rand.NewSource(f.Seed))

	// 1% noise plus a drift running linearly from -2% to +2% per bar
	returns := make([]float64, n)
	for i := range returns {
		returns[i] = rng.NormFloat64() * 0.01
	}
	for i := range returns {
		drift := -0.02
		if n > 1 {
			drift += 0.04 * float64(i) / float64(n-1)
		}
		returns[i] += drift
	}

	prices := make([]float64, n)
	prices[0] = base
	for i := 1; i < n; i++ {
		prices[i] = math.Max(prices[i-1]*(1+returns[i]), base*0.1)
	}

	step := req.Interval.Duration()
	end := f.now().UTC().Truncate(step)
	candles := make([]model.Candle, n)
	for i, closePrice := range prices {
		openPrice := closePrice
		if i > 0 {
			openPrice = prices[i-1]
		}
		vol := 0.005 + rng.Float64()*0.02
		candles[i] = model.Candle{
			Time:   end.Add(-time.Duration(n-1-i) * step),
			Open:   openPrice,
			High:   math.Max(openPrice, closePrice) * (1 + rng.Float64()*vol),
			Low:    math.Min(openPrice, closePrice) * (1 - rng.Float64()*vol),
			Close:  closePrice,
			Volume: 50000 + rng.Float64()*450000,
		}
	}

	return model.Series{Symbol: symbol, Interval: req.Interval, Source: f.Name(), Candles: candles}, nil
}

func (f *SyntheticFetcher) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}
