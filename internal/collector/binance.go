package collector

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"MarketConfluence/internal/model"
)

// Public spot endpoints tried in order by the default fallback chain.
var BinanceEndpoints = []string{
	"https://api.binance.com",
	"https://api.binance.us",
	"https://api1.binance.com",
	"https://api2.binance.com",
}

// BinanceFetcher implements Fetcher using the Binance spot klines endpoint.
type BinanceFetcher struct {
	client     *binance.Client
	limiter    *rate.Limiter
	name       string
	MaxRetries int
	Backoff    time.Duration
}

// NewBinanceFetcher creates a fetcher bound to one base URL. Keys are optional for klines.
func NewBinanceFetcher(baseURL, apiKey, secretKey string) *BinanceFetcher {
	httpClient := &http.Client{
		Timeout: 12 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client := binance.NewClient(apiKey, secretKey)
	client.HTTPClient = httpClient
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &BinanceFetcher{
		client: client,
		// 10 requests per second with burst of 20
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		name:       "binance:" + hostOf(client.BaseURL),
		MaxRetries: 3,
		Backoff:    100 * time.Millisecond,
	}
}

func (f *BinanceFetcher) Name() string { return f.name }

func hostOf(baseURL string) string {
	h := strings.TrimPrefix(strings.TrimPrefix(baseURL, "https://"), "http://")
	if i := strings.IndexByte(h, '/'); i >= 0 {
		h = h[:i]
	}
	return h
}

func (f *BinanceFetcher) FetchCandles(ctx context.Context, req model.Request) (model.Series, error) {
	if err := req.Validate(); err != nil {
		return model.Series{}, err
	}
	symbol := strings.ToUpper(req.Symbol)

	var klines []*binance.Kline
	var err error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if err = f.limiter.Wait(ctx); err != nil {
			return model.Series{}, err
		}

		klines, err = f.client.NewKlinesService().
			Symbol(symbol).
			Interval(string(req.Interval)).
			Limit(clampLimit(req.Limit)).
			Do(ctx)
		if err == nil {
			break
		}
		if attempt == f.MaxRetries {
			return model.Series{}, fmt.Errorf("%s klines %s: %w", f.name, symbol, err)
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * f.Backoff
		select {
		case <-ctx.Done():
			return model.Series{}, ctx.Err()
		case <-time.After(wait):
		}
	}

	candles := make([]model.Candle, 0, len(klines))
	for i, k := range klines {
		c, err := klineToCandle(k)
		if err != nil {
			return model.Series{}, fmt.Errorf("%s kline %d: %w", f.name, i, err)
		}
		candles = append(candles, c)
	}

	return model.Series{
		Symbol:   symbol,
		Interval: req.Interval,
		Source:   f.name,
		Candles:  candles,
	}, nil
}

func klineToCandle(k *binance.Kline) (model.Candle, error) {
	var vals [5]float64
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Candle{}, fmt.Errorf("parse %q: %w", s, err)
		}
		vals[i] = v
	}
	return model.Candle{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
