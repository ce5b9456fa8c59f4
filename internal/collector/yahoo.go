package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"MarketConfluence/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooSymbol maps exchange pairs quoted in USDT onto Yahoo's USD tickers (BTCUSDT -> BTC-USD).
func (f *YahooFetcher) yahooSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	if base, ok := strings.CutSuffix(symbol, "USDT"); ok && base != "" {
		return base + "-USD"
	}
	return symbol
}

// yahooInterval is the native chart interval fetched for a requested interval,
// and how many native bars make up one requested candle.
type yahooInterval struct {
	native string
	width  time.Duration
	factor int
	maxRng string
}

var yahooIntervals = map[model.Interval]yahooInterval{
	model.Interval1m:  {"1m", time.Minute, 1, "5d"},
	model.Interval3m:  {"1m", time.Minute, 3, "5d"},
	model.Interval5m:  {"5m", 5 * time.Minute, 1, "1mo"},
	model.Interval15m: {"15m", 15 * time.Minute, 1, "1mo"},
	model.Interval30m: {"30m", 30 * time.Minute, 1, "1mo"},
	model.Interval1h:  {"60m", time.Hour, 1, "2y"},
	model.Interval2h:  {"60m", time.Hour, 2, "2y"},
	model.Interval4h:  {"60m", time.Hour, 4, "2y"},
	model.Interval6h:  {"60m", time.Hour, 6, "2y"},
	model.Interval12h: {"60m", time.Hour, 12, "2y"},
	model.Interval1d:  {"1d", 24 * time.Hour, 1, "5y"},
}

var yahooRanges = []struct {
	name string
	span time.Duration
}{
	{"1d", 24 * time.Hour},
	{"5d", 5 * 24 * time.Hour},
	{"1mo", 30 * 24 * time.Hour},
	{"3mo", 90 * 24 * time.Hour},
	{"6mo", 180 * 24 * time.Hour},
	{"1y", 365 * 24 * time.Hour},
	{"2y", 730 * 24 * time.Hour},
	{"5y", 5 * 365 * 24 * time.Hour},
}

// chartRange returns the shortest Yahoo range covering need, capped at maxRng.
func chartRange(need time.Duration, maxRng string) string {
	for _, r := range yahooRanges {
		if r.span >= need || r.name == maxRng {
			return r.name
		}
	}
	return maxRng
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return toFloat(vals[i])
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		strings.TrimRight(f.BaseURL, "/"), url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	candles := make([]model.Candle, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == 0 || h == 0 || l == 0 || c == 0 {
			continue // null bars
		}
		candles = append(candles, model.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func (f *YahooFetcher) FetchCandles(ctx context.Context, req model.Request) (model.Series, error) {
	if err := req.Validate(); err != nil {
		return model.Series{}, err
	}
	yi, ok := yahooIntervals[req.Interval]
	if !ok {
		return model.Series{}, fmt.Errorf("yahoo: interval %s not supported", req.Interval)
	}

	limit := clampLimit(req.Limit)
	need := time.Duration(limit*yi.factor) * yi.width * 3 / 2
	candles, err := f.fetchChart(ctx, req.Symbol, yi.native, chartRange(need, yi.maxRng))
	if err != nil {
		return model.Series{}, err
	}
	if yi.factor > 1 {
		candles = resample(candles, req.Interval.Duration())
	}
	// Trim to requested count
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	return model.Series{
		Symbol:   strings.ToUpper(req.Symbol),
		Interval: req.Interval,
		Source:   f.Name(),
		Candles:  candles,
	}, nil
}
