package model

import (
	"fmt"
	"strings"
	"time"
)

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered oldest-to-newest run of candles for one symbol and interval.
// It is owned by the analysis run that requested it and never mutated.
type Series struct {
	Symbol   string   `json:"symbol"`
	Interval Interval `json:"interval"`
	Source   string   `json:"source"`
	Candles  []Candle `json:"candles"`
}

// Len returns the number of candles.
func (s Series) Len() int { return len(s.Candles) }

// Last returns the most recent candle.
func (s Series) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Interval is a supported candle width.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
)

var intervalInfo = map[Interval]struct {
	d     time.Duration
	label string
}{
	Interval1m:  {time.Minute, "1 Minute - Scalping"},
	Interval3m:  {3 * time.Minute, "3 Minute - Short Scalping"},
	Interval5m:  {5 * time.Minute, "5 Minute - Scalping"},
	Interval15m: {15 * time.Minute, "15 Minute - Short Term"},
	Interval30m: {30 * time.Minute, "30 Minute - Short Term"},
	Interval1h:  {time.Hour, "1 Hour - Medium Term"},
	Interval2h:  {2 * time.Hour, "2 Hour - Medium Term"},
	Interval4h:  {4 * time.Hour, "4 Hour - Swing Trading"},
	Interval6h:  {6 * time.Hour, "6 Hour - Swing Trading"},
	Interval12h: {12 * time.Hour, "12 Hour - Position"},
	Interval1d:  {24 * time.Hour, "Daily - Position Trading"},
}

// Intervals lists every supported interval from shortest to longest.
var Intervals = []Interval{
	Interval1m, Interval3m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval2h, Interval4h, Interval6h, Interval12h, Interval1d,
}

// ParseInterval normalises s and checks it is supported.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := intervalInfo[iv]; !ok {
		return "", fmt.Errorf("unsupported interval %q", s)
	}
	return iv, nil
}

// Valid reports whether the interval is supported.
func (iv Interval) Valid() bool {
	_, ok := intervalInfo[iv]
	return ok
}

// Duration returns the nominal candle width, or zero for an unknown interval.
func (iv Interval) Duration() time.Duration { return intervalInfo[iv].d }

// Label returns a human readable trading-horizon description.
func (iv Interval) Label() string {
	if info, ok := intervalInfo[iv]; ok {
		return info.label
	}
	return string(iv)
}

func (iv Interval) String() string { return string(iv) }

// Request asks a data source for the latest Limit candles of Symbol at Interval.
type Request struct {
	Symbol   string
	Interval Interval
	Limit    int
}

// Validate checks the request is answerable.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if !r.Interval.Valid() {
		return fmt.Errorf("unsupported interval %q", r.Interval)
	}
	if r.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", r.Limit)
	}
	return nil
}
