package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"MarketConfluence/internal/model"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func flatSeries(n int) model.Series {
	candles := make([]model.Candle, n)
	for i := range candles {
		candles[i] = model.Candle{
			Time: t0.Add(time.Duration(i) * 15 * time.Minute),
			Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000,
		}
	}
	return model.Series{Symbol: "BTCUSDT", Interval: model.Interval15m, Candles: candles}
}

// risingSeries closes 1% higher every candle with no upper wick.
func risingSeries(n int) model.Series {
	candles := make([]model.Candle, n)
	prev := 100 / 1.01
	for i := range candles {
		cl := 100 * math.Pow(1.01, float64(i))
		candles[i] = model.Candle{
			Time:   t0.Add(time.Duration(i) * 15 * time.Minute),
			Open:   prev,
			High:   cl,
			Low:    prev * 0.999,
			Close:  cl,
			Volume: 1000,
		}
		prev = cl
	}
	return model.Series{Symbol: "BTCUSDT", Interval: model.Interval15m, Candles: candles}
}

func TestCompute_FlatSeries(t *testing.T) {
	rows, err := Compute(flatSeries(60), 10)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(rows) != 60-WarmupPeriod+1 {
		t.Fatalf("expected %d rows, got %d", 60-WarmupPeriod+1, len(rows))
	}
	last := rows[len(rows)-1]
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"RSI14", last.RSI14, 50},
		{"RSI21", last.RSI21, 50},
		{"BBWidth", last.BBWidth, 0},
		{"BBPosition", last.BBPosition, 0.5},
		{"VolumeRatio", last.VolumeRatio, 1},
		{"StochK", last.StochK, 50},
		{"WilliamsR", last.WilliamsR, -50},
		{"CMF", last.CMF, 0},
		{"ATR", last.ATR, 0},
		{"EMA21", last.EMA21, 100},
		{"BodyPct", last.BodyPct, 0},
		{"Pivot", last.Pivot, 100},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s: expected %.4f, got %.4f", c.name, c.want, c.got)
		}
	}
}

func TestCompute_RisingSeries(t *testing.T) {
	rows, err := Compute(risingSeries(120), DefaultMinRows)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	last := rows[len(rows)-1]
	if !(last.EMA9 > last.EMA21 && last.EMA21 > last.EMA50) {
		t.Errorf("expected EMA9 > EMA21 > EMA50, got %.2f %.2f %.2f", last.EMA9, last.EMA21, last.EMA50)
	}
	if last.RSI14 < 99 {
		t.Errorf("expected RSI14 near 100 for a monotonic rise, got %.2f", last.RSI14)
	}
	if last.PlusDI <= last.MinusDI {
		t.Errorf("expected +DI > -DI, got %.2f <= %.2f", last.PlusDI, last.MinusDI)
	}
	if last.MACD <= last.MACDSignal {
		t.Errorf("expected MACD above signal, got %.4f <= %.4f", last.MACD, last.MACDSignal)
	}
	if last.CMF <= 0.3 {
		t.Errorf("expected strong positive CMF, got %.3f", last.CMF)
	}
	if math.Abs(last.ROC5-(math.Pow(1.01, 5)-1)*100) > 1e-6 {
		t.Errorf("unexpected ROC5 %.6f", last.ROC5)
	}
	for i, r := range rows {
		if r.RSI14 < 0 || r.RSI14 > 100 {
			t.Fatalf("row %d: RSI14 out of range: %.2f", i, r.RSI14)
		}
	}
}

func TestCompute_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		series  model.Series
		minRows int
		rows    int
	}{
		{"60 candles leaves 11 rows", flatSeries(60), DefaultMinRows, 11},
		{"shorter than warm-up", flatSeries(30), DefaultMinRows, 0},
		{"98 candles leaves 49 rows", flatSeries(98), DefaultMinRows, 49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.series, tt.minRows)
			if !errors.Is(err, model.ErrInsufficientData) {
				t.Fatalf("expected ErrInsufficientData, got %v", err)
			}
			var ide *model.InsufficientDataError
			if !errors.As(err, &ide) {
				t.Fatalf("expected *InsufficientDataError, got %T", err)
			}
			if ide.Rows != tt.rows {
				t.Errorf("expected %d rows reported, got %d", tt.rows, ide.Rows)
			}
		})
	}

	if _, err := Compute(flatSeries(99), DefaultMinRows); err != nil {
		t.Errorf("99 candles should leave exactly 50 rows: %v", err)
	}
}

func TestCompute_MalformedCandle(t *testing.T) {
	tests := []struct {
		name  string
		patch func(c *model.Candle)
	}{
		{"high below low", func(c *model.Candle) { c.High, c.Low = 90, 110 }},
		{"high below close", func(c *model.Candle) { c.Close = 101 }},
		{"low above open", func(c *model.Candle) { c.Low = 100.5 }},
		{"zero close", func(c *model.Candle) { c.Close, c.Low = 0, 0 }},
		{"negative volume", func(c *model.Candle) { c.Volume = -1 }},
		{"NaN open", func(c *model.Candle) { c.Open = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := flatSeries(120)
			tt.patch(&s.Candles[70])
			_, err := Compute(s, DefaultMinRows)
			var mce *model.MalformedCandleError
			if !errors.As(err, &mce) {
				t.Fatalf("expected *MalformedCandleError, got %v", err)
			}
			if mce.Index != 70 {
				t.Errorf("expected index 70, got %d", mce.Index)
			}
			if !errors.Is(err, model.ErrMalformedCandle) {
				t.Error("expected errors.Is ErrMalformedCandle")
			}
		})
	}
}

func TestValidate_TimestampsMustIncrease(t *testing.T) {
	s := flatSeries(10)
	s.Candles[5].Time = s.Candles[4].Time
	err := Validate(s)
	if !errors.Is(err, model.ErrMalformedCandle) {
		t.Fatalf("expected ErrMalformedCandle, got %v", err)
	}
}

func TestCompute_DoesNotMutateSeries(t *testing.T) {
	s := risingSeries(100)
	before := make([]model.Candle, len(s.Candles))
	copy(before, s.Candles)
	if _, err := Compute(s, DefaultMinRows); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i := range before {
		if before[i] != s.Candles[i] {
			t.Fatalf("candle %d changed", i)
		}
	}
}
