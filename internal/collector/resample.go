package collector

import (
	"time"

	"MarketConfluence/internal/model"
)

// resample merges candles into buckets of width d aligned to the Unix epoch.
// The newest bucket may be partial, like the live candle of an exchange feed.
// A leading bucket whose first candle starts after the boundary is dropped.
func resample(candles []model.Candle, d time.Duration) []model.Candle {
	if len(candles) == 0 || d <= 0 {
		return nil
	}
	if lead := candles[0].Time.Truncate(d); !candles[0].Time.Equal(lead) {
		i := 0
		for i < len(candles) && candles[i].Time.Truncate(d).Equal(lead) {
			i++
		}
		candles = candles[i:]
		if len(candles) == 0 {
			return nil
		}
	}
	var out []model.Candle
	var cur model.Candle
	var started bool

	for _, c := range candles {
		bucket := c.Time.Truncate(d)
		if !started || !bucket.Equal(cur.Time) {
			if started {
				out = append(out, cur)
			}
			cur = model.Candle{Time: bucket, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume}
			started = true
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	if started {
		out = append(out, cur)
	}
	return out
}
