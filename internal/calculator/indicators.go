package calculator

import (
	"MarketConfluence/internal/model"

	"github.com/markcheno/go-talib"
)

// Indicator windows. They are part of the indicator names shown to users.
const (
	RSIFast       = 14
	RSISlow       = 21
	StochPeriod   = 14
	StochSmoothD  = 3
	WilliamsLen   = 14
	EMAFast       = 9
	EMAMid        = 21
	EMASlow       = 50
	SMAFast       = 20
	SMASlow       = 50
	MACDFast      = 12
	MACDSlow      = 26
	MACDSignalLen = 9
	ADXPeriod     = 14
	BBPeriod      = 20
	BBDev         = 2.0
	KCPeriod      = 20
	KCATRPeriod   = 10
	KCMultiplier  = 2.0
	ATRPeriod     = 14
	VolumePeriod  = 20
	CMFPeriod     = 20
	ROCFast       = 5
	ROCSlow       = 14

	// WarmupPeriod is the longest lookback; rows before WarmupPeriod-1 are dropped.
	WarmupPeriod = 50
	// DefaultMinRows is the fewest usable rows an analysis accepts.
	DefaultMinRows = 50
)

// Compute validates series and derives one IndicatorRow per candle, dropping warm-up rows
// and any row with a non-finite value. It fails with *model.InsufficientDataError when fewer
// than minRows rows survive. The series is not modified.
func Compute(series model.Series, minRows int) ([]model.IndicatorRow, error) {
	if minRows < 1 {
		minRows = 1
	}
	if err := Validate(series); err != nil {
		return nil, err
	}
	n := len(series.Candles)
	if n < WarmupPeriod {
		return nil, &model.InsufficientDataError{Rows: 0, Min: minRows}
	}

	c := extractColumns(series.Candles)

	rsi14 := RSI(c.close, RSIFast)
	rsi21 := RSI(c.close, RSISlow)
	stochK, stochD := Stochastic(c.high, c.low, c.close, StochPeriod, StochSmoothD)
	willR := WilliamsR(c.high, c.low, c.close, WilliamsLen)
	roc5 := mask(talib.Roc(c.close, ROCFast), ROCFast)
	roc14 := mask(talib.Roc(c.close, ROCSlow), ROCSlow)

	ema9 := EMA(c.close, EMAFast)
	ema21 := EMA(c.close, EMAMid)
	ema50 := EMA(c.close, EMASlow)
	sma20 := SMA(c.close, SMAFast)
	sma50 := SMA(c.close, SMASlow)
	macd, macdSignal, macdHist := talib.Macd(c.close, MACDFast, MACDSlow, MACDSignalLen)
	macdLookback := MACDSlow + MACDSignalLen - 2
	mask(macd, macdLookback)
	mask(macdSignal, macdLookback)
	mask(macdHist, macdLookback)
	adx := mask(talib.Adx(c.high, c.low, c.close, ADXPeriod), 2*ADXPeriod-1)
	plusDI := mask(talib.PlusDI(c.high, c.low, c.close, ADXPeriod), ADXPeriod)
	minusDI := mask(talib.MinusDI(c.high, c.low, c.close, ADXPeriod), ADXPeriod)

	bb := Bollinger(c.close, BBPeriod, BBDev)
	kc := Keltner(c.high, c.low, c.close, KCPeriod, KCATRPeriod, KCMultiplier)
	atr := ATR(c.high, c.low, c.close, ATRPeriod)

	volSMA, volRatio := VolumeRatio(c.volume, VolumePeriod)
	obv := OBV(c.close, c.volume)
	cmf := CMF(c.high, c.low, c.close, c.volume, CMFPeriod)

	rows := make([]model.IndicatorRow, 0, n-WarmupPeriod+1)
	for i := WarmupPeriod - 1; i < n; i++ {
		cd := series.Candles[i]
		pa := MeasureCandle(cd)
		pivot, r1, s1 := Pivots(cd)
		row := model.IndicatorRow{
			Time:   cd.Time,
			Open:   cd.Open,
			High:   cd.High,
			Low:    cd.Low,
			Close:  cd.Close,
			Volume: cd.Volume,

			RSI14:     rsi14[i],
			RSI21:     rsi21[i],
			StochK:    stochK[i],
			StochD:    stochD[i],
			WilliamsR: willR[i],
			ROC5:      roc5[i],
			ROC14:     roc14[i],

			EMA9:       ema9[i],
			EMA21:      ema21[i],
			EMA50:      ema50[i],
			SMA20:      sma20[i],
			SMA50:      sma50[i],
			MACD:       macd[i],
			MACDSignal: macdSignal[i],
			MACDHist:   macdHist[i],
			ADX:        adx[i],
			PlusDI:     plusDI[i],
			MinusDI:    minusDI[i],

			BBUpper:    bb.Upper[i],
			BBMiddle:   bb.Middle[i],
			BBLower:    bb.Lower[i],
			BBWidth:    BandWidth(bb.Upper[i], bb.Middle[i], bb.Lower[i]),
			BBPosition: BandPosition(cd.Close, bb.Upper[i], bb.Lower[i]),
			KCUpper:    kc.Upper[i],
			KCMiddle:   kc.Middle[i],
			KCLower:    kc.Lower[i],
			ATR:        atr[i],
			ATRPct:     atr[i] / cd.Close * 100,

			VolumeSMA:   volSMA[i],
			VolumeRatio: volRatio[i],
			OBV:         obv[i],
			CMF:         cmf[i],

			BodyPct:      pa.BodyPct,
			UpperWickPct: pa.UpperWickPct,
			LowerWickPct: pa.LowerWickPct,
			RangePct:     pa.RangePct,

			Pivot: pivot,
			R1:    r1,
			S1:    s1,
		}
		if !row.Complete() {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) < minRows {
		return nil, &model.InsufficientDataError{Rows: len(rows), Min: minRows}
	}
	return rows, nil
}

// Latest returns the most recent row.
func Latest(rows []model.IndicatorRow) (model.IndicatorRow, bool) {
	if len(rows) == 0 {
		return model.IndicatorRow{}, false
	}
	return rows[len(rows)-1], true
}
