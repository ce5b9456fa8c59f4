package calculator

import (
	"math"
	"testing"

	"MarketConfluence/internal/model"
)

func TestRSI_Boundaries(t *testing.T) {
	rising := make([]float64, 120)
	falling := make([]float64, 120)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 500 - float64(i)
	}
	if got := RSI(rising, 14); got[len(got)-1] != 100 {
		t.Errorf("rising: expected 100, got %.2f", got[len(got)-1])
	}
	if got := RSI(falling, 14); got[len(got)-1] != 0 {
		t.Errorf("falling: expected 0, got %.2f", got[len(got)-1])
	}
	got := RSI(rising[:10], 14)
	for _, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("expected NaN when data is insufficient, got %.2f", v)
		}
	}
}

func TestRSI_KnownValue(t *testing.T) {
	// Alternating +2/-1 moves: average gain 1, average loss 0.5 after seeding on 14 changes.
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		if i%2 == 0 {
			closes = append(closes, closes[len(closes)-1]+2)
		} else {
			closes = append(closes, closes[len(closes)-1]-1)
		}
	}
	got := RSI(closes, 14)[14]
	want := 100 - 100/(1+2.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.4f, got %.4f", want, got)
	}
}

func TestBandPosition(t *testing.T) {
	tests := []struct {
		name                string
		price, upper, lower float64
		want                float64
	}{
		{"at upper", 110, 110, 90, 1.0},
		{"at lower", 90, 110, 90, 0.0},
		{"middle", 100, 110, 90, 0.5},
		{"above upper", 120, 110, 90, 1.5},
		{"below lower", 80, 110, 90, -0.5},
		{"collapsed", 100, 100, 100, 0.5},
	}
	for _, tt := range tests {
		if got := BandPosition(tt.price, tt.upper, tt.lower); got != tt.want {
			t.Errorf("%s: expected %.2f, got %.2f", tt.name, tt.want, got)
		}
	}
}

func TestBandWidth(t *testing.T) {
	if got := BandWidth(110, 100, 90); got != 20 {
		t.Errorf("expected 20, got %.2f", got)
	}
	if got := BandWidth(1, 0, -1); !math.IsNaN(got) {
		t.Errorf("expected NaN for zero middle, got %.2f", got)
	}
}

func TestStochasticAndWilliams(t *testing.T) {
	highs := []float64{10, 11, 12, 13, 14}
	lows := []float64{8, 9, 10, 11, 12}
	closes := []float64{9, 10, 11, 12, 12}
	k, d := Stochastic(highs, lows, closes, 3, 2)
	// Last window: HH=14, LL=10, close=12 -> 50.
	if k[4] != 50 {
		t.Errorf("expected %%K 50, got %.2f", k[4])
	}
	// Previous window: HH=13, LL=9, close=12 -> 75.
	if d[4] != (75.0+50.0)/2 {
		t.Errorf("expected %%D 62.5, got %.2f", d[4])
	}
	if !math.IsNaN(d[2]) {
		t.Errorf("expected %%D warm-up NaN, got %.2f", d[2])
	}
	w := WilliamsR(highs, lows, closes, 3)
	if w[4] != -50 {
		t.Errorf("expected %%R -50, got %.2f", w[4])
	}
	for i := 2; i < len(w); i++ {
		if w[i] < -100 || w[i] > 0 {
			t.Errorf("%%R out of range at %d: %.2f", i, w[i])
		}
	}
}

func TestCMF(t *testing.T) {
	highs := []float64{11, 11, 11}
	lows := []float64{9, 9, 9}
	closes := []float64{11, 9, 10}
	volumes := []float64{100, 100, 0}
	got := CMF(highs, lows, closes, volumes, 2)
	// Window [1,2]: flows -100 and 0 over volume 100.
	if got[2] != -1 {
		t.Errorf("expected -1, got %.3f", got[2])
	}
	// Window [0,1]: flows cancel.
	if got[1] != 0 {
		t.Errorf("expected 0, got %.3f", got[1])
	}
	zero := CMF(highs, lows, closes, []float64{0, 0, 0}, 2)
	if zero[2] != 0 {
		t.Errorf("expected 0 with no volume, got %.3f", zero[2])
	}
}

func TestVolumeRatio(t *testing.T) {
	vols := []float64{100, 100, 100, 400}
	avg, ratio := VolumeRatio(vols, 4)
	if avg[3] != 175 {
		t.Errorf("expected average 175, got %.2f", avg[3])
	}
	if math.Abs(ratio[3]-400.0/175.0) > 1e-12 {
		t.Errorf("unexpected ratio %.4f", ratio[3])
	}
	_, ratio = VolumeRatio([]float64{0, 0}, 2)
	if ratio[1] != 1 {
		t.Errorf("expected ratio 1 with zero average, got %.2f", ratio[1])
	}
}

func TestOBV(t *testing.T) {
	closes := []float64{10, 11, 10, 10, 12}
	vols := []float64{5, 3, 2, 7, 4}
	got := OBV(closes, vols)
	want := []float64{5, 8, 6, 6, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OBV[%d]: expected %.0f, got %.0f", i, want[i], got[i])
		}
	}
}

func TestMeasureCandleAndPivots(t *testing.T) {
	c := model.Candle{Open: 100, High: 106, Low: 97, Close: 104}
	pa := MeasureCandle(c)
	want := PriceAction{BodyPct: 4, UpperWickPct: 2, LowerWickPct: 3, RangePct: 9}
	if !approx(pa.BodyPct, want.BodyPct) || !approx(pa.UpperWickPct, want.UpperWickPct) ||
		!approx(pa.LowerWickPct, want.LowerWickPct) || !approx(pa.RangePct, want.RangePct) {
		t.Errorf("expected %+v, got %+v", want, pa)
	}
	pivot, r1, s1 := Pivots(c)
	if math.Abs(pivot-(106+97+104)/3.0) > 1e-12 {
		t.Errorf("unexpected pivot %.4f", pivot)
	}
	if math.Abs(r1-(2*pivot-97)) > 1e-12 || math.Abs(s1-(2*pivot-106)) > 1e-12 {
		t.Errorf("unexpected R1/S1 %.4f/%.4f", r1, s1)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
