package strategy

import (
	"math"
	"strings"
	"testing"

	"MarketConfluence/internal/model"
)

func planRow() model.IndicatorRow {
	row := quietRow()
	row.EMA21, row.EMA50 = 100, 95
	row.BBUpper, row.BBMiddle, row.BBLower = 110, 100, 90
	row.R1, row.S1 = 105, 97
	row.ATR, row.VolumeSMA = 2, 1234.4
	return row
}

func TestComposePlan_Templates(t *testing.T) {
	tests := []struct {
		name   string
		bias   model.Bias
		kind   model.PlanKind
		title  string
		first  string
		target float64
	}{
		{"bullish", model.Bias{Label: model.BiasBullish, Confidence: 61}, model.PlanBullish,
			"BULLISH SETUP IDENTIFIED", "Entry Strategy: Look for pullbacks to EMA 21 ($100.0000) or BB Middle", 105},
		{"bearish", model.Bias{Label: model.BiasBearish, Confidence: 80}, model.PlanBearish,
			"BEARISH SETUP IDENTIFIED", "Entry Strategy: Look for rallies to EMA 21 ($100.0000) or BB Middle", 97},
		{"bullish at gate", model.Bias{Label: model.BiasBullish, Confidence: 60}, model.PlanRange,
			"MIXED/RANGING MARKET", "Strategy: Range trading between key levels", 0},
		{"mixed", model.Bias{Label: model.BiasMixed, Confidence: 90}, model.PlanRange,
			"MIXED/RANGING MARKET", "Strategy: Range trading between key levels", 0},
		{"no signal", model.Bias{Label: model.BiasNoSignal}, model.PlanRange,
			"MIXED/RANGING MARKET", "Strategy: Range trading between key levels", 0},
	}
	row := planRow()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComposePlan(tt.bias, &row, DefaultConfig())
			if p.Kind != tt.kind || p.Title != tt.title {
				t.Fatalf("expected %s %q, got %s %q", tt.kind, tt.title, p.Kind, p.Title)
			}
			if p.Lines[0] != tt.first {
				t.Errorf("expected first line %q, got %q", tt.first, p.Lines[0])
			}
			if tt.target != 0 {
				if got, ok := p.Level(LevelTarget1); !ok || got != tt.target {
					t.Errorf("expected target 1 %.2f, got %.2f", tt.target, got)
				}
			}
			if len(p.Risk) != 4 {
				t.Fatalf("expected 4 risk rules, got %d", len(p.Risk))
			}
			if p.Risk[2] != "Volume Confirmation: Wait for volume > 1234" {
				t.Errorf("unexpected volume rule %q", p.Risk[2])
			}
			if p.VolumeConfirmation != row.VolumeSMA {
				t.Errorf("expected volume confirmation %.1f, got %.1f", row.VolumeSMA, p.VolumeConfirmation)
			}
		})
	}
}

func TestComposePlan_StopDistance(t *testing.T) {
	row := planRow()
	bull := ComposePlan(model.Bias{Label: model.BiasBullish, Confidence: 75}, &row, DefaultConfig())
	if bull.StopDistance != 3 {
		t.Errorf("expected 1.5 x ATR = 3, got %.2f", bull.StopDistance)
	}
	if stop, _ := bull.Level(LevelATRStop); stop != 97 {
		t.Errorf("expected ATR stop 97, got %.2f", stop)
	}
	if !strings.Contains(bull.Lines[1], "3.0000 below entry") {
		t.Errorf("unexpected stop line %q", bull.Lines[1])
	}

	bear := ComposePlan(model.Bias{Label: model.BiasBearish, Confidence: 75}, &row, DefaultConfig())
	if stop, _ := bear.Level(LevelATRStop); stop != 103 {
		t.Errorf("expected ATR stop 103, got %.2f", stop)
	}

	rng := ComposePlan(model.Bias{Label: model.BiasMixed}, &row, DefaultConfig())
	if rng.StopDistance != row.ATR {
		t.Errorf("expected range stop of 1 x ATR, got %.2f", rng.StopDistance)
	}
	if Directional(&rng) {
		t.Error("range plan must not be directional")
	}

	cfg := DefaultConfig()
	cfg.StopATRMultiple = 2
	wide := ComposePlan(model.Bias{Label: model.BiasBullish, Confidence: 75}, &row, cfg)
	if math.Abs(wide.StopDistance-4) > 1e-12 {
		t.Errorf("expected configured multiple to apply, got %.2f", wide.StopDistance)
	}
}

func TestInsights(t *testing.T) {
	row := quietRow()
	row.RSI14, row.EMA9, row.EMA21, row.BBWidth, row.VolumeRatio, row.ATRPct = 62, 101, 100, 7, 0.5, 2
	got := Insights(&row)
	want := []string{
		"Bullish momentum (RSI: 62.0)",
		"Bullish (EMA 9 > EMA 21)",
		"High - Potential mean reversion (BB Width: 7.00%)",
		"Below average (0.5x) - Weak participation",
		"Medium (ATR: 2.00%)",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d insights, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("insight %d: expected %q, got %q", i, want[i], got[i].Text)
		}
	}
}

func TestVolatilityLevel(t *testing.T) {
	tests := []struct {
		atrPct float64
		want   string
	}{
		{0.5, "Low"}, {1.5, "Low"}, {1.51, "Medium"}, {3, "Medium"}, {3.1, "High"},
	}
	for _, tt := range tests {
		if got := VolatilityLevel(tt.atrPct); got != tt.want {
			t.Errorf("ATR%% %.2f: expected %s, got %s", tt.atrPct, tt.want, got)
		}
	}
}
