package strategy

import (
	"fmt"

	"MarketConfluence/internal/model"
)

// Config is the immutable tuning of the engine.
type Config struct {
	// ConfluenceThreshold is the minimum winning score for a directional bias.
	ConfluenceThreshold int
	// PlanConfidence is the confidence a directional bias must exceed to get a directional plan.
	PlanConfidence float64
	// StopATRMultiple scales ATR into the plan's stop distance.
	StopATRMultiple float64
}

// DefaultConfig returns the stock engine settings.
func DefaultConfig() Config {
	return Config{
		ConfluenceThreshold: 3,
		PlanConfidence:      60,
		StopATRMultiple:     1.5,
	}
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	if c.ConfluenceThreshold < 0 {
		return fmt.Errorf("confluence threshold must be non-negative, got %d", c.ConfluenceThreshold)
	}
	if c.PlanConfidence < 0 || c.PlanConfidence > 100 {
		return fmt.Errorf("plan confidence must be within [0,100], got %.1f", c.PlanConfidence)
	}
	if c.StopATRMultiple <= 0 {
		return fmt.Errorf("stop ATR multiple must be positive, got %.2f", c.StopATRMultiple)
	}
	return nil
}

// Classifier inspects one indicator row and emits signals.
type Classifier func(row *model.IndicatorRow) model.ConfluenceSet

// Classifiers run in this order; bucket order in the merged set follows it.
var Classifiers = []struct {
	Name string
	Fn   Classifier
}{
	{"momentum", classifyMomentum},
	{"trend", classifyTrend},
	{"volatility", classifyVolatility},
	{"volume", classifyVolume},
	{"price_action", classifyPriceAction},
}

// Classify runs every classifier on row and merges their output.
func Classify(row *model.IndicatorRow) model.ConfluenceSet {
	var set model.ConfluenceSet
	for _, c := range Classifiers {
		set.Merge(c.Fn(row))
	}
	return set
}

// Aggregate scores set and picks the bias. Equal bullish and bearish scores are always mixed.
func Aggregate(set model.ConfluenceSet, threshold int) model.Bias {
	bull := model.Score(set.Bullish)
	bear := model.Score(set.Bearish)
	neutral := model.Score(set.Neutral)
	total := bull + bear + neutral

	bias := model.Bias{BullishScore: bull, BearishScore: bear, NeutralScore: neutral}
	if total == 0 {
		bias.Label = model.BiasNoSignal
		return bias
	}

	pct := func(score int) float64 { return float64(score) / float64(total) * 100 }
	switch {
	case bull > bear && bull >= threshold:
		bias.Label = model.BiasBullish
		bias.Confidence = pct(bull)
	case bear > bull && bear >= threshold:
		bias.Label = model.BiasBearish
		bias.Confidence = pct(bear)
	default:
		bias.Label = model.BiasMixed
		bias.Confidence = pct(max(bull, bear))
	}
	return bias
}

// Result is the engine's verdict for one row.
type Result struct {
	Confluences model.ConfluenceSet
	Bias        model.Bias
	Plan        model.TradingPlan
	Insights    []model.Insight
}

// Engine applies a fixed Config to indicator rows.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and builds an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine settings.
func (e *Engine) Config() Config { return e.cfg }

// Evaluate classifies row, aggregates the signals and composes the plan.
func (e *Engine) Evaluate(row *model.IndicatorRow) *Result {
	set := Classify(row)
	bias := Aggregate(set, e.cfg.ConfluenceThreshold)
	return &Result{
		Confluences: set,
		Bias:        bias,
		Plan:        ComposePlan(bias, row, e.cfg),
		Insights:    Insights(row),
	}
}
