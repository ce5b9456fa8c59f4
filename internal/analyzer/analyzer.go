package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"MarketConfluence/internal/collector"
	"MarketConfluence/internal/logger"
	"MarketConfluence/internal/model"
	"MarketConfluence/internal/risk"
	"MarketConfluence/internal/strategy"
)

// RecommendedRows is the row count below which a run carries a data warning.
const RecommendedRows = 100

// Analyzer runs the full pipeline for one symbol and interval.
type Analyzer struct {
	collector *collector.Collector
	engine    *strategy.Engine
	sizer     *risk.Sizer
	log       *zap.Logger
	now       func() time.Time
}

// New creates an Analyzer. sizer may be nil.
func New(col *collector.Collector, engine *strategy.Engine, sizer *risk.Sizer, log *zap.Logger) *Analyzer {
	return &Analyzer{collector: col, engine: engine, sizer: sizer, log: log, now: time.Now}
}

// Run fetches data, computes indicators and evaluates the latest complete row.
func (a *Analyzer) Run(ctx context.Context, req model.Request) (_ *model.Analysis, err error) {
	ctx, span := logger.StartSpan(ctx, "analyzer.Run",
		attribute.String("symbol", req.Symbol),
		attribute.String("interval", req.Interval.String()),
		attribute.Int("limit", req.Limit),
	)
	defer func() { logger.EndSpan(span, err) }()
	log := logger.WithTrace(ctx, a.log).With(zap.String("symbol", req.Symbol), zap.Stringer("interval", req.Interval))

	snap, err := a.collector.Collect(ctx, req)
	if err != nil {
		log.Warn("collect failed", zap.Error(err))
		return nil, fmt.Errorf("analyze %s: %w", req.Symbol, err)
	}

	row := snap.Latest()
	res := a.engine.Evaluate(&row)
	cfg := a.engine.Config()

	an := &model.Analysis{
		ID:            uuid.New(),
		Symbol:        req.Symbol,
		Interval:      req.Interval,
		Source:        snap.Source,
		GeneratedAt:   a.now().UTC(),
		Rows:          len(snap.Rows),
		Latest:        row,
		Confluences:   res.Confluences,
		Bias:          res.Bias,
		Plan:          res.Plan,
		Insights:      res.Insights,
		SuggestedStop: row.ATR * cfg.StopATRMultiple,
	}
	if an.Rows < RecommendedRows {
		an.Warnings = append(an.Warnings,
			fmt.Sprintf("only %d data points available, at least %d recommended", an.Rows, RecommendedRows))
	}

	if a.sizer != nil && a.sizer.Enabled() && strategy.Directional(&an.Plan) {
		a.size(an, log)
	}

	log.Info("analysis complete",
		zap.String("id", an.ID.String()),
		zap.String("source", an.Source),
		zap.String("bias", string(an.Bias.Label)),
		zap.Float64("confidence", an.Bias.Confidence),
		zap.Int("rows", an.Rows),
	)
	return an, nil
}

// size attaches a position to a directional plan. Sizing failures only produce a warning.
func (a *Analyzer) size(an *model.Analysis, log *zap.Logger) {
	entry, ok1 := an.Plan.Level(strategy.LevelEntry)
	stop, ok2 := an.Plan.Level(strategy.LevelATRStop)
	if !ok1 || !ok2 {
		return
	}
	pos, err := a.sizer.Size(entry, stop)
	if err != nil {
		log.Warn("position sizing skipped", zap.Error(err))
		an.Warnings = append(an.Warnings, "position sizing skipped: "+err.Error())
		return
	}
	an.Plan.Position = pos
}
