package notifier

import (
	"fmt"
	"html"
	"strings"

	"MarketConfluence/internal/model"
	"MarketConfluence/internal/strategy"
)

// Style selects plain terminal text or Telegram HTML.
type Style int

const (
	Plain Style = iota
	HTML
)

const rule = "============================================================"

// report builds text in either style. Every dynamic value is escaped in HTML mode.
type report struct {
	b     strings.Builder
	style Style
}

func (r *report) esc(s string) string {
	if r.style == HTML {
		return html.EscapeString(s)
	}
	return s
}

func (r *report) heading(format string, args ...any) {
	text := r.esc(fmt.Sprintf(format, args...))
	if r.style == HTML {
		r.b.WriteString("\n<b>" + text + "</b>\n")
		return
	}
	r.b.WriteString("\n" + text + "\n")
}

func (r *report) line(format string, args ...any) {
	r.b.WriteString(r.esc(fmt.Sprintf(format, args...)))
	r.b.WriteByte('\n')
}

// FormatAnalysis renders a full analysis report.
func FormatAnalysis(a *model.Analysis, style Style) string {
	r := &report{style: style}
	row := &a.Latest

	if style == Plain {
		r.line(rule)
	}
	r.heading("TECHNICAL ANALYSIS - %s (%s)", a.Symbol, a.Interval)
	if style == Plain {
		r.line(rule)
	}
	r.line("Analysis Time: %s", a.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	r.line("Timeframe: %s", a.Interval.Label())
	r.line("Data Source: %s (%d rows)", a.Source, a.Rows)
	r.line("Current Price: $%.4f", row.Close)
	r.line("Range: $%.4f - $%.4f", row.Low, row.High)
	for _, w := range a.Warnings {
		r.line("Warning: %s", w)
	}

	r.heading("OVERALL MARKET BIAS: %s (%.1f%% confidence)", a.Bias.Label, a.Bias.Confidence)
	r.line("Scores: Bullish %d | Bearish %d | Neutral %d", a.Bias.BullishScore, a.Bias.BearishScore, a.Bias.NeutralScore)

	writeBucket(r, "BULLISH", a.Confluences.Bullish)
	writeBucket(r, "BEARISH", a.Confluences.Bearish)
	writeBucket(r, "NEUTRAL", a.Confluences.Neutral)

	r.heading("KEY LEVELS")
	r.line("Pivot Point: $%.4f", row.Pivot)
	r.line("Resistance 1: $%.4f", row.R1)
	r.line("Support 1: $%.4f", row.S1)
	r.line("BB Upper: $%.4f", row.BBUpper)
	r.line("BB Lower: $%.4f", row.BBLower)
	r.line("EMA 21: $%.4f", row.EMA21)
	r.line("EMA 50: $%.4f", row.EMA50)

	r.heading("RISK MANAGEMENT")
	r.line("ATR: $%.4f (%.2f%%)", row.ATR, row.ATRPct)
	r.line("Suggested Stop Distance: $%.4f", a.SuggestedStop)
	r.line("Volatility Level: %s", strategy.VolatilityLevel(row.ATRPct))

	r.heading("TRADING PLAN - %s", a.Plan.Title)
	for _, l := range a.Plan.Lines {
		r.line("  %s", l)
	}
	r.line("")
	r.line("  Risk Management Rules:")
	for _, l := range a.Plan.Risk {
		r.line("  - %s", l)
	}
	if p := a.Plan.Position; p != nil {
		r.line("")
		r.line("  Position Size: %.6f units ($%.2f notional)", p.Quantity, p.Notional)
		r.line("  Entry $%.4f | Stop $%.4f | Risk $%.2f (%.2f%% of $%.2f)", p.Entry, p.Stop, p.RiskAmount, p.RiskPct, p.Balance)
	}

	r.heading("MARKET INSIGHTS")
	for _, in := range a.Insights {
		r.line("%s: %s", in.Topic, in.Text)
	}

	r.line("")
	r.line("This analysis is for educational purposes. Always use proper risk management!")
	return strings.TrimLeft(r.b.String(), "\n")
}

func writeBucket(r *report, name string, signals []model.Signal) {
	r.heading("%s CONFLUENCES (%d signals)", name, len(signals))
	if len(signals) == 0 {
		r.line("  None")
		return
	}
	for i, s := range signals {
		r.line("%d. %s [%s] - %s", i+1, s.Indicator, s.Strength, s.Timeframe)
		r.line("   Condition: %s", s.Condition)
		r.line("   Implication: %s", s.Implication)
	}
}

// ScanFailure is a watchlist symbol whose analysis failed.
type ScanFailure struct {
	Symbol string
	Err    error
}

// FormatSummary renders one line per analysis, for the scheduled watchlist run.
// Failures are listed in the order given.
func FormatSummary(analyses []*model.Analysis, failures []ScanFailure) string {
	r := &report{style: HTML}
	r.heading("Watchlist confluence scan")
	for _, a := range analyses {
		r.line("%s %s: %s %.1f%% | $%.4f | plan %s",
			a.Symbol, a.Interval, a.Bias.Label, a.Bias.Confidence, a.Latest.Close, a.Plan.Kind)
	}
	for _, f := range failures {
		r.line("%s: failed (%v)", f.Symbol, f.Err)
	}
	return strings.TrimLeft(r.b.String(), "\n")
}

// FormatHistory renders recorded analyses newest first.
func FormatHistory(symbol string, recs []model.AnalysisRecord) string {
	r := &report{style: HTML}
	if len(recs) == 0 {
		r.line("No recorded analyses for %s", symbol)
		return r.b.String()
	}
	r.heading("Recent analyses - %s", symbol)
	for _, rec := range recs {
		r.line("%s %s %s: %s %.1f%% (B%d/S%d/N%d) RSI %.1f ADX %.1f",
			rec.GeneratedAt.Format("01-02 15:04"), rec.Symbol, rec.Interval, rec.Bias, rec.Confidence,
			rec.BullishScore, rec.BearishScore, rec.NeutralScore, rec.RSI14, rec.ADX)
	}
	return strings.TrimLeft(r.b.String(), "\n")
}
