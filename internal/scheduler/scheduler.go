package scheduler

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MarketConfluence/internal/model"
	"MarketConfluence/internal/notifier"
	"MarketConfluence/internal/recorder"
	"MarketConfluence/internal/risk"
)

// Runner produces one analysis.
type Runner interface {
	Run(ctx context.Context, req model.Request) (*model.Analysis, error)
}

// Sender delivers a message to the operator.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// HistoryLimit is the number of records /history shows.
const HistoryLimit = 10

// Scheduler runs the watchlist on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Runner
	Sizer     *risk.Sizer
	Notifier  Sender
	Recorder  recorder.Recorder
	Watchlist []string
	Interval  model.Interval
	Limit     int
	Ctx       context.Context

	log *zap.Logger
}

// NewScheduler creates a new Scheduler. sizer may be nil.
func NewScheduler(ctx context.Context, an Runner, sizer *risk.Sizer, sender Sender, rec recorder.Recorder,
	watchlist []string, interval model.Interval, limit int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Sizer:     sizer,
		Notifier:  sender,
		Recorder:  rec,
		Watchlist: watchlist,
		Interval:  interval,
		Limit:     limit,
		Ctx:       ctx,
		log:       log,
	}
}

// Register adds the watchlist scan on the cron schedule.
func (s *Scheduler) Register(schedule string) error {
	if _, err := s.Cron.AddFunc(schedule, s.scanWatchlist); err != nil {
		return fmt.Errorf("register watchlist scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", zap.Int("watchlist", len(s.Watchlist)), zap.Stringer("interval", s.Interval))
}

// Stop stops the cron scheduler and waits for a running scan.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the watchlist scan immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanWatchlist()
}

// scanWatchlist analyses each symbol in turn, records it and sends one summary.
func (s *Scheduler) scanWatchlist() {
	s.log.Info("running watchlist scan")
	var done []*model.Analysis
	var failures []notifier.ScanFailure
	for _, symbol := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		an, err := s.analyze(s.Ctx, symbol, s.Interval)
		if err != nil {
			s.log.Error("watchlist analysis failed", zap.String("symbol", symbol), zap.Error(err))
			failures = append(failures, notifier.ScanFailure{Symbol: symbol, Err: err})
			continue
		}
		done = append(done, an)
	}
	if len(done) == 0 && len(failures) == 0 {
		return
	}
	s.trySend(notifier.FormatSummary(done, failures))
}

func (s *Scheduler) analyze(ctx context.Context, symbol string, iv model.Interval) (*model.Analysis, error) {
	an, err := s.Analyzer.Run(ctx, model.Request{Symbol: symbol, Interval: iv, Limit: s.Limit})
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordAnalysis(ctx, an); err != nil {
		s.log.Error("record analysis", zap.String("symbol", symbol), zap.Error(err))
	}
	return an, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	// Telegram appends the bot name in groups: /analyze@MyBot
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch cmd {
	case "/analyze":
		return s.cmdAnalyze(ctx, args)
	case "/history":
		return s.cmdHistory(ctx, args)
	case "/watchlist":
		return s.cmdWatchlist()
	case "/balance":
		return s.cmdBalance(args)
	default:
		return helpText
	}
}

const helpText = `Available commands:
/analyze SYMBOL [INTERVAL] - full confluence analysis
/history [SYMBOL] - recent recorded analyses
/watchlist - scheduled symbols
/balance [AMOUNT] - show or set the sizing balance`

func (s *Scheduler) cmdAnalyze(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /analyze SYMBOL [INTERVAL]"
	}
	iv := s.Interval
	if len(args) > 1 {
		parsed, err := model.ParseInterval(args[1])
		if err != nil {
			return html.EscapeString(fmt.Sprintf("Unknown interval %q. Supported: %s", args[1], intervalList()))
		}
		iv = parsed
	}
	an, err := s.analyze(ctx, strings.ToUpper(args[0]), iv)
	if err != nil {
		return html.EscapeString(fmt.Sprintf("Analysis failed: %v", err))
	}
	return notifier.FormatAnalysis(an, notifier.HTML)
}

func (s *Scheduler) cmdHistory(ctx context.Context, args []string) string {
	symbol := ""
	if len(args) > 0 {
		symbol = strings.ToUpper(args[0])
	}
	recs, err := s.Recorder.Recent(ctx, symbol, HistoryLimit)
	if err != nil {
		return html.EscapeString(fmt.Sprintf("History unavailable: %v", err))
	}
	label := symbol
	if label == "" {
		label = "all symbols"
	}
	return notifier.FormatHistory(label, recs)
}

func (s *Scheduler) cmdWatchlist() string {
	if len(s.Watchlist) == 0 {
		return "Watchlist is empty"
	}
	return fmt.Sprintf("Watchlist (%s): %s", s.Interval, strings.Join(s.Watchlist, ", "))
}

func (s *Scheduler) cmdBalance(args []string) string {
	if s.Sizer == nil {
		return "Position sizing is disabled"
	}
	if len(args) > 0 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return html.EscapeString(fmt.Sprintf("Invalid amount %q", args[0]))
		}
		if err := s.Sizer.SetBalance(v); err != nil {
			return fmt.Sprintf("Balance not updated: %v", err)
		}
	}
	acc := s.Sizer.Account()
	return fmt.Sprintf("Balance: $%.2f | Risk per trade: %.2f%% ($%.2f)", acc.Balance, acc.RiskPct, acc.Balance*acc.RiskPct/100)
}

func intervalList() string {
	names := make([]string, len(model.Intervals))
	for i, iv := range model.Intervals {
		names[i] = iv.String()
	}
	return strings.Join(names, " ")
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error("send notification", zap.Error(err))
	}
}
