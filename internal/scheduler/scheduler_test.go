package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MarketConfluence/internal/model"
	"MarketConfluence/internal/recorder"
	"MarketConfluence/internal/risk"
)

type stubRunner struct {
	mu    sync.Mutex
	calls []model.Request
	fail  map[string]bool
}

func (r *stubRunner) Run(_ context.Context, req model.Request) (*model.Analysis, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	if r.fail[req.Symbol] {
		return nil, errors.New("data unavailable")
	}
	return &model.Analysis{
		ID:          uuid.New(),
		Symbol:      req.Symbol,
		Interval:    req.Interval,
		Source:      "stub",
		GeneratedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Rows:        150,
		Latest:      model.IndicatorRow{Close: 100, RSI14: 55, ADX: 22},
		Bias:        model.Bias{Label: model.BiasBullish, Confidence: 70, BullishScore: 7, BearishScore: 2},
		Plan:        model.TradingPlan{Kind: model.PlanBullish, Title: "Bullish Setup"},
	}, nil
}

type stubSender struct {
	messages []string
}

func (s *stubSender) SendWithRetry(_ context.Context, text string, _ int) error {
	s.messages = append(s.messages, text)
	return nil
}

func newTestScheduler(t *testing.T, runner *stubRunner, sizer *risk.Sizer) (*Scheduler, *stubSender) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	sender := &stubSender{}
	s := NewScheduler(context.Background(), runner, sizer, sender, rec,
		[]string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, model.Interval1h, 200, zap.NewNop())
	return s, sender
}

func TestScanWatchlist(t *testing.T) {
	runner := &stubRunner{fail: map[string]bool{"ETHUSDT": true}}
	s, sender := newTestScheduler(t, runner, nil)

	s.RunNow()

	if len(runner.calls) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runner.calls))
	}
	for i, sym := range []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"} {
		if runner.calls[i].Symbol != sym || runner.calls[i].Interval != model.Interval1h || runner.calls[i].Limit != 200 {
			t.Errorf("call %d: unexpected request %+v", i, runner.calls[i])
		}
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected one summary message, got %d", len(sender.messages))
	}
	msg := sender.messages[0]
	for _, want := range []string{"BTCUSDT 1h: Bullish Bias 70.0%", "SOLUSDT", "ETHUSDT: failed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("summary missing %q:\n%s", want, msg)
		}
	}

	recs, err := s.Recorder.Recent(context.Background(), "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 recorded analyses, got %d", len(recs))
	}
}

func TestScanWatchlist_FailuresInWatchlistOrder(t *testing.T) {
	runner := &stubRunner{fail: map[string]bool{"BTCUSDT": true, "ETHUSDT": true, "SOLUSDT": true}}
	s, sender := newTestScheduler(t, runner, nil)

	for i := 0; i < 5; i++ {
		s.RunNow()
	}
	if len(sender.messages) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(sender.messages))
	}
	msg := sender.messages[0]
	btc, eth, sol := strings.Index(msg, "BTCUSDT: failed"), strings.Index(msg, "ETHUSDT: failed"), strings.Index(msg, "SOLUSDT: failed")
	if btc < 0 || !(btc < eth && eth < sol) {
		t.Errorf("failures out of watchlist order:\n%s", msg)
	}
	for _, m := range sender.messages[1:] {
		if m != msg {
			t.Fatal("summary differs between identical runs")
		}
	}
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t, &stubRunner{}, nil)
	if err := s.Register("0 0 * * * *"); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
	if err := s.Register("not a cron"); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected 1 cron entry, got %d", n)
	}
}

func TestHandleCommand(t *testing.T) {
	sizer, err := risk.NewSizer("", 5000, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	runner := &stubRunner{}
	s, _ := newTestScheduler(t, runner, sizer)
	ctx := context.Background()

	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"help", "/start", []string{"/analyze SYMBOL [INTERVAL]", "/balance"}},
		{"analyze default interval", "/analyze btcusdt", []string{"TECHNICAL ANALYSIS - BTCUSDT (1h)", "Bullish Bias"}},
		{"analyze with interval", "/analyze@ConfluenceBot ethusdt 4h", []string{"ETHUSDT (4h)"}},
		{"analyze usage", "/analyze", []string{"Usage: /analyze"}},
		{"analyze bad interval", "/analyze BTCUSDT 7m", []string{"Unknown interval &#34;7m&#34;", "15m"}},
		{"history", "/history BTCUSDT", []string{"Recent analyses - BTCUSDT", "Bullish Bias"}},
		{"history empty", "/history DOGEUSDT", []string{"No recorded analyses for DOGEUSDT"}},
		{"watchlist", "/watchlist", []string{"BTCUSDT, ETHUSDT, SOLUSDT"}},
		{"balance", "/balance", []string{"Balance: $5000.00", "2.00% ($100.00)"}},
		{"balance set", "/balance 8000", []string{"Balance: $8000.00", "($160.00)"}},
		{"balance invalid", "/balance lots", []string{"Invalid amount"}},
		{"balance negative", "/balance -5", []string{"Balance not updated"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.HandleCommand(ctx, tt.command)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("reply to %q missing %q:\n%s", tt.command, w, got)
				}
			}
		})
	}

	if got := s.HandleCommand(ctx, "   "); got != "" {
		t.Errorf("blank command should get no reply, got %q", got)
	}
	// two /analyze runs went through the runner, with intervals parsed
	if len(runner.calls) != 2 || runner.calls[1].Interval != model.Interval4h {
		t.Errorf("unexpected runner calls %+v", runner.calls)
	}
}

func TestHandleCommand_BalanceWithoutSizer(t *testing.T) {
	s, _ := newTestScheduler(t, &stubRunner{}, nil)
	if got := s.HandleCommand(context.Background(), "/balance 100"); got != "Position sizing is disabled" {
		t.Errorf("unexpected reply %q", got)
	}
}
