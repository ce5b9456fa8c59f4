package app

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"MarketConfluence/internal/config"
	"MarketConfluence/internal/model"
	"MarketConfluence/internal/recorder"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.DataSource.Sources = []string{config.SourceSynthetic}
	cfg.Cache.Enabled = false
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "app.db")
	cfg.Risk.AccountBalance = 10000
	cfg.Risk.StateFile = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return cfg
}

func TestNew_SyntheticPipeline(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok := a.Recorder.(*recorder.SQLiteRecorder); !ok {
		t.Errorf("expected sqlite recorder, got %T", a.Recorder)
	}
	if !a.Sizer.Enabled() {
		t.Error("sizer should be enabled with a balance")
	}

	an, err := a.Analyzer.Run(context.Background(), model.Request{Symbol: "BTCUSDT", Interval: model.Interval1h, Limit: 200})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if an.Source != "synthetic" {
		t.Errorf("expected synthetic source, got %q", an.Source)
	}
	if err := a.Recorder.RecordAnalysis(context.Background(), an); err != nil {
		t.Fatalf("record: %v", err)
	}
	recs, err := a.Recorder.Recent(context.Background(), "BTCUSDT", 5)
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d (%v)", len(recs), err)
	}
}

func TestNew_NoneDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "none"
	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if _, ok := a.Recorder.(*recorder.NoopRecorder); !ok {
		t.Errorf("expected noop recorder, got %T", a.Recorder)
	}
}

func TestNew_BadEngineConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.StopATRMultiple = -1
	if _, err := New(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected an engine config error")
	}
}
