package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"MarketConfluence/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.DataSource.Sources, []string{"binance", "yahoo", "synthetic"}) {
		t.Errorf("unexpected sources %v", cfg.DataSource.Sources)
	}
	if cfg.Interval() != model.Interval15m || cfg.Analysis.Limit != 1000 || cfg.Analysis.MinRows != 50 {
		t.Errorf("unexpected analysis defaults %+v", cfg.Analysis)
	}
	eng := cfg.EngineConfig()
	if eng.ConfluenceThreshold != 3 || eng.PlanConfidence != 60 || eng.StopATRMultiple != 1.5 {
		t.Errorf("unexpected engine defaults %+v", eng)
	}
	if cfg.DataSource.FetchTimeout != 30*time.Second || cfg.DataSource.SyntheticSeed != 42 {
		t.Errorf("unexpected data source defaults %+v", cfg.DataSource)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Schedule.Cron == "" {
		t.Errorf("unexpected database/schedule defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if err := cfg.ValidateBot(); err == nil {
		t.Error("bot validation should require a telegram token")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: file-token
  chat_id: "42"
data_source:
  sources: [yahoo, synthetic]
  fetch_timeout: 5s
cache:
  enabled: true
  ttl: 2m
analysis:
  interval: 1H
  limit: 500
  plan_confidence: 70
risk:
  account_balance: 1000
watchlist: [btcusdt, " ethusdt "]
log:
  level: debug
  format: json
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("RISK_PCT", "2")
	t.Setenv("LOG_TRACING_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "42" {
		t.Errorf("unexpected telegram %+v", cfg.Telegram)
	}
	if !reflect.DeepEqual(cfg.DataSource.Sources, []string{"yahoo", "synthetic"}) {
		t.Errorf("unexpected sources %v", cfg.DataSource.Sources)
	}
	if cfg.DataSource.FetchTimeout != 5*time.Second || cfg.Cache.TTL != 2*time.Minute || !cfg.Cache.Enabled {
		t.Errorf("durations not decoded: %v %v", cfg.DataSource.FetchTimeout, cfg.Cache.TTL)
	}
	if cfg.Interval() != model.Interval1h || cfg.Analysis.PlanConfidence != 70 {
		t.Errorf("unexpected analysis %+v", cfg.Analysis)
	}
	if cfg.Risk.AccountBalance != 1000 || cfg.Risk.RiskPct != 2 {
		t.Errorf("unexpected risk %+v", cfg.Risk)
	}
	if !reflect.DeepEqual(cfg.Watchlist, []string{"BTCUSDT", "ETHUSDT"}) {
		t.Errorf("unexpected watchlist %v", cfg.Watchlist)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || !cfg.Log.TracingEnabled {
		t.Errorf("unexpected log %+v", cfg.Log)
	}
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("ValidateBot: %v", err)
	}
}

func TestLoad_ExplicitZeroEngineSettings(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
analysis:
  confluence_threshold: 0
  plan_confidence: 0
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	eng := cfg.EngineConfig()
	if eng.ConfluenceThreshold != 0 || eng.PlanConfidence != 0 {
		t.Errorf("explicit zeros were replaced: %+v", eng)
	}
	if eng.StopATRMultiple != 1.5 {
		t.Errorf("absent stop multiple should default, got %.2f", eng.StopATRMultiple)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero threshold and confidence are valid: %v", err)
	}

	cfg, err = Load(writeConfig(t, "analysis:\n  stop_atr_multiple: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("an explicit zero stop multiple should fail validation")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(writeConfig(t, "analysis: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
	t.Setenv("ACCOUNT_BALANCE", "lots")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected env parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		patch func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.DataSource.Sources = []string{"coingecko"} }},
		{"bad interval", func(c *Config) { c.Analysis.Interval = "7m" }},
		{"limit too large", func(c *Config) { c.Analysis.Limit = 5000 }},
		{"min rows", func(c *Config) { c.Analysis.MinRows = -1 }},
		{"plan confidence", func(c *Config) { c.Analysis.PlanConfidence = 150 }},
		{"negative balance", func(c *Config) { c.Risk.AccountBalance = -5 }},
		{"risk pct", func(c *Config) { c.Risk.RiskPct = 120 }},
		{"empty watchlist entry", func(c *Config) { c.Watchlist = []string{"BTCUSDT", ""} }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.patch(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
