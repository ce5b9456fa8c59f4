package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MarketConfluence/internal/logger"
	"MarketConfluence/internal/model"
	"MarketConfluence/internal/strategy"
)

// Known data source names, in default preference order.
const (
	SourceBinance   = "binance"
	SourceYahoo     = "yahoo"
	SourceSynthetic = "synthetic"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Sources          []string      `yaml:"sources"`
		BinanceEndpoints []string      `yaml:"binance_endpoints"`
		APIKey           string        `yaml:"api_key"`
		SecretKey        string        `yaml:"secret_key"`
		FetchTimeout     time.Duration `yaml:"fetch_timeout"`
		SyntheticSeed    int64         `yaml:"synthetic_seed"`
	} `yaml:"data_source"`
	Cache struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
		Prefix   string        `yaml:"prefix"`
	} `yaml:"cache"`
	Analysis struct {
		Interval            string  `yaml:"interval"`
		Limit               int     `yaml:"limit"`
		MinRows             int     `yaml:"min_rows"`
		ConfluenceThreshold int     `yaml:"confluence_threshold"`
		PlanConfidence      float64 `yaml:"plan_confidence"`
		StopATRMultiple     float64 `yaml:"stop_atr_multiple"`
	} `yaml:"analysis"`
	Risk struct {
		AccountBalance float64 `yaml:"account_balance"`
		RiskPct        float64 `yaml:"risk_pct"`
		StateFile      string  `yaml:"state_file"`
	} `yaml:"risk"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		Driver      string `yaml:"driver"` // sqlite, postgres or none
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

// Load reads .env and the YAML file at path, then applies environment overrides and defaults.
// A missing file of either kind is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	// Engine settings where zero is meaningful are preset so only an absent key takes the default.
	def := strategy.DefaultConfig()
	cfg.Analysis.ConfluenceThreshold = def.ConfluenceThreshold
	cfg.Analysis.PlanConfidence = def.PlanConfidence
	cfg.Analysis.StopATRMultiple = def.StopATRMultiple

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"BINANCE_API_KEY":    &c.DataSource.APIKey,
		"BINANCE_SECRET_KEY": &c.DataSource.SecretKey,
		"HTTPS_PROXY":        &c.Proxy,
		"REDIS_ADDR":         &c.Cache.Addr,
		"REDIS_PASSWORD":     &c.Cache.Password,
		"ANALYSIS_INTERVAL":  &c.Analysis.Interval,
		"CRON_SCHEDULE":      &c.Schedule.Cron,
		"DATABASE_DRIVER":    &c.Database.Driver,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"POSTGRES_DSN":       &c.Database.PostgresDSN,
		"RISK_STATE_FILE":    &c.Risk.StateFile,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"ACCOUNT_BALANCE": &c.Risk.AccountBalance,
		"RISK_PCT":        &c.Risk.RiskPct,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"REDIS_ENABLED":       &c.Cache.Enabled,
		"LOG_TRACING_ENABLED": &c.Log.TracingEnabled,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v := os.Getenv("DATA_SOURCES"); v != "" {
		c.DataSource.Sources = splitList(v)
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitList(v)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.DataSource.Sources) == 0 {
		c.DataSource.Sources = []string{SourceBinance, SourceYahoo, SourceSynthetic}
	}
	if len(c.DataSource.BinanceEndpoints) == 0 {
		c.DataSource.BinanceEndpoints = []string{
			"https://api.binance.com",
			"https://api.binance.us",
			"https://api1.binance.com",
			"https://api2.binance.com",
		}
	}
	if c.DataSource.FetchTimeout == 0 {
		c.DataSource.FetchTimeout = 30 * time.Second
	}
	if c.DataSource.SyntheticSeed == 0 {
		c.DataSource.SyntheticSeed = 42
	}
	if c.Cache.Addr == "" {
		c.Cache.Addr = "localhost:6379"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Minute
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "confluence:"
	}
	if c.Analysis.Interval == "" {
		c.Analysis.Interval = string(model.Interval15m)
	}
	if c.Analysis.Limit == 0 {
		c.Analysis.Limit = 1000
	}
	if c.Analysis.MinRows == 0 {
		c.Analysis.MinRows = 50
	}
	if c.Risk.RiskPct == 0 {
		c.Risk.RiskPct = 1
	}
	if len(c.Watchlist) == 0 {
		c.Watchlist = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	}
	for i, s := range c.Watchlist {
		c.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 * * * *"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/market_confluence.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks the settings needed by every entry point.
func (c *Config) Validate() error {
	if len(c.DataSource.Sources) == 0 {
		return fmt.Errorf("data_source.sources must not be empty")
	}
	for _, s := range c.DataSource.Sources {
		switch s {
		case SourceBinance, SourceYahoo, SourceSynthetic:
		default:
			return fmt.Errorf("data_source.sources: unknown source %q", s)
		}
	}
	if _, err := model.ParseInterval(c.Analysis.Interval); err != nil {
		return fmt.Errorf("analysis.interval: %w", err)
	}
	if c.Analysis.Limit <= 0 || c.Analysis.Limit > 1000 {
		return fmt.Errorf("analysis.limit must be within 1..1000, got %d", c.Analysis.Limit)
	}
	if c.Analysis.MinRows < 1 {
		return fmt.Errorf("analysis.min_rows must be positive, got %d", c.Analysis.MinRows)
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if c.Risk.AccountBalance < 0 {
		return fmt.Errorf("risk.account_balance must not be negative")
	}
	if c.Risk.RiskPct <= 0 || c.Risk.RiskPct > 100 {
		return fmt.Errorf("risk.risk_pct must be within (0,100], got %.2f", c.Risk.RiskPct)
	}
	for _, s := range c.Watchlist {
		if s == "" {
			return fmt.Errorf("watchlist contains an empty symbol")
		}
	}
	switch c.Database.Driver {
	case "sqlite", "none":
	case "postgres":
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver)
	}
	return nil
}

// ValidateBot additionally checks the settings the Telegram bot needs.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// EngineConfig returns the strategy settings.
func (c *Config) EngineConfig() strategy.Config {
	return strategy.Config{
		ConfluenceThreshold: c.Analysis.ConfluenceThreshold,
		PlanConfidence:      c.Analysis.PlanConfidence,
		StopATRMultiple:     c.Analysis.StopATRMultiple,
	}
}

// Interval returns the parsed default analysis interval.
func (c *Config) Interval() model.Interval {
	iv, err := model.ParseInterval(c.Analysis.Interval)
	if err != nil {
		return model.Interval15m
	}
	return iv
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
