// Command analyze prints a one-shot confluence analysis for a symbol.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"MarketConfluence/internal/app"
	"MarketConfluence/internal/config"
	"MarketConfluence/internal/logger"
	"MarketConfluence/internal/model"
	"MarketConfluence/internal/notifier"
)

func main() {
	var (
		cfgPath  = flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to config file")
		symbol   = flag.String("symbol", "BTCUSDT", "trading pair, e.g. BTCUSDT")
		interval = flag.String("interval", "", "candle interval (1m 3m 5m 15m 30m 1h 2h 4h 6h 12h 1d)")
		limit    = flag.Int("limit", 0, "number of candles to fetch (max 1000)")
		asJSON   = flag.Bool("json", false, "print the analysis as JSON")
		record   = flag.Bool("record", false, "persist the analysis with the configured recorder")
	)
	flag.Parse()

	if err := run(*cfgPath, *symbol, *interval, *limit, *asJSON, *record); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, model.ErrDataUnavailable) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfgPath, symbol, interval string, limit int, asJSON, record bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	// Reports go to stdout
	cfg.Log.Output = "stderr"
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	if interval != "" {
		cfg.Analysis.Interval = interval
	}
	if limit > 0 {
		cfg.Analysis.Limit = limit
	}
	if !record {
		cfg.Database.Driver = "none"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	req := model.Request{Symbol: strings.ToUpper(symbol), Interval: cfg.Interval(), Limit: cfg.Analysis.Limit}
	an, err := a.Analyzer.Run(ctx, req)
	if err != nil {
		return err
	}
	if record {
		if err := a.Recorder.RecordAnalysis(ctx, an); err != nil {
			log.Warn("record analysis", zap.Error(err))
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(an)
	}
	fmt.Print(notifier.FormatAnalysis(an, notifier.Plain))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
