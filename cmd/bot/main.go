package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"MarketConfluence/internal/app"
	"MarketConfluence/internal/config"
	"MarketConfluence/internal/logger"
	"MarketConfluence/internal/notifier"
	"MarketConfluence/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.ValidateBot(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}
	log.Info("MarketConfluence starting...", zap.String("config", cfgPath))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer logger.Shutdown(context.Background())

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("init pipeline", zap.Error(err))
	}
	defer a.Close()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log.Named("telegram"))

	sched := scheduler.NewScheduler(ctx, a.Analyzer, a.Sizer, tn, a.Recorder,
		cfg.Watchlist, cfg.Interval(), cfg.Analysis.Limit, log.Named("scheduler"))
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal("register cron task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, scanning watchlist now")
		go sched.RunNow()
	}

	log.Info("MarketConfluence is running, press Ctrl+C to stop",
		zap.String("schedule", cfg.Schedule.Cron), zap.Strings("watchlist", cfg.Watchlist))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
}
