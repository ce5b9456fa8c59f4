// Package app wires configuration into the analysis pipeline shared by the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MarketConfluence/internal/analyzer"
	"MarketConfluence/internal/collector"
	"MarketConfluence/internal/config"
	"MarketConfluence/internal/recorder"
	"MarketConfluence/internal/risk"
	"MarketConfluence/internal/strategy"
)

// App holds the long-lived components built from a Config.
type App struct {
	Analyzer *analyzer.Analyzer
	Sizer    *risk.Sizer
	Recorder recorder.Recorder

	closers []func() error
	log     *zap.Logger
}

// New builds the fetch chain, engine, sizer and recorder described by cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{log: log}

	fetcher := a.buildFetcher(ctx, cfg)

	engine, err := strategy.NewEngine(cfg.EngineConfig())
	if err != nil {
		return nil, err
	}

	sizer, err := risk.NewSizer(cfg.Risk.StateFile, cfg.Risk.AccountBalance, cfg.Risk.RiskPct, log.Named("risk"))
	if err != nil {
		return nil, fmt.Errorf("init sizer: %w", err)
	}
	a.Sizer = sizer

	a.Recorder = a.openRecorder(ctx, cfg)
	a.closers = append(a.closers, a.Recorder.Close)

	col := collector.NewCollector(fetcher, cfg.Analysis.MinRows, cfg.DataSource.FetchTimeout)
	a.Analyzer = analyzer.New(col, engine, sizer, log.Named("analyzer"))
	return a, nil
}

func (a *App) buildFetcher(ctx context.Context, cfg *config.Config) collector.Fetcher {
	var chain []collector.Fetcher
	for _, src := range cfg.DataSource.Sources {
		switch src {
		case config.SourceBinance:
			for _, ep := range cfg.DataSource.BinanceEndpoints {
				chain = append(chain, collector.NewBinanceFetcher(ep, cfg.DataSource.APIKey, cfg.DataSource.SecretKey))
			}
		case config.SourceYahoo:
			chain = append(chain, collector.NewYahooFetcher(cfg.Proxy))
		case config.SourceSynthetic:
			chain = append(chain, collector.NewSyntheticFetcher(cfg.DataSource.SyntheticSeed))
		}
	}
	fb := collector.NewFallbackFetcher(a.log.Named("fetch"), chain...)
	a.log.Info("data sources configured", zap.Strings("sources", fb.Sources()))

	if !cfg.Cache.Enabled {
		return fb
	}
	store := collector.NewRedisStore(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.Prefix)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		a.log.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Cache.Addr), zap.Error(err))
		store.Close()
		return fb
	}
	a.closers = append(a.closers, store.Close)
	a.log.Info("candle cache enabled", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	return collector.NewCachedFetcher(fb, store, cfg.Cache.TTL, a.log.Named("cache"))
}

func (a *App) openRecorder(ctx context.Context, cfg *config.Config) recorder.Recorder {
	log := a.log.Named("recorder")
	switch cfg.Database.Driver {
	case "postgres":
		pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresDSN, log)
		if err != nil {
			a.log.Warn("init postgres recorder failed, using noop", zap.Error(err))
			return recorder.NewNoopRecorder()
		}
		return pr
	case "sqlite":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			a.log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			return recorder.NewNoopRecorder()
		}
		return sr
	default:
		return recorder.NewNoopRecorder()
	}
}

// Close releases the recorder and cache connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
}
