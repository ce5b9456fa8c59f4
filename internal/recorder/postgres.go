package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"MarketConfluence/internal/model"
)

// PostgresRecorder persists analyses to PostgreSQL.
type PostgresRecorder struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewPostgresRecorder connects with dsn and creates the tables if needed.
func NewPostgresRecorder(ctx context.Context, dsn string, log *zap.Logger) (*PostgresRecorder, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{db: db, log: log}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id            UUID PRIMARY KEY,
			symbol        TEXT NOT NULL,
			timeframe     TEXT NOT NULL,
			source        TEXT,
			generated_at  TIMESTAMPTZ NOT NULL,
			close         DOUBLE PRECISION,
			bias          TEXT,
			confidence    DOUBLE PRECISION,
			bullish_score INTEGER,
			bearish_score INTEGER,
			neutral_score INTEGER,
			rsi_14        DOUBLE PRECISION,
			adx           DOUBLE PRECISION,
			atr_pct       DOUBLE PRECISION,
			plan_kind     TEXT,
			payload       JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, generated_at)`,

		`CREATE TABLE IF NOT EXISTS analysis_signals (
			id             BIGSERIAL PRIMARY KEY,
			analysis_id    UUID NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			direction      TEXT NOT NULL,
			indicator      TEXT NOT NULL,
			condition_text TEXT,
			strength       SMALLINT,
			horizon        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_analysis ON analysis_signals(analysis_id)`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordAnalysis(ctx context.Context, a *model.Analysis) error {
	rec, signals, err := flatten(a)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `INSERT INTO analyses
		(id, symbol, timeframe, source, generated_at, close, bias, confidence,
		 bullish_score, bearish_score, neutral_score, rsi_14, adx, atr_pct, plan_kind, payload)
		VALUES (:id, :symbol, :timeframe, :source, :generated_at, :close, :bias, :confidence,
		 :bullish_score, :bearish_score, :neutral_score, :rsi_14, :adx, :atr_pct, :plan_kind, :payload)`, rec)
	if err != nil {
		return fmt.Errorf("PostgresRecorder.RecordAnalysis: %w", err)
	}

	if len(signals) > 0 {
		_, err = tx.NamedExecContext(ctx, `INSERT INTO analysis_signals
			(analysis_id, direction, indicator, condition_text, strength, horizon)
			VALUES (:analysis_id, :direction, :indicator, :condition_text, :strength, :horizon)`, signals)
		if err != nil {
			return fmt.Errorf("PostgresRecorder.RecordAnalysis signals: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRecorder) Recent(ctx context.Context, symbol string, limit int) ([]model.AnalysisRecord, error) {
	query := `
		SELECT id, symbol, timeframe, source, generated_at, close, bias, confidence,
		       bullish_score, bearish_score, neutral_score, rsi_14, adx, atr_pct, plan_kind
		FROM analyses
		WHERE ($1::text = '' OR symbol = $1)
		ORDER BY generated_at DESC
		LIMIT $2
	`
	var out []model.AnalysisRecord
	if err := r.db.SelectContext(ctx, &out, query, symbol, limit); err != nil {
		return nil, fmt.Errorf("PostgresRecorder.Recent: %w", err)
	}
	return out, nil
}

func (r *PostgresRecorder) Close() error {
	r.log.Info("closing postgres recorder")
	return r.db.Close()
}
