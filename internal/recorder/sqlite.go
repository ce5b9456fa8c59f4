package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"MarketConfluence/internal/model"
)

// SQLiteRecorder persists analyses to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets readers run while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id            TEXT PRIMARY KEY,
			symbol        TEXT NOT NULL,
			timeframe     TEXT NOT NULL,
			source        TEXT,
			generated_at  INTEGER NOT NULL,
			close         REAL,
			bias          TEXT,
			confidence    REAL,
			bullish_score INTEGER,
			bearish_score INTEGER,
			neutral_score INTEGER,
			rsi_14        REAL,
			adx           REAL,
			atr_pct       REAL,
			plan_kind     TEXT,
			payload       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, generated_at)`,

		`CREATE TABLE IF NOT EXISTS analysis_signals (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id    TEXT NOT NULL REFERENCES analyses(id),
			direction      TEXT NOT NULL,
			indicator      TEXT NOT NULL,
			condition_text TEXT,
			strength       INTEGER,
			horizon        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_analysis ON analysis_signals(analysis_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, a *model.Analysis) error {
	rec, signals, err := flatten(a)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO analyses
		(id, symbol, timeframe, source, generated_at, close, bias, confidence,
		 bullish_score, bearish_score, neutral_score, rsi_14, adx, atr_pct, plan_kind, payload)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Symbol, rec.Interval, rec.Source, rec.GeneratedAt.Unix(), rec.Close,
		rec.Bias, rec.Confidence, rec.BullishScore, rec.BearishScore, rec.NeutralScore,
		rec.RSI14, rec.ADX, rec.ATRPct, rec.PlanKind, rec.Payload,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	for _, s := range signals {
		_, err := tx.ExecContext(ctx, `INSERT INTO analysis_signals
			(analysis_id, direction, indicator, condition_text, strength, horizon)
			VALUES (?,?,?,?,?,?)`,
			s.AnalysisID, s.Direction, s.Indicator, s.Condition, s.Strength, s.Timeframe,
		)
		if err != nil {
			return fmt.Errorf("insert signal: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Recent(ctx context.Context, symbol string, limit int) ([]model.AnalysisRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, symbol, timeframe, source, generated_at, close, bias, confidence,
		bullish_score, bearish_score, neutral_score, rsi_14, adx, atr_pct, plan_kind
		FROM analyses
		WHERE (? = '' OR symbol = ?)
		ORDER BY generated_at DESC, rowid DESC
		LIMIT ?`, symbol, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisRecord
	for rows.Next() {
		var rec model.AnalysisRecord
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Interval, &rec.Source, &ts, &rec.Close,
			&rec.Bias, &rec.Confidence, &rec.BullishScore, &rec.BearishScore, &rec.NeutralScore,
			&rec.RSI14, &rec.ADX, &rec.ATRPct, &rec.PlanKind); err != nil {
			return nil, err
		}
		rec.GeneratedAt = time.Unix(ts, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SignalCount returns how many confluences were stored for an analysis.
func (r *SQLiteRecorder) SignalCount(ctx context.Context, analysisID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_signals WHERE analysis_id = ?`, analysisID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
