package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StockAdvisor/internal/model"
)

// SQLiteRecorder persists training runs and bar snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS training_runs (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT,
			source             TEXT,
			rows               INTEGER,
			train_rows         INTEGER,
			test_rows          INTEGER,
			test_accuracy      REAL,
			latest_probability REAL,
			latest_bar         INTEGER,
			duration_ms        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_ts ON training_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol    TEXT    NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			PRIMARY KEY (symbol, timestamp)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTraining(report *model.TrainingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := report.TrainedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO training_runs
		(timestamp, symbol, source, rows, train_rows, test_rows,
		 test_accuracy, latest_probability, latest_bar, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), report.Symbol, report.Source,
		report.Rows, report.TrainRows, report.TestRows,
		report.TestAccuracy, report.LatestProbability,
		report.LatestBarTime.Unix(), report.Duration.Milliseconds(),
	)
	return err
}

// SaveBars replaces the stored snapshot for symbol with bars.
func (r *SQLiteRecorder) SaveBars(symbol string, bars []model.OHLCV) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM price_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO price_bars
		(symbol, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	return tx.Commit()
}

// LoadBars returns the stored snapshot for symbol in chronological order.
func (r *SQLiteRecorder) LoadBars(symbol string) ([]model.OHLCV, error) {
	rows, err := r.db.Query(`SELECT timestamp, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? ORDER BY timestamp`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Time = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
