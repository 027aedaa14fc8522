package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/snapshot"
)

const defaultPath = "data/oddsy.db"

// Store archives refresh snapshots. The archive is write-only from the
// refresh path; the dashboard never reads it back, so a broken archive can
// never poison the in-memory snapshot.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS refreshes (
	id TEXT PRIMARY KEY,
	taken_at TEXT NOT NULL,
	selector TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	event_count INTEGER NOT NULL,
	stats_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS refresh_rows (
	refresh_id TEXT NOT NULL REFERENCES refreshes(id),
	platform TEXT NOT NULL,
	ticker TEXT NOT NULL,
	event_ticker TEXT NOT NULL,
	title TEXT,
	market_type TEXT,
	status TEXT,
	close_time TEXT,
	implied_yes_prob REAL,
	volume_24h REAL,
	open_interest REAL,
	row_json TEXT NOT NULL,
	PRIMARY KEY (refresh_id, platform, ticker)
);

CREATE INDEX IF NOT EXISTS idx_refresh_rows_event
	ON refresh_rows (refresh_id, event_ticker);
`

// CreateTables ensures the archive schema exists.
func (s *Store) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// DropTables removes the archive tables.
func (s *Store) DropTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
DROP TABLE IF EXISTS refresh_rows;
DROP TABLE IF EXISTS refreshes;
`)
	return err
}

const insertRowSQL = `
INSERT INTO refresh_rows (
	refresh_id, platform, ticker, event_ticker, title, market_type, status,
	close_time, implied_yes_prob, volume_24h, open_interest, row_json
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(refresh_id, platform, ticker) DO UPDATE SET
	event_ticker=excluded.event_ticker,
	title=excluded.title,
	market_type=excluded.market_type,
	status=excluded.status,
	close_time=excluded.close_time,
	implied_yes_prob=excluded.implied_yes_prob,
	volume_24h=excluded.volume_24h,
	open_interest=excluded.open_interest,
	row_json=excluded.row_json;
`

// InsertSnapshot archives one refresh: a header row plus every display row.
// The whole snapshot lands in a single transaction.
func (s *Store) InsertSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialized")
	}
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}

	statsJSON, err := json.Marshal(snap.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO refreshes (id, taken_at, selector, row_count, event_count, stats_json)
VALUES (?,?,?,?,?,?)`,
		snap.ID.String(),
		snap.TakenAt.Format(time.RFC3339Nano),
		string(snap.Selector),
		len(snap.Rows),
		len(snap.Events),
		string(statsJSON),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert refresh header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRowSQL)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range snap.Rows {
		if err := s.execInsertRow(ctx, stmt, snap.ID.String(), row); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) execInsertRow(ctx context.Context, stmt *sql.Stmt, refreshID string, row markets.DisplayRow) error {
	rowJSON, _ := json.Marshal(row)

	_, err := stmt.ExecContext(
		ctx,
		refreshID,
		string(row.Platform),
		row.Ticker,
		row.EventTicker,
		row.Title,
		row.MarketType,
		row.Status,
		formatTime(row.CloseTime),
		nullableFloat(row.ImpliedProb),
		nullableFloat(row.Volume24h),
		nullableFloat(row.OpenInterest),
		string(rowJSON),
	)
	return err
}

// RefreshRecord summarizes one archived refresh.
type RefreshRecord struct {
	ID         string
	TakenAt    time.Time
	Selector   string
	RowCount   int
	EventCount int
	Stats      markets.TopLevelStats
}

// ListRefreshes returns the most recent archived refreshes, newest first.
func (s *Store) ListRefreshes(ctx context.Context, limit int) ([]RefreshRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, taken_at, selector, row_count, event_count, stats_json
FROM refreshes ORDER BY taken_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RefreshRecord
	for rows.Next() {
		var (
			rec       RefreshRecord
			takenAt   string
			statsJSON string
		)
		if err := rows.Scan(&rec.ID, &takenAt, &rec.Selector, &rec.RowCount, &rec.EventCount, &statsJSON); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, takenAt); err == nil {
			rec.TakenAt = ts
		}
		if err := json.Unmarshal([]byte(statsJSON), &rec.Stats); err != nil {
			return nil, fmt.Errorf("decode stats for refresh %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Sink adapts the store into a snapshot sink that also ensures the schema.
func (s *Store) Sink() func(ctx context.Context, snap *snapshot.Snapshot) error {
	return func(ctx context.Context, snap *snapshot.Snapshot) error {
		if err := s.CreateTables(ctx); err != nil {
			return err
		}
		return s.InsertSnapshot(ctx, snap)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
