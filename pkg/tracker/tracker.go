package tracker

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pario-ai/oars/pkg/models"
)

// Tracker records and queries fetch history.
type Tracker interface {
	// Record stores a fetch record.
	Record(ctx context.Context, rec models.FetchRecord) error
	// Summary returns fetches aggregated by kind and outcome, optionally filtered by kind.
	Summary(ctx context.Context, kind string) ([]models.FetchSummary, error)
	// Recent returns the most recent fetches, newest first.
	Recent(ctx context.Context, limit int) ([]models.FetchRecord, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS fetch_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	outcome TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	bytes INTEGER NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_fetch_kind_time ON fetch_records(kind, created_at);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// Record stores a fetch record.
func (t *SQLiteTracker) Record(ctx context.Context, rec models.FetchRecord) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO fetch_records (kind, resource_id, outcome, status_code, bytes, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Kind, rec.ResourceID, string(rec.Outcome), rec.StatusCode, rec.Bytes, rec.LatencyMs, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return nil
}

// Summary returns fetches grouped by kind and outcome.
func (t *SQLiteTracker) Summary(ctx context.Context, kind string) ([]models.FetchSummary, error) {
	query := `SELECT kind, outcome, COUNT(*), COALESCE(SUM(bytes), 0), COALESCE(AVG(latency_ms), 0)
		 FROM fetch_records`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` GROUP BY kind, outcome ORDER BY kind, outcome`

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.FetchSummary
	for rows.Next() {
		var s models.FetchSummary
		var outcome string
		if err := rows.Scan(&s.Kind, &outcome, &s.Count, &s.TotalBytes, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Outcome = models.Outcome(outcome)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Recent returns up to limit fetch records, newest first.
func (t *SQLiteTracker) Recent(ctx context.Context, limit int) ([]models.FetchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, kind, resource_id, outcome, status_code, bytes, latency_ms, created_at
		 FROM fetch_records ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent fetches: %w", err)
	}
	defer rows.Close()

	var records []models.FetchRecord
	for rows.Next() {
		var r models.FetchRecord
		var outcome string
		if err := rows.Scan(&r.ID, &r.Kind, &r.ResourceID, &outcome, &r.StatusCode, &r.Bytes, &r.LatencyMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fetch: %w", err)
		}
		r.Outcome = models.Outcome(outcome)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
