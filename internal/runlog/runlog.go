// Package runlog keeps a local sqlite ledger of crawler runs: one row per
// vendor run with counts and the error, if any. Purely diagnostic; the
// sheets remain the source of truth.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Log struct {
	db *sql.DB
}

func Open(path string) (*Log, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  vendor TEXT NOT NULL,
  started_at TEXT NOT NULL,
  duration_ms INTEGER NOT NULL,
  fetched INTEGER NOT NULL DEFAULT 0,
  archived INTEGER NOT NULL DEFAULT 0,
  written INTEGER NOT NULL DEFAULT 0,
  appended INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_runs_vendor_started
ON runs(vendor, started_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

type Entry struct {
	Vendor    string
	StartedAt time.Time
	Duration  time.Duration
	Fetched   int
	Archived  int
	Written   int
	Appended  int
	Err       string
}

func (l *Log) Record(ctx context.Context, e Entry) error {
	_, err := l.db.ExecContext(ctx, `
INSERT INTO runs(vendor, started_at, duration_ms, fetched, archived, written, appended, error)
VALUES(?,?,?,?,?,?,?,?);`,
		e.Vendor,
		e.StartedAt.UTC().Format(time.RFC3339),
		e.Duration.Milliseconds(),
		e.Fetched,
		e.Archived,
		e.Written,
		e.Appended,
		e.Err,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the latest entries for a vendor, newest first.
func (l *Log) Recent(ctx context.Context, vendor string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
SELECT vendor, started_at, duration_ms, fetched, archived, written, appended, error
FROM runs
WHERE vendor = ?
ORDER BY started_at DESC, id DESC
LIMIT ?;`, vendor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started string
		var durMS int64
		if err := rows.Scan(&e.Vendor, &started, &durMS, &e.Fetched, &e.Archived, &e.Written, &e.Appended, &e.Err); err != nil {
			return nil, err
		}
		e.StartedAt, _ = time.Parse(time.RFC3339, started)
		e.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
