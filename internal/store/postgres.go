package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps sheet-shaped tables in a database so the same
// reconciliation can run against Postgres instead of the spreadsheet
// service. Sheet names are prefixed per target so several vendors can
// share one database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	prefix string
}

func NewPostgres(ctx context.Context, dsn, prefix string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pg dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}

	s := &PostgresStore{pool: pool, prefix: prefix}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS sheets (
  name text PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS sheet_rows (
  sheet_name text NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
  row_pos    integer NOT NULL,
  cells      text[] NOT NULL,
  PRIMARY KEY (sheet_name, row_pos)
);`)
	if err != nil {
		return fmt.Errorf("pg migrate: %w", err)
	}
	// The active sheet always exists, like a provisioned spreadsheet.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sheets(name) VALUES($1) ON CONFLICT DO NOTHING`, s.qualified("active"))
	if err != nil {
		return fmt.Errorf("pg ensure active sheet: %w", err)
	}
	return nil
}

func (s *PostgresStore) qualified(name string) string {
	return s.prefix + "/" + name
}

func (s *PostgresStore) Active(ctx context.Context) (Table, error) {
	return s.lookup(ctx, s.qualified("active"))
}

func (s *PostgresStore) Table(ctx context.Context, name string) (Table, error) {
	return s.lookup(ctx, s.qualified(name))
}

func (s *PostgresStore) lookup(ctx context.Context, qname string) (Table, error) {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM sheets WHERE name = $1`, qname).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg sheet lookup: %w", err)
	}
	return &pgTable{store: s, name: qname}, nil
}

// Create registers the sheet; capacity is meaningless in a database and is
// ignored.
func (s *PostgresStore) Create(ctx context.Context, name string, _, _ int) (Table, error) {
	qname := s.qualified(name)
	_, err := s.pool.Exec(ctx, `INSERT INTO sheets(name) VALUES($1) ON CONFLICT DO NOTHING`, qname)
	if err != nil {
		return nil, fmt.Errorf("pg create sheet: %w", err)
	}
	return &pgTable{store: s, name: qname}, nil
}

type pgTable struct {
	store *PostgresStore
	name  string
}

func (t *pgTable) Rows(ctx context.Context) ([][]string, error) {
	rows, err := t.store.pool.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet_name = $1 ORDER BY row_pos`, t.name)
	if err != nil {
		return nil, fmt.Errorf("pg read %s: %w", t.name, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("pg scan %s: %w", t.name, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg read %s: %w", t.name, err)
	}
	return out, nil
}

func (t *pgTable) Update(ctx context.Context, startRow int, rows [][]string) error {
	b := &pgx.Batch{}
	for i, row := range rows {
		b.Queue(`
INSERT INTO sheet_rows(sheet_name, row_pos, cells) VALUES($1, $2, $3)
ON CONFLICT (sheet_name, row_pos) DO UPDATE SET cells = EXCLUDED.cells`,
			t.name, startRow+i, row)
	}
	if err := t.store.pool.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("pg update %s: %w", t.name, err)
	}
	return nil
}

func (t *pgTable) Append(ctx context.Context, rows [][]string) error {
	var last int
	err := t.store.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(row_pos), 0) FROM sheet_rows WHERE sheet_name = $1`, t.name).Scan(&last)
	if err != nil {
		return fmt.Errorf("pg append %s: %w", t.name, err)
	}
	return t.Update(ctx, last+1, rows)
}

func (t *pgTable) Clear(ctx context.Context) error {
	_, err := t.store.pool.Exec(ctx,
		`DELETE FROM sheet_rows WHERE sheet_name = $1`, t.name)
	if err != nil {
		return fmt.Errorf("pg clear %s: %w", t.name, err)
	}
	return nil
}
