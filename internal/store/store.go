// Package store abstracts the header-plus-rows tables the reconciliation
// engine works against: an active table that must pre-exist and an archive
// table created lazily on first need.
package store

import (
	"context"
	"errors"
	"log"
)

// ArchiveTableName is the sheet that accumulates closed postings.
const ArchiveTableName = "Archive"

// Capacity reserved when the archive sheet is created.
const archiveCapacityRows = 1000

// ErrTableNotFound distinguishes the recoverable archive miss from the
// fatal active-table miss.
var ErrTableNotFound = errors.New("table not found")

type Table interface {
	// Rows returns every row in order, header included as element 0 when
	// present. An empty table yields an empty slice.
	Rows(ctx context.Context) ([][]string, error)
	// Update writes rows starting at the 1-based row index.
	Update(ctx context.Context, startRow int, rows [][]string) error
	// Append adds rows after the last existing row.
	Append(ctx context.Context, rows [][]string) error
	// Clear removes all content.
	Clear(ctx context.Context) error
}

type Store interface {
	// Active returns the primary table. Missing means the target was never
	// provisioned; callers treat that as a configuration failure.
	Active(ctx context.Context) (Table, error)
	// Table looks up a named table, ErrTableNotFound when absent.
	Table(ctx context.Context, name string) (Table, error)
	// Create makes a named table with the given capacity reservation.
	Create(ctx context.Context, name string, rows, cols int) (Table, error)
}

// EnsureHeader rewrites row 1 when it is absent or not cell-wise equal to
// header. Idempotent; never duplicates the header row.
func EnsureHeader(ctx context.Context, t Table, header []string) error {
	rows, err := t.Rows(ctx)
	if err != nil {
		return err
	}
	if len(rows) > 0 && equalRow(rows[0], header) {
		return nil
	}
	return t.Update(ctx, 1, [][]string{header})
}

// Overwrite replaces the whole table with rows; the caller includes the
// header. One logical operation from the engine's point of view.
func Overwrite(ctx context.Context, t Table, rows [][]string) error {
	if err := t.Clear(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return t.Update(ctx, 1, rows)
}

// GetOrCreate returns the named table, creating it with the header and a
// generous capacity on first use.
func GetOrCreate(ctx context.Context, st Store, name string, header []string) (Table, error) {
	t, err := st.Table(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrTableNotFound) {
		return nil, err
	}

	cols := len(header)
	if cols < 10 {
		cols = 10
	}
	t, err = st.Create(ctx, name, archiveCapacityRows, cols)
	if err != nil {
		return nil, err
	}
	if err := t.Update(ctx, 1, [][]string{header}); err != nil {
		return nil, err
	}
	log.Printf("[store] created table %q", name)
	return t, nil
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
