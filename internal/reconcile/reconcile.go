// Package reconcile computes the mutations that bring a persisted table in
// line with a freshly fetched posting set. Two policies exist: full refresh
// with archival for vendors that report their complete active set every
// run, and append-only for flat ever-growing lists.
package reconcile

import (
	"context"
	"fmt"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/store"
)

// Result reports what a reconciliation pass changed.
type Result struct {
	Fetched  int // valid postings considered
	Archived int // rows moved to the archive table
	Written  int // rows now in the active table after a refresh
	Appended int // rows added by the append policy
}

// RefreshWithArchive partitions the existing rows against the fetched ID
// set, appends vanished rows verbatim to the archive table (created on
// first need), then rewrites the active table from the fresh records in
// vendor order. Fresh values always win; a previously archived ID that
// reappears simply becomes a new active row, the archive is never touched
// except by appends.
func RefreshWithArchive(ctx context.Context, st store.Store, schema domain.Schema, postings []domain.Posting) (Result, error) {
	postings = domain.DropInvalid(postings)
	activeIDs := domain.ActiveIDs(postings)
	header := schema.Header()

	active, err := st.Active(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("active table: %w", err)
	}
	if err := store.EnsureHeader(ctx, active, header); err != nil {
		return Result{}, fmt.Errorf("ensure header: %w", err)
	}

	rows, err := active.Rows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read active table: %w", err)
	}

	var toArchive [][]string
	if len(rows) > 1 {
		for _, row := range rows[1:] {
			id := ""
			if len(row) > 0 {
				id = row[0]
			}
			// Rows with an empty key cell are malformed legacy rows;
			// conservatively keep them out of the archive.
			if id != "" && !activeIDs[id] {
				toArchive = append(toArchive, row)
			}
		}
	}

	if len(toArchive) > 0 {
		archive, err := store.GetOrCreate(ctx, st, store.ArchiveTableName, header)
		if err != nil {
			return Result{}, fmt.Errorf("archive table: %w", err)
		}
		if err := archive.Append(ctx, toArchive); err != nil {
			return Result{}, fmt.Errorf("archive append: %w", err)
		}
	}

	out := append([][]string{header}, schema.Rows(postings)...)
	if err := store.Overwrite(ctx, active, out); err != nil {
		return Result{}, fmt.Errorf("rewrite active table: %w", err)
	}

	return Result{
		Fetched:  len(postings),
		Archived: len(toArchive),
		Written:  len(postings),
	}, nil
}

// AppendNew adds only postings whose ID is not yet in the active table.
// Existing rows are never rewritten or removed, so re-running with the
// same fetched set appends nothing.
func AppendNew(ctx context.Context, st store.Store, schema domain.Schema, postings []domain.Posting) (Result, error) {
	postings = domain.DropInvalid(postings)
	header := schema.Header()

	active, err := st.Active(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("active table: %w", err)
	}
	if err := store.EnsureHeader(ctx, active, header); err != nil {
		return Result{}, fmt.Errorf("ensure header: %w", err)
	}

	rows, err := active.Rows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read active table: %w", err)
	}

	existing := make(map[string]bool)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) > 0 && row[0] != "" {
			existing[row[0]] = true
		}
	}

	var newRows [][]string
	for _, p := range postings {
		if existing[p.ID] {
			continue
		}
		existing[p.ID] = true // keep the unique-key invariant within a batch
		newRows = append(newRows, schema.Row(p))
	}

	if len(newRows) > 0 {
		if err := active.Append(ctx, newRows); err != nil {
			return Result{}, fmt.Errorf("append active table: %w", err)
		}
	}

	return Result{
		Fetched:  len(postings),
		Appended: len(newRows),
	}, nil
}
