package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/store"
)

var collected = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func posting(id, title string) domain.Posting {
	return domain.Posting{
		ID:             id,
		Title:          title,
		Company:        "Acme",
		Category:       "Business",
		Location:       "Seoul",
		EmploymentType: "Full-time",
		OpensOn:        domain.OpenDate("2024-06-01", domain.LayoutDay),
		ClosesOn:       domain.CloseDate("", domain.LayoutDay),
		URL:            "https://example.com/jobs/" + id,
		CollectedAt:    collected,
	}
}

func tableRows(t *testing.T, tab store.Table) [][]string {
	t.Helper()
	rows, err := tab.Rows(context.Background())
	require.NoError(t, err)
	return rows
}

func archiveRows(t *testing.T, st store.Store) [][]string {
	t.Helper()
	tab, err := st.Table(context.Background(), store.ArchiveTableName)
	if err != nil {
		require.ErrorIs(t, err, store.ErrTableNotFound)
		return nil
	}
	return tableRows(t, tab)
}

func TestRefreshVanishedRowsMoveToArchive(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	// First run seeds A1 and A3, second run fetches A1 and A2: A3 vanished.
	_, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{
		posting("A1", "Engineer"), posting("A3", "Planner"),
	})
	require.NoError(t, err)

	fetched := []domain.Posting{posting("A1", "Engineer"), posting("A2", "Analyst")}
	fetched[1].ClosesOn = domain.CloseDate("20991231", domain.LayoutCompact)

	res, err := RefreshWithArchive(ctx, st, domain.FullSchema, fetched)
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 2, Archived: 1, Written: 2}, res)

	active, err := st.Active(ctx)
	require.NoError(t, err)
	rows := tableRows(t, active)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.FullSchema.Header(), rows[0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "A2", rows[2][0])

	// The distant placeholder deadline shows as the open-ended sentinel.
	closesCol := len(rows[2]) - 3
	assert.Equal(t, domain.OpenEnded, rows[2][closesCol])

	arch := archiveRows(t, st)
	require.Len(t, arch, 2)
	assert.Equal(t, domain.FullSchema.Header(), arch[0])
	assert.Equal(t, "A3", arch[1][0])
	assert.Equal(t, "Planner", arch[1][1])
}

func TestRefreshIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	fetched := []domain.Posting{posting("A1", "Engineer"), posting("A2", "Analyst")}

	_, err := RefreshWithArchive(ctx, st, domain.FullSchema, fetched)
	require.NoError(t, err)
	active, err := st.Active(ctx)
	require.NoError(t, err)
	first := tableRows(t, active)

	res, err := RefreshWithArchive(ctx, st, domain.FullSchema, fetched)
	require.NoError(t, err)

	assert.Zero(t, res.Archived)
	assert.Equal(t, first, tableRows(t, active))
	assert.Nil(t, archiveRows(t, st), "no archive table should exist when nothing vanished")
}

func TestRefreshPartitionsEveryRow(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	_, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{
		posting("A1", "a"), posting("A2", "b"), posting("A3", "c"),
	})
	require.NoError(t, err)

	// A2 survives, A1 and A3 vanish.
	res, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{posting("A2", "b")})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Archived)

	active, err := st.Active(ctx)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, row := range tableRows(t, active)[1:] {
		seen[row[0]]++
	}
	for _, row := range archiveRows(t, st)[1:] {
		seen[row[0]]++
	}
	assert.Equal(t, map[string]int{"A1": 1, "A2": 1, "A3": 1}, seen)
}

func TestRefreshNeverResurrectsFromArchive(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	_, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{posting("A1", "Engineer")})
	require.NoError(t, err)
	_, err = RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{posting("A9", "Other")})
	require.NoError(t, err)

	// A1 reappears at the vendor. It becomes a fresh active row; the
	// archived copy stays where it is.
	res, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{
		posting("A1", "Engineer"), posting("A9", "Other"),
	})
	require.NoError(t, err)
	assert.Zero(t, res.Archived)

	active, err := st.Active(ctx)
	require.NoError(t, err)
	rows := tableRows(t, active)
	require.Len(t, rows, 3)
	assert.Equal(t, "A1", rows[1][0])

	arch := archiveRows(t, st)
	var archivedA1 int
	for _, row := range arch[1:] {
		if row[0] == "A1" {
			archivedA1++
		}
	}
	assert.Equal(t, 1, archivedA1)
}

func TestRefreshSkipsEmptyKeyLegacyRows(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	active, err := st.Active(ctx)
	require.NoError(t, err)

	require.NoError(t, active.Update(ctx, 1, [][]string{
		domain.FullSchema.Header(),
		{"", "orphan row without a key"},
		{"A1", "Engineer"},
	}))

	res, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{posting("A1", "Engineer")})
	require.NoError(t, err)
	assert.Zero(t, res.Archived)
	assert.Nil(t, archiveRows(t, st))

	// The rewrite drops the orphan from the active table.
	rows := tableRows(t, active)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[1][0])
}

func TestRefreshDropsInvalidPostings(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	res, err := RefreshWithArchive(ctx, st, domain.FullSchema, []domain.Posting{
		posting("A1", "Engineer"), {Title: "no id"},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 1, Written: 1}, res)
}

func TestAppendNewOnlyUnseen(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	res, err := AppendNew(ctx, st, domain.CompactSchema, []domain.Posting{
		posting("K1", "one"), posting("K2", "two"),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 2, Appended: 2}, res)

	res, err = AppendNew(ctx, st, domain.CompactSchema, []domain.Posting{
		posting("K2", "two"), posting("K3", "three"),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 2, Appended: 1}, res)

	active, err := st.Active(ctx)
	require.NoError(t, err)
	rows := tableRows(t, active)
	require.Len(t, rows, 4)
	assert.Equal(t, domain.CompactSchema.Header(), rows[0])
	assert.Equal(t, "K1", rows[1][0])
	assert.Equal(t, "K2", rows[2][0])
	assert.Equal(t, "K3", rows[3][0])
}

func TestAppendNewIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	fetched := []domain.Posting{posting("K1", "one"), posting("K2", "two")}

	_, err := AppendNew(ctx, st, domain.CompactSchema, fetched)
	require.NoError(t, err)
	active, err := st.Active(ctx)
	require.NoError(t, err)
	first := tableRows(t, active)

	res, err := AppendNew(ctx, st, domain.CompactSchema, fetched)
	require.NoError(t, err)
	assert.Zero(t, res.Appended)
	assert.Equal(t, first, tableRows(t, active))
}

func TestAppendNewDuplicateIDsInOneBatch(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	res, err := AppendNew(ctx, st, domain.CompactSchema, []domain.Posting{
		posting("K1", "one"), posting("K1", "one again"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Appended)
}
