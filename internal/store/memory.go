package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and offline runs. The active
// table exists from the start, mirroring a provisioned spreadsheet.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*memTable
	active string
}

func NewMemory() *Memory {
	m := &Memory{tables: make(map[string]*memTable), active: "Sheet1"}
	m.tables[m.active] = &memTable{}
	return m
}

func (m *Memory) Active(ctx context.Context) (Table, error) {
	return m.Table(ctx, m.active)
}

func (m *Memory) Table(_ context.Context, name string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

func (m *Memory) Create(_ context.Context, name string, _, _ int) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[name]; ok {
		return t, nil
	}
	t := &memTable{}
	m.tables[name] = t
	return t, nil
}

type memTable struct {
	mu   sync.Mutex
	rows [][]string
}

func (t *memTable) Rows(context.Context) ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyRows(t.rows), nil
}

func (t *memTable) Update(_ context.Context, startRow int, rows [][]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, row := range rows {
		idx := startRow - 1 + i
		for len(t.rows) <= idx {
			t.rows = append(t.rows, nil)
		}
		t.rows[idx] = copyRow(row)
	}
	return nil
}

func (t *memTable) Append(_ context.Context, rows [][]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, copyRows(rows)...)
	return nil
}

func (t *memTable) Clear(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	return nil
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, copyRow(r))
	}
	return out
}

func copyRow(row []string) []string {
	r := make([]string, len(row))
	copy(r, row)
	return r
}
