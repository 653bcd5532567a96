package store

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore is the Google Sheets backend for one spreadsheet. The first
// worksheet is the active table; archive sheets are created through the
// AddSheet batch request.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheets(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsStore) Active(ctx context.Context) (Table, error) {
	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}
	if len(meta.Sheets) == 0 {
		return nil, ErrTableNotFound
	}
	return &sheetTable{store: s, title: meta.Sheets[0].Properties.Title}, nil
}

func (s *SheetsStore) Table(ctx context.Context, name string) (Table, error) {
	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}
	for _, sh := range meta.Sheets {
		if sh.Properties.Title == name {
			return &sheetTable{store: s, title: name}, nil
		}
	}
	return nil, ErrTableNotFound
}

func (s *SheetsStore) Create(ctx context.Context, name string, rows, cols int) (Table, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: name,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", name, err)
	}
	return &sheetTable{store: s, title: name}, nil
}

func (s *SheetsStore) meta(ctx context.Context) (*sheets.Spreadsheet, error) {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet lookup: %w", err)
	}
	return meta, nil
}

type sheetTable struct {
	store *SheetsStore
	title string
}

// rangeAll is A1 notation for the whole sheet.
func (t *sheetTable) rangeAll() string {
	return fmt.Sprintf("'%s'", t.title)
}

func (t *sheetTable) Rows(ctx context.Context) ([][]string, error) {
	vr, err := t.store.svc.Spreadsheets.Values.Get(t.store.spreadsheetID, t.rangeAll()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.title, err)
	}
	rows := make([][]string, 0, len(vr.Values))
	for _, raw := range vr.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *sheetTable) Update(ctx context.Context, startRow int, rows [][]string) error {
	rng := fmt.Sprintf("'%s'!A%d", t.title, startRow)
	vr := &sheets.ValueRange{Values: toValues(rows)}
	_, err := t.store.svc.Spreadsheets.Values.Update(t.store.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", t.title, err)
	}
	return nil
}

func (t *sheetTable) Append(ctx context.Context, rows [][]string) error {
	vr := &sheets.ValueRange{Values: toValues(rows)}
	_, err := t.store.svc.Spreadsheets.Values.Append(t.store.spreadsheetID, t.rangeAll(), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", t.title, err)
	}
	return nil
}

func (t *sheetTable) Clear(ctx context.Context) error {
	_, err := t.store.svc.Spreadsheets.Values.Clear(t.store.spreadsheetID, t.rangeAll(), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", t.title, err)
	}
	return nil
}

func toValues(rows [][]string) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		vals := make([]any, 0, len(row))
		for _, cell := range row {
			vals = append(vals, cell)
		}
		out = append(out, vals)
	}
	return out
}
