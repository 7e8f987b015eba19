package scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/beltran/gohive"
)

type hiveRowsScanner struct {
	cursor         *gohive.Cursor
	ctx            context.Context
	table          string
	columns        []Column
	currentRow     []any
	currentRowPtrs []any
}

// FromHiveCursor wraps an executed gohive cursor. Hive type names are
// mapped onto physical column types with ParseDatabaseType.
func FromHiveCursor(cursor *gohive.Cursor, ctx context.Context, table string) Rows {
	return &hiveRowsScanner{cursor: cursor, ctx: ctx, table: table}
}

func (h *hiveRowsScanner) Next() bool {
	return h.cursor.HasMore(h.ctx)
}

func (h *hiveRowsScanner) Record() (Record, error) {
	columns := h.Columns()
	if h.currentRow == nil {
		h.currentRow = make([]any, len(columns))
	}
	if h.currentRowPtrs == nil {
		h.currentRowPtrs = make([]any, len(columns))
	}
	for i := range len(columns) {
		h.currentRowPtrs[i] = &h.currentRow[i]
	}
	h.cursor.FetchOne(h.ctx, h.currentRowPtrs...)
	if h.cursor.Err != nil {
		return nil, h.cursor.Err
	}
	values := make([]Value, len(columns))
	for i, v := range h.currentRow {
		value, err := encodeValue(v, columns[i].Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", columns[i].Name, err)
		}
		values[i] = value
	}
	return &sliceRecord{columns: columns, values: values}, nil
}

func (h *hiveRowsScanner) Columns() []Column {
	if h.columns != nil {
		return h.columns
	}
	cc := h.cursor.Description()
	for _, c := range cc {
		if len(c) == 0 {
			continue
		}
		var col Column
		col.Name = c[0]
		if len(c) >= 2 {
			col.Type = ParseDatabaseType(c[1])
		} else {
			col.Type = ColumnTypeBinaryData
		}
		if _, colName, ok := strings.Cut(col.Name, "."); ok {
			col.Name = colName
		}
		h.columns = append(h.columns, col)
	}
	return h.columns
}

func (h *hiveRowsScanner) Driver() string {
	return "gohive"
}

func (h *hiveRowsScanner) Table() string {
	return h.table
}

func (h *hiveRowsScanner) Err() error {
	return h.cursor.Error()
}
