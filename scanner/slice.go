// Package scanner defines interfaces and implementations for reading tabular data.
// This file provides an in-memory implementation of Rows backed by a slice of rows.
package scanner

import (
	"errors"
	"fmt"
)

// sliceRowsScanner implements the Rows interface using a slice of slices.
// It is useful for testing or for callers that already hold decoded records.
type sliceRowsScanner struct {
	table   string
	columns []Column  // Column metadata shared by every row.
	rows    [][]Value // The raw data: each inner slice is a row.
	lastRow []Value   // The last read row, cached after Next().
	cursor  int       // The index of the next row.
}

// FromData creates a new Rows scanner from in-memory values.
// Each inner slice of rows must have one value per column.
func FromData(table string, columns []Column, rows [][]Value) Rows {
	return &sliceRowsScanner{table: table, columns: columns, rows: rows}
}

// NewRecord builds a standalone Record from columns and their values.
func NewRecord(columns []Column, values []Value) Record {
	return &sliceRecord{columns: columns, values: values}
}

// Driver returns a string identifying the data source as an in-memory slice.
func (s *sliceRowsScanner) Driver() string {
	return "go-slice"
}

func (s *sliceRowsScanner) Table() string {
	return s.table
}

// Err always returns nil for sliceRowsScanner since errors are handled immediately.
func (s *sliceRowsScanner) Err() error {
	return nil
}

// Next prepares the next row for reading. Returns false when no more rows are available.
func (s *sliceRowsScanner) Next() bool {
	if s.cursor >= len(s.rows) {
		s.lastRow = nil
		return false
	}
	s.lastRow = s.rows[s.cursor]
	s.cursor++
	return true
}

// Record returns the current row.
// It must be called only after a successful call to Next().
func (s *sliceRowsScanner) Record() (Record, error) {
	if s.lastRow == nil {
		return nil, errors.New("esedb-exporter: record called without calling Next")
	}
	if len(s.lastRow) != len(s.columns) {
		return nil, fmt.Errorf("length of row %d != number of columns: %d != %d", s.cursor, len(s.lastRow), len(s.columns))
	}
	return &sliceRecord{columns: s.columns, values: s.lastRow}, nil
}

type sliceRecord struct {
	columns []Column
	values  []Value
}

func (r *sliceRecord) NumberOfValues() (int, error) {
	return len(r.values), nil
}

func (r *sliceRecord) ColumnName(index int) (string, error) {
	if err := r.check(index); err != nil {
		return "", err
	}
	return r.columns[index].Name, nil
}

func (r *sliceRecord) ColumnType(index int) (ColumnType, error) {
	if err := r.check(index); err != nil {
		return 0, err
	}
	return r.columns[index].Type, nil
}

func (r *sliceRecord) Value(index int) (Value, error) {
	if err := r.check(index); err != nil {
		return Value{}, err
	}
	return r.values[index], nil
}

func (r *sliceRecord) check(index int) error {
	if index < 0 || index >= len(r.values) || index >= len(r.columns) {
		return fmt.Errorf("value index %d out of bounds", index)
	}
	return nil
}
