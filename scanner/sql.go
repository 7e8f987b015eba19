// Package scanner provides implementations of the Rows interface for various data sources.
// This file defines a scanner for database/sql-compatible rows.
package scanner

import (
	"database/sql"
	"fmt"
)

// sqlRowsScanner wraps a *sql.Rows and implements the Rows interface.
// Every scanned row is re-encoded into raw values carrying no flags.
type sqlRowsScanner struct {
	*sql.Rows

	driver         string
	table          string
	columns        []Column
	currentRow     []any
	currentRowPtrs []any
}

// FromSQL creates a Rows-compatible wrapper around a *sql.Rows object.
// The driver name and table name are required for metadata and schema selection.
func FromSQL(rows *sql.Rows, driver, table string) Rows {
	return &sqlRowsScanner{Rows: rows, driver: driver, table: table}
}

// Columns returns column metadata for the SQL result set, mapping the
// declared database types onto physical column types.
func (s *sqlRowsScanner) Columns() ([]Column, error) {
	if s.columns != nil {
		return s.columns, nil
	}
	cc, err := s.Rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	for _, c := range cc {
		s.columns = append(s.columns, Column{
			Name: c.Name(),
			Type: ParseDatabaseType(c.DatabaseTypeName()),
		})
	}
	return s.columns, nil
}

// Record reads the current row from the SQL result set.
func (s *sqlRowsScanner) Record() (Record, error) {
	if _, err := s.Columns(); err != nil {
		return nil, err
	}
	if s.currentRow == nil {
		s.currentRow = make([]any, len(s.columns))
	}
	if s.currentRowPtrs == nil {
		s.currentRowPtrs = make([]any, len(s.columns))
	}
	for i := range len(s.columns) {
		s.currentRowPtrs[i] = &s.currentRow[i]
	}
	if err := s.Rows.Scan(s.currentRowPtrs...); err != nil {
		return nil, err
	}
	values := make([]Value, len(s.columns))
	for i, v := range s.currentRow {
		value, err := encodeValue(v, s.columns[i].Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", s.columns[i].Name, err)
		}
		values[i] = value
	}
	return &sliceRecord{columns: s.columns, values: values}, nil
}

// Driver returns the name of the SQL driver used.
func (s *sqlRowsScanner) Driver() string {
	return s.driver
}

func (s *sqlRowsScanner) Table() string {
	return s.table
}
