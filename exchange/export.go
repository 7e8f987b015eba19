package exchange

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/go-data-exporter/esedb-exporter/scanner"
	"github.com/go-data-exporter/esedb-exporter/tostring"
)

// Fallback renders a value that no rule classified. tostring.Export is used
// when a nil Fallback is given.
type Fallback func(record scanner.Record, index int, w io.Writer) error

// byteOrder is the native order of the storage engine.
var byteOrder binary.ByteOrder = binary.LittleEndian

// ExportRecord writes the values of record to w as one tab-separated line.
// The first failing value aborts the export; whatever was already written
// for the record stays written.
func ExportRecord(record scanner.Record, schema *Schema, w io.Writer, fallback Fallback) error {
	if record == nil {
		return fmt.Errorf("%w: invalid record", ErrInvalidArgument)
	}
	if w == nil {
		return fmt.Errorf("%w: invalid output stream", ErrInvalidArgument)
	}
	n, err := record.NumberOfValues()
	if err != nil {
		return fmt.Errorf("%w: number of values: %w", ErrMetadataUnavailable, err)
	}
	if n == 0 {
		_, err = io.WriteString(w, "\n")
		return err
	}
	for i := range n {
		if err := exportValue(record, i, schema, w, fallback); err != nil {
			return err
		}
		sep := "\t"
		if i == n-1 {
			sep = "\n"
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return err
		}
	}
	return nil
}

// RenderValue returns the text ExportRecord would write for one value. The
// result is flagged as NULL when the value has no data, or when the generic
// renderer reports NULL for it.
func RenderValue(record scanner.Record, index int, schema *Schema, fallback Fallback) (tostring.String, error) {
	if record == nil {
		return tostring.String{}, fmt.Errorf("%w: invalid record", ErrInvalidArgument)
	}
	kind, typ, err := ClassifyValue(record, index, schema)
	if err != nil {
		return tostring.String{}, err
	}
	v, err := record.Value(index)
	if err != nil {
		return tostring.String{}, &ValueError{Index: index, Column: columnName(record, index), Err: fmt.Errorf("%w: value: %w", ErrMetadataUnavailable, err)}
	}
	if kind == KindUndefined && fallback == nil {
		return tostring.ToString(v, typ), nil
	}
	var sb strings.Builder
	if err := exportValue(record, index, schema, &sb, fallback); err != nil {
		return tostring.String{}, err
	}
	return tostring.String{String: sb.String(), IsNULL: v.IsNULL()}, nil
}

// ColumnNames returns the column names of a record in value order.
func ColumnNames(record scanner.Record) ([]string, error) {
	n, err := record.NumberOfValues()
	if err != nil {
		return nil, fmt.Errorf("%w: number of values: %w", ErrMetadataUnavailable, err)
	}
	names := make([]string, n)
	for i := range n {
		if names[i], err = record.ColumnName(i); err != nil {
			return nil, &ValueError{Index: i, Err: fmt.Errorf("%w: column name: %w", ErrMetadataUnavailable, err)}
		}
	}
	return names, nil
}

// ClassifyValue classifies the value at index using the record's metadata.
func ClassifyValue(record scanner.Record, index int, schema *Schema) (Kind, scanner.ColumnType, error) {
	name, err := record.ColumnName(index)
	if err != nil {
		return KindUndefined, 0, &ValueError{Index: index, Err: fmt.Errorf("%w: column name: %w", ErrMetadataUnavailable, err)}
	}
	typ, err := record.ColumnType(index)
	if err != nil {
		return KindUndefined, 0, &ValueError{Index: index, Column: name, Err: fmt.Errorf("%w: column type: %w", ErrMetadataUnavailable, err)}
	}
	kind, err := schema.Classify(name, typ)
	if err != nil {
		return KindUndefined, typ, &ValueError{Index: index, Err: err}
	}
	return kind, typ, nil
}

func exportValue(record scanner.Record, index int, schema *Schema, w io.Writer, fallback Fallback) error {
	kind, typ, err := ClassifyValue(record, index, schema)
	if err != nil {
		return err
	}
	if kind == KindUndefined {
		if fallback == nil {
			fallback = tostring.Export
		}
		if err := fallback(record, index, w); err != nil {
			return &ValueError{Index: index, Column: columnName(record, index), Err: err}
		}
		return nil
	}
	v, err := record.Value(index)
	if err != nil {
		return &ValueError{Index: index, Column: columnName(record, index), Err: fmt.Errorf("%w: value: %w", ErrMetadataUnavailable, err)}
	}
	text, err := Decode(kind, v, typ, byteOrder)
	if err != nil {
		return &ValueError{Index: index, Column: columnName(record, index), Err: err}
	}
	_, err = io.WriteString(w, text)
	return err
}

func columnName(record scanner.Record, index int) string {
	name, _ := record.ColumnName(index)
	return name
}
