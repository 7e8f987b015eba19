package exchange

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-data-exporter/esedb-exporter/scanner"
)

// brokenRecord fails metadata lookups for one value index.
type brokenRecord struct {
	scanner.Record
	failIndex int
	failName  bool
	failCount bool
}

var errLookup = errors.New("lookup failed")

func (r *brokenRecord) NumberOfValues() (int, error) {
	if r.failCount {
		return 0, errLookup
	}
	return r.Record.NumberOfValues()
}

func (r *brokenRecord) ColumnName(index int) (string, error) {
	if r.failName && index == r.failIndex {
		return "", errLookup
	}
	return r.Record.ColumnName(index)
}

func (r *brokenRecord) ColumnType(index int) (scanner.ColumnType, error) {
	if !r.failName && index == r.failIndex {
		return 0, errLookup
	}
	return r.Record.ColumnType(index)
}

func textRecord(n int) scanner.Record {
	columns := make([]scanner.Column, n)
	values := make([]scanner.Value, n)
	for i := range n {
		columns[i] = scanner.Column{Name: "Display", Type: scanner.ColumnTypeText}
		values[i] = scanner.Value{Data: []byte("x")}
	}
	return scanner.NewRecord(columns, values)
}

func TestExportRecordSeparators(t *testing.T) {
	for n := 0; n <= 6; n++ {
		var buf bytes.Buffer
		if err := ExportRecord(textRecord(n), Folders, &buf, nil); err != nil {
			t.Fatalf("%d values: %v", n, err)
		}
		out := buf.String()
		wantTabs := max(n-1, 0)
		if got := strings.Count(out, "\t"); got != wantTabs {
			t.Errorf("%d values: %d tabs, want %d", n, got, wantTabs)
		}
		if strings.Count(out, "\n") != 1 || !strings.HasSuffix(out, "\n") {
			t.Errorf("%d values: output %q does not end in a single newline", n, out)
		}
	}

	var buf bytes.Buffer
	ExportRecord(textRecord(1), Folders, &buf, nil)
	if buf.String() != "x\n" {
		t.Errorf("single value: got %q", buf.String())
	}
}

func TestExportRecordFileTimeColumn(t *testing.T) {
	record := scanner.NewRecord(
		[]scanner.Column{{Name: "Ttag", Type: scanner.ColumnTypeBinaryData}},
		[]scanner.Value{{Data: binary.LittleEndian.AppendUint64(nil, 116444736000000000)}},
	)
	var buf bytes.Buffer
	if err := ExportRecord(record, Folders, &buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Jan 01, 1970 00:00:00\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestExportRecordGUIDColumns(t *testing.T) {
	tests := []struct {
		schema *Schema
		column string
	}{
		{Folders, "N3880"},
		{Mailbox, "N676a"},
	}
	for _, tt := range tests {
		record := scanner.NewRecord(
			[]scanner.Column{{Name: tt.column, Type: scanner.ColumnTypeBinaryData}},
			[]scanner.Value{{Data: make([]byte, 16)}},
		)
		var buf bytes.Buffer
		if err := ExportRecord(record, tt.schema, &buf, nil); err != nil {
			t.Fatalf("%s: %v", tt.column, err)
		}
		if buf.String() != "00000000-0000-0000-0000-000000000000\n" {
			t.Errorf("%s: got %q", tt.column, buf.String())
		}

		short := scanner.NewRecord(
			[]scanner.Column{{Name: tt.column, Type: scanner.ColumnTypeBinaryData}},
			[]scanner.Value{{Data: make([]byte, 15)}},
		)
		err := ExportRecord(short, tt.schema, io.Discard, nil)
		if !errors.Is(err, ErrMalformedSize) {
			t.Fatalf("%s 15 bytes: got %v, want ErrMalformedSize", tt.column, err)
		}
		var valueErr *ValueError
		var sizeErr *SizeError
		if !errors.As(err, &valueErr) || !errors.As(err, &sizeErr) {
			t.Fatalf("%s: error %v lacks context", tt.column, err)
		}
		want := ValueError{Index: 0, Column: tt.column}
		got := ValueError{Index: valueErr.Index, Column: valueErr.Column}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: value error mismatch (-want +got):\n%s", tt.column, diff)
		}
		if sizeErr.Expected != 16 || sizeErr.Actual != 15 {
			t.Errorf("%s: got %+v", tt.column, sizeErr)
		}
	}
}

func TestExportRecordUsesFallbackForUnmatchedColumns(t *testing.T) {
	record := scanner.NewRecord(
		[]scanner.Column{
			{Name: "X1234", Type: scanner.ColumnTypeBinaryData},
			{Name: "Q6748", Type: scanner.ColumnTypeCurrency},
			{Name: "DisplayName", Type: scanner.ColumnTypeBinaryData},
		},
		[]scanner.Value{
			{Data: []byte{1, 2}},
			{Data: binary.LittleEndian.AppendUint64(nil, 255)},
			{Data: []byte("abc")},
		},
	)
	var calls []int
	fallback := func(record scanner.Record, index int, w io.Writer) error {
		calls = append(calls, index)
		_, err := io.WriteString(w, "F")
		return err
	}
	var buf bytes.Buffer
	if err := ExportRecord(record, Folders, &buf, fallback); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "F\t0xff\tF\n" {
		t.Errorf("got %q", buf.String())
	}
	if diff := cmp.Diff([]int{0, 2}, calls); diff != "" {
		t.Errorf("fallback calls mismatch (-want +got):\n%s", diff)
	}

	// Without a fallback the generic renderer is used.
	buf.Reset()
	if err := ExportRecord(record, Folders, &buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "0102\t0xff\t616263\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestExportRecordFailureIsRecordFatal(t *testing.T) {
	record := scanner.NewRecord(
		[]scanner.Column{
			{Name: "S3001", Type: scanner.ColumnTypeBinaryData},
			{Name: "Q6748", Type: scanner.ColumnTypeBinaryData},
			{Name: "S3002", Type: scanner.ColumnTypeBinaryData},
		},
		[]scanner.Value{
			{Data: []byte("Inbox")},
			{Data: []byte{1, 2, 3}},
			{Data: []byte("never")},
		},
	)
	var buf bytes.Buffer
	err := ExportRecord(record, Folders, &buf, nil)
	if !errors.Is(err, ErrMalformedSize) {
		t.Fatalf("got %v, want ErrMalformedSize", err)
	}
	var valueErr *ValueError
	if !errors.As(err, &valueErr) || valueErr.Index != 1 || valueErr.Column != "Q6748" {
		t.Errorf("got %v, want value 1 (Q6748)", err)
	}
	if buf.String() != "Inbox\t" {
		t.Errorf("partial output: got %q", buf.String())
	}
}

func TestExportRecordMetadataErrors(t *testing.T) {
	base := textRecord(3)
	tests := []*brokenRecord{
		{Record: base, failCount: true, failIndex: -1},
		{Record: base, failName: true, failIndex: 1},
		{Record: base, failIndex: 2},
	}
	for _, record := range tests {
		err := ExportRecord(record, Mailbox, io.Discard, nil)
		if !errors.Is(err, ErrMetadataUnavailable) {
			t.Errorf("%+v: got %v, want ErrMetadataUnavailable", record, err)
		}
		if !errors.Is(err, errLookup) {
			t.Errorf("%+v: cause not preserved: %v", record, err)
		}
	}
}

func TestExportRecordInvalidArguments(t *testing.T) {
	if err := ExportRecord(nil, Folders, io.Discard, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil record: got %v", err)
	}
	if err := ExportRecord(textRecord(1), Folders, nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil writer: got %v", err)
	}
}

func TestExportRecordNameTooLong(t *testing.T) {
	record := scanner.NewRecord(
		[]scanner.Column{{Name: strings.Repeat("N", 300), Type: scanner.ColumnTypeBinaryData}},
		[]scanner.Value{{Data: []byte{1}}},
	)
	if err := ExportRecord(record, Folders, io.Discard, nil); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("got %v, want ErrNameTooLong", err)
	}
}

func TestRenderValue(t *testing.T) {
	record := scanner.NewRecord(
		[]scanner.Column{
			{Name: "Ne58", Type: scanner.ColumnTypeBinaryData},
			{Name: "S3001", Type: scanner.ColumnTypeLargeBinaryData},
		},
		[]scanner.Value{
			{Data: []byte{1, 1, 0, 0, 0, 0, 0, 5, 18, 0, 0, 0}},
			{},
		},
	)
	s, err := RenderValue(record, 0, Folders, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.String != "S-1-5-18" || s.IsNULL {
		t.Errorf("SID: got %+v", s)
	}
	s, err = RenderValue(record, 1, Folders, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.String != "" || !s.IsNULL {
		t.Errorf("null string: got %+v", s)
	}

	names, err := ColumnNames(record)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Ne58", "S3001"}, names); diff != "" {
		t.Errorf("column names mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderValueNullColumnType(t *testing.T) {
	record := scanner.NewRecord(
		[]scanner.Column{{Name: "Empty", Type: scanner.ColumnTypeNull}},
		[]scanner.Value{{Data: []byte{0}}},
	)
	s, err := RenderValue(record, 0, Folders, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsNULL {
		t.Errorf("null column type with data: got %+v, want NULL", s)
	}

	fallback := func(record scanner.Record, index int, w io.Writer) error {
		_, err := io.WriteString(w, "F")
		return err
	}
	s, err = RenderValue(record, 0, Folders, fallback)
	if err != nil {
		t.Fatal(err)
	}
	if s.String != "F" || s.IsNULL {
		t.Errorf("custom fallback: got %+v", s)
	}
}
