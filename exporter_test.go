package exporter

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-data-exporter/esedb-exporter/codec"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

func fileTimeRows(values ...[]byte) scanner.Rows {
	var data [][]scanner.Value
	for _, v := range values {
		data = append(data, []scanner.Value{{Data: v}})
	}
	return scanner.FromData("Folders", []scanner.Column{{Name: "Ttag", Type: scanner.ColumnTypeBinaryData}}, data)
}

func TestWrite(t *testing.T) {
	e := New(fileTimeRows(binary.LittleEndian.AppendUint64(nil, 116444736000000000)), codec.TSV())
	if e.Table() != "Folders" {
		t.Errorf("got table %q", e.Table())
	}
	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Jan 01, 1970 00:00:00\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteFileKeepsPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Folders.tsv")
	rows := fileTimeRows(
		binary.LittleEndian.AppendUint64(nil, 0),
		[]byte{1, 2, 3},
	)
	if err := New(rows, codec.TSV()).WriteFile(path); err == nil {
		t.Fatal("expected the malformed value to fail the export")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Jan 01, 1601 00:00:00\n" {
		t.Errorf("got %q", data)
	}
}

func TestWriteFileBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "Folders.tsv")
	if err := New(fileTimeRows(), codec.TSV()).WriteFile(path); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
