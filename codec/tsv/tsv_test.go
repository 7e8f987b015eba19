package tsvcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

var folderColumns = []scanner.Column{
	{Name: "S3001", Type: scanner.ColumnTypeBinaryData},
	{Name: "Ttag", Type: scanner.ColumnTypeBinaryData},
	{Name: "Q6748", Type: scanner.ColumnTypeCurrency},
}

func folderRows(table string) scanner.Rows {
	return scanner.FromData(table, folderColumns, [][]scanner.Value{
		{
			{Data: []byte("Inbox")},
			{Data: binary.LittleEndian.AppendUint64(nil, 116444736000000000)},
			{Data: binary.LittleEndian.AppendUint64(nil, 255)},
		},
		{
			{Data: []byte("Outbox")},
			{Data: binary.LittleEndian.AppendUint64(nil, 0)},
			{},
		},
	})
}

func TestNew(t *testing.T) {
	c := New()
	if c.schemaFunc == nil {
		t.Error("schema resolver not initialized")
	}
	if c.limit != -1 {
		t.Error("default limit should be -1")
	}
	if c.writeHeader {
		t.Error("header should be off by default")
	}
}

func TestWriteResolvesSchemaFromTable(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(folderRows("Folders"), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "Inbox\tJan 01, 1970 00:00:00\t0xff\n" +
		"Outbox\tJan 01, 1601 00:00:00\t\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	// An unknown table gets no rule table and every value is rendered generically.
	buf.Reset()
	if err := New().Write(folderRows("Msg"), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != "496e626f78\t00803ed5deb19d01\t255" {
		t.Errorf("got %q", first)
	}
}

func TestWithSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := New(WithSchema(exchange.Mailbox)).Write(folderRows("Msg"), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Inbox\tJan 01, 1970 00:00:00\t0xff\n") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWithHeaderAndLimit(t *testing.T) {
	var buf bytes.Buffer
	c := New(WithHeader(true), WithLimit(1))
	if err := c.Write(folderRows("Folders"), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "S3001\tTtag\tQ6748\nInbox\tJan 01, 1970 00:00:00\t0xff\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := New(WithLimit(0)).Write(folderRows("Folders"), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("limit 0 wrote %q", buf.String())
	}
}

func TestWithFallback(t *testing.T) {
	fallback := func(record scanner.Record, index int, w io.Writer) error {
		_, err := io.WriteString(w, "?")
		return err
	}
	var buf bytes.Buffer
	if err := New(WithFallback(fallback), WithSchema(nil)).Write(folderRows("Folders"), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.String() != "?\t?\t?\n?\t?\t?\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteStopsAtFailingRecord(t *testing.T) {
	rows := scanner.FromData("Folders", folderColumns, [][]scanner.Value{
		{{Data: []byte("Inbox")}, {}, {}},
		{{Data: []byte("Sent")}, {Data: []byte{1, 2, 3}}, {}},
		{{Data: []byte("never")}, {}, {}},
	})
	var buf bytes.Buffer
	err := New().Write(rows, &buf)
	if !errors.Is(err, exchange.ErrMalformedSize) {
		t.Fatalf("got %v, want ErrMalformedSize", err)
	}
	if !strings.Contains(err.Error(), "record 2") {
		t.Errorf("error %q does not name the record", err)
	}
	if buf.String() != "Inbox\t\t\nSent\t" {
		t.Errorf("flushed output: got %q", buf.String())
	}
}
