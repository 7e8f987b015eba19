// Package tsvcodec writes records as tab-separated lines, one line per
// record, with every value rendered through the exchange classifier and
// decoders.
package tsvcodec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

type tsvCodec struct {
	schemaFunc  func(table string) *exchange.Schema
	fallback    exchange.Fallback
	writeHeader bool
	limit       int
}

// Option defines a functional configuration option for tsvCodec.
type Option func(*tsvCodec)

// New creates a TSV codec. By default the rule table is picked from the
// table name with exchange.SchemaForTable and no header is written.
func New(opts ...Option) *tsvCodec {
	c := &tsvCodec{
		schemaFunc: exchange.SchemaForTable,
		limit:      -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSchema uses the same rule table for every table. A nil schema
// exports every value through the fallback.
func WithSchema(schema *exchange.Schema) Option {
	return func(c *tsvCodec) {
		c.schemaFunc = func(string) *exchange.Schema { return schema }
	}
}

// WithSchemaResolver picks the rule table from the table name.
func WithSchemaResolver(fn func(table string) *exchange.Schema) Option {
	return func(c *tsvCodec) {
		c.schemaFunc = fn
	}
}

// WithFallback replaces the renderer used for unclassified values.
func WithFallback(fn exchange.Fallback) Option {
	return func(c *tsvCodec) {
		c.fallback = fn
	}
}

// WithHeader writes the column names of the first record before the rows.
func WithHeader(writeHeader bool) Option {
	return func(c *tsvCodec) {
		c.writeHeader = writeHeader
	}
}

// WithLimit sets a limit on the number of rows to write. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(c *tsvCodec) {
		c.limit = limit
	}
}

// Write exports every record of rows. The first failing record stops the
// export; the rows written before it are flushed.
func (c *tsvCodec) Write(rows scanner.Rows, writer io.Writer) error {
	if c.limit == 0 {
		return nil
	}
	schema := c.schemaFunc(rows.Table())
	bw := bufio.NewWriter(writer)
	rowID := 0
	for rows.Next() {
		record, err := rows.Record()
		if err != nil {
			bw.Flush()
			return err
		}
		if c.writeHeader && rowID == 0 {
			names, err := exchange.ColumnNames(record)
			if err != nil {
				bw.Flush()
				return err
			}
			bw.WriteString(strings.Join(names, "\t"))
			bw.WriteString("\n")
		}
		if err := exchange.ExportRecord(record, schema, bw, c.fallback); err != nil {
			bw.Flush()
			return fmt.Errorf("record %d: %w", rowID+1, err)
		}
		rowID++
		if c.limit >= 0 && rowID >= c.limit {
			break
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return rows.Err()
}
