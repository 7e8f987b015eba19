// Package xmlcodec writes records as XML, one <row> element per record with
// one child element per non-NULL value, named after its column.
package xmlcodec

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

// xmlCodec implements the Codec interface to export records as XML.
type xmlCodec struct {
	schemaFunc       func(table string) *exchange.Schema
	fallback         exchange.Fallback
	preProcessorFunc func(rowID int, row []string) ([]string, bool)
	limit            int
}

// Option defines a functional configuration option for xmlCodec.
type Option func(*xmlCodec)

// New creates a new XML codec with the provided configuration options.
func New(opts ...Option) *xmlCodec {
	c := &xmlCodec{
		schemaFunc: exchange.SchemaForTable,
		limit:      -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithSchema uses the same rule table for every table.
func WithSchema(schema *exchange.Schema) Option {
	return func(c *xmlCodec) {
		c.schemaFunc = func(string) *exchange.Schema { return schema }
	}
}

// WithSchemaResolver picks the rule table from the table name.
func WithSchemaResolver(fn func(table string) *exchange.Schema) Option {
	return func(c *xmlCodec) {
		c.schemaFunc = fn
	}
}

// WithFallback replaces the renderer used for unclassified values.
func WithFallback(fn exchange.Fallback) Option {
	return func(c *xmlCodec) {
		c.fallback = fn
	}
}

// WithPreProcessorFunc sets a function to preprocess or filter each row before writing.
func WithPreProcessorFunc(fn func(rowID int, row []string) ([]string, bool)) Option {
	return func(c *xmlCodec) {
		c.preProcessorFunc = fn
	}
}

// WithLimit sets a limit on the number of rows to write. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(c *xmlCodec) {
		c.limit = limit
	}
}

// Write writes the records as an XML document. NULL values are omitted and
// text is escaped. A table without rows produces no output.
func (c *xmlCodec) Write(rows scanner.Rows, writer io.Writer) (err error) {
	if c.limit == 0 {
		return nil
	}
	schema := c.schemaFunc(rows.Table())
	bw := bufio.NewWriter(writer)
	written := 0
	defer func() {
		if written > 0 {
			bw.WriteString("</data>\n")
		}
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()
	rowID := 0
	for rows.Next() {
		rowID++
		record, err := rows.Record()
		if err != nil {
			return err
		}
		names, err := exchange.ColumnNames(record)
		if err != nil {
			return err
		}
		row := make([]string, len(names))
		nulls := make([]bool, len(names))
		for i := range names {
			s, err := exchange.RenderValue(record, i, schema, c.fallback)
			if err != nil {
				return fmt.Errorf("record %d: %w", rowID, err)
			}
			row[i] = s.String
			nulls[i] = s.IsNULL
		}

		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID, row)
		}
		if !writeRow {
			continue
		}
		if written == 0 {
			bw.WriteString(xml.Header)
			bw.WriteString("<data>\n")
		}
		bw.WriteString("<row>")
		for i := range min(len(row), len(names)) {
			if nulls[i] {
				continue
			}
			bw.WriteString("<" + names[i] + ">")
			if err := xml.EscapeText(bw, []byte(row[i])); err != nil {
				return err
			}
			bw.WriteString("</" + names[i] + ">")
		}
		bw.WriteString("</row>\n")
		written++
		if c.limit >= 0 && written >= c.limit {
			return nil
		}
	}
	return rows.Err()
}
