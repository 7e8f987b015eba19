package jsoncodec

import (
	"bufio"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Option func(*jsonCodec)

type jsonCodec struct {
	schemaFunc       func(table string) *exchange.Schema
	fallback         exchange.Fallback
	preProcessorFunc func(rowID int, row map[string]any) (map[string]any, bool)
	newlineDelimited bool
	limit            int
}

func New(opts ...Option) *jsonCodec {
	c := &jsonCodec{
		schemaFunc: exchange.SchemaForTable,
		limit:      -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithSchema(schema *exchange.Schema) Option {
	return func(c *jsonCodec) {
		c.schemaFunc = func(string) *exchange.Schema { return schema }
	}
}

func WithSchemaResolver(fn func(table string) *exchange.Schema) Option {
	return func(c *jsonCodec) {
		c.schemaFunc = fn
	}
}

func WithFallback(fn exchange.Fallback) Option {
	return func(c *jsonCodec) {
		c.fallback = fn
	}
}

func WithPreProcessorFunc(fn func(rowID int, row map[string]any) (map[string]any, bool)) Option {
	return func(c *jsonCodec) {
		c.preProcessorFunc = fn
	}
}

func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(c *jsonCodec) {
		c.newlineDelimited = isNewlineDelimited
	}
}

func WithLimit(limit int) Option {
	return func(c *jsonCodec) {
		c.limit = limit
	}
}

// Write encodes each record as an object mapping column names to rendered
// text. NULL values are encoded as null. Output is buffered; a failing
// writer is reported once the buffer is flushed.
func (c *jsonCodec) Write(rows scanner.Rows, writer io.Writer) (err error) {
	if c.limit == 0 {
		return nil
	}
	schema := c.schemaFunc(rows.Table())
	bw := bufio.NewWriter(writer)
	written := 0
	defer func() {
		if !c.newlineDelimited && written != 0 {
			bw.WriteString("\n]\n")
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
		row := make(map[string]any, len(names))
		for i, col := range names {
			s, err := exchange.RenderValue(record, i, schema, c.fallback)
			if err != nil {
				return fmt.Errorf("record %d: %w", rowID, err)
			}
			if s.IsNULL {
				row[col] = nil
			} else {
				row[col] = s.String
			}
		}

		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID, row)
		}
		if !writeRow {
			continue
		}

		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if !c.newlineDelimited {
			if written == 0 {
				bw.WriteString("[")
			} else {
				bw.WriteString(",")
			}
			bw.WriteString("\n")
			bw.Write(data)
		} else {
			bw.Write(data)
			bw.WriteString("\n")
		}
		written++
		if c.limit >= 0 && written >= c.limit {
			return nil
		}
	}
	return rows.Err()
}
