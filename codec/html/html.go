package htmlcodec

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

type htmlCodec struct {
	schemaFunc       func(table string) *exchange.Schema
	fallback         exchange.Fallback
	preProcessorFunc func(row []string) ([]string, bool)
	writeHeader      bool
	nullValue        string
	limit            int
}

type Option func(*htmlCodec)

func New(opts ...Option) *htmlCodec {
	cw := &htmlCodec{
		schemaFunc:  exchange.SchemaForTable,
		writeHeader: true,
		nullValue:   `<span style="color:#aaaaaa;">[NULL]</span>`,
		limit:       -1,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

func WithSchema(schema *exchange.Schema) Option {
	return func(cw *htmlCodec) {
		cw.schemaFunc = func(string) *exchange.Schema { return schema }
	}
}

func WithSchemaResolver(fn func(table string) *exchange.Schema) Option {
	return func(cw *htmlCodec) {
		cw.schemaFunc = fn
	}
}

func WithFallback(fn exchange.Fallback) Option {
	return func(cw *htmlCodec) {
		cw.fallback = fn
	}
}

// WithPreProcessorFunc receives the escaped cell markup of each row.
func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *htmlCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithHeader(writeHeader bool) Option {
	return func(cw *htmlCodec) {
		cw.writeHeader = writeHeader
	}
}

// WithCustomNULL sets the markup written for NULL values. It is not escaped.
func WithCustomNULL(nullValue string) Option {
	return func(cw *htmlCodec) {
		cw.nullValue = nullValue
	}
}

func WithLimit(limit int) Option {
	return func(cw *htmlCodec) {
		cw.limit = limit
	}
}

var htmlPrefix = strings.Join(strings.Fields(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>ESE Export</title><style>
	body, html {
	  margin: 0;
	  padding: 0;
	}
	th {
	  border:1px solid #dedede;
	  padding: 15px;
	  border-top: 0px;
	  border-left: 0px;
	}
	td {
	  border: 1px solid #dedede;
	  border-top: 0px;
	  border-left: 0px;
	  padding: 10px;
	  max-width:700px;
	  overflow-x: auto;
	  white-space: nowrap;
	  font-family: monospace;
	}
	p.typ {
	  margin-top: 5px;
	  color: #333;
	}
	</style> </head><body><table style="width:100%;border-spacing:0px;">`), " ")

// Write renders the records as one HTML table. The page is opened with the
// first written row, so a table without rows produces no output. The header
// shows the column names and physical column types of the first record.
func (c *htmlCodec) Write(rows scanner.Rows, writer io.Writer) (err error) {
	if c.limit == 0 {
		return nil
	}
	schema := c.schemaFunc(rows.Table())
	bw := bufio.NewWriter(writer)
	written := 0
	defer func() {
		if written != 0 {
			bw.WriteString(`</tbody></table></body></html>`)
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
		n, err := record.NumberOfValues()
		if err != nil {
			return fmt.Errorf("record %d: %w: %w", rowID, exchange.ErrMetadataUnavailable, err)
		}
		row := make([]string, n)
		for i := range n {
			s, err := exchange.RenderValue(record, i, schema, c.fallback)
			if err != nil {
				return fmt.Errorf("record %d: %w", rowID, err)
			}
			if s.IsNULL {
				row[i] = c.nullValue
			} else {
				row[i] = html.EscapeString(s.String)
			}
		}
		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(row)
		}
		if !writeRow {
			continue
		}
		if written == 0 {
			bw.WriteString(htmlPrefix)
			if c.writeHeader {
				if err := c.writeHead(bw, record, n); err != nil {
					return err
				}
			}
			bw.WriteString(`<tbody>`)
		}
		bw.WriteString(`<tr>`)
		for i := range row {
			fmt.Fprintf(bw, "<td>%s</td>", row[i])
		}
		bw.WriteString(`</tr>`)
		written++
		if c.limit >= 0 && written >= c.limit {
			return nil
		}
	}
	return rows.Err()
}

func (c *htmlCodec) writeHead(bw *bufio.Writer, record scanner.Record, n int) error {
	bw.WriteString(`<thead style="position:sticky;top:0;z-index:99;background:#f9f9f9;">`)
	for i := range n {
		name, err := record.ColumnName(i)
		if err != nil {
			return fmt.Errorf("%w: column name: %w", exchange.ErrMetadataUnavailable, err)
		}
		typ, err := record.ColumnType(i)
		if err != nil {
			return fmt.Errorf("%w: column type: %w", exchange.ErrMetadataUnavailable, err)
		}
		fmt.Fprintf(bw, "<th><p>%s</p><p class=typ>%s</p></th>", html.EscapeString(name), typ)
	}
	bw.WriteString(`</thead>`)
	return nil
}
