package csvcodec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

type csvCodec struct {
	schemaFunc       func(table string) *exchange.Schema
	fallback         exchange.Fallback
	preProcessorFunc func(row []string) ([]string, bool)
	delimiter        rune
	useCRLF          bool
	writeHeader      bool
	customHeader     []string
	nullValue        string
	limit            int
}

type Option func(*csvCodec)

func New(opts ...Option) *csvCodec {
	cw := &csvCodec{
		schemaFunc:  exchange.SchemaForTable,
		delimiter:   ',',
		useCRLF:     false,
		writeHeader: true,
		limit:       -1,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

func WithSchema(schema *exchange.Schema) Option {
	return func(cw *csvCodec) {
		cw.schemaFunc = func(string) *exchange.Schema { return schema }
	}
}

func WithSchemaResolver(fn func(table string) *exchange.Schema) Option {
	return func(cw *csvCodec) {
		cw.schemaFunc = fn
	}
}

func WithFallback(fn exchange.Fallback) Option {
	return func(cw *csvCodec) {
		cw.fallback = fn
	}
}

func (cs *csvCodec) Write(rows scanner.Rows, writer io.Writer) error {
	if cs.limit == 0 {
		return nil
	}
	schema := cs.schemaFunc(rows.Table())
	csvCodec := csv.NewWriter(writer)
	if cs.delimiter != 0 {
		csvCodec.Comma = cs.delimiter
	}
	csvCodec.UseCRLF = cs.useCRLF
	defer csvCodec.Flush()

	rowID := 0
	written := 0
	for rows.Next() {
		record, err := rows.Record()
		if err != nil {
			return err
		}
		if cs.writeHeader && rowID == 0 {
			header, err := exchange.ColumnNames(record)
			if err != nil {
				return err
			}
			if cs.customHeader != nil {
				if len(cs.customHeader) != len(header) {
					return errors.New("invalid header length")
				}
				header = cs.customHeader
			}
			if err = csvCodec.Write(header); err != nil {
				return fmt.Errorf("failed to write headers: %w", err)
			}
		}
		n, err := record.NumberOfValues()
		if err != nil {
			return fmt.Errorf("record %d: %w: %w", rowID+1, exchange.ErrMetadataUnavailable, err)
		}
		row := make([]string, n)
		for i := range n {
			s, err := exchange.RenderValue(record, i, schema, cs.fallback)
			if err != nil {
				return fmt.Errorf("record %d: %w", rowID+1, err)
			}
			row[i] = s.String
			if s.IsNULL {
				row[i] = cs.nullValue
			}
		}
		rowID++
		writeRow := true
		if cs.preProcessorFunc != nil {
			row, writeRow = cs.preProcessorFunc(row)
		}
		if writeRow {
			if err := csvCodec.Write(row); err != nil {
				return err
			}
			written++
			if cs.limit >= 0 && written >= cs.limit {
				break
			}
		}
	}
	csvCodec.Flush()
	if err := csvCodec.Error(); err != nil {
		return err
	}
	return rows.Err()
}

func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *csvCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithCustomDelimiter(delimiter rune) Option {
	return func(cw *csvCodec) {
		cw.delimiter = delimiter
	}
}

func WithCRLF(useCRLF bool) Option {
	return func(cw *csvCodec) {
		cw.useCRLF = useCRLF
	}
}

func WithHeader(writeHeader bool) Option {
	return func(cw *csvCodec) {
		cw.writeHeader = writeHeader
	}
}

func WithCustomHeader(customHeader []string) Option {
	return func(cw *csvCodec) {
		cw.customHeader = customHeader
	}
}

func WithCustomNULL(nullValue string) Option {
	return func(cw *csvCodec) {
		cw.nullValue = nullValue
	}
}

// WithLimit sets a limit on the number of rows to write. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(cw *csvCodec) {
		cw.limit = limit
	}
}
