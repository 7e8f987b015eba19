package codec

import (
	"fmt"
	"io"

	csvcodec "github.com/go-data-exporter/esedb-exporter/codec/csv"
	htmlcodec "github.com/go-data-exporter/esedb-exporter/codec/html"
	jsoncodec "github.com/go-data-exporter/esedb-exporter/codec/json"
	tsvcodec "github.com/go-data-exporter/esedb-exporter/codec/tsv"
	xmlcodec "github.com/go-data-exporter/esedb-exporter/codec/xml"
	"github.com/go-data-exporter/esedb-exporter/exchange"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

type Codec interface {
	Write(rows scanner.Rows, writer io.Writer) error
}

func TSV(opts ...tsvcodec.Option) Codec {
	return tsvcodec.New(opts...)
}

func JSON(opts ...jsoncodec.Option) Codec {
	return jsoncodec.New(opts...)
}

func CSV(opts ...csvcodec.Option) Codec {
	return csvcodec.New(opts...)
}

func HTML(opts ...htmlcodec.Option) Codec {
	return htmlcodec.New(opts...)
}

func XML(opts ...xmlcodec.Option) Codec {
	return xmlcodec.New(opts...)
}

// ByFormat returns the codec for a format name using one schema resolver
// for every table.
func ByFormat(format string, schemaFunc func(table string) *exchange.Schema) (Codec, error) {
	switch format {
	case "", "tsv":
		return TSV(tsvcodec.WithSchemaResolver(schemaFunc)), nil
	case "csv":
		return CSV(csvcodec.WithSchemaResolver(schemaFunc)), nil
	case "json":
		return JSON(jsoncodec.WithSchemaResolver(schemaFunc), jsoncodec.WithNewlineDelimited(true)), nil
	case "html":
		return HTML(htmlcodec.WithSchemaResolver(schemaFunc)), nil
	case "xml":
		return XML(xmlcodec.WithSchemaResolver(schemaFunc)), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
