// Package exporter writes the records of one table through a codec.
package exporter

import (
	"io"
	"os"

	"github.com/go-data-exporter/esedb-exporter/codec"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

type Exporter struct {
	rows  scanner.Rows
	codec codec.Codec
}

func New(rows scanner.Rows, codec codec.Codec) *Exporter {
	return &Exporter{
		rows:  rows,
		codec: codec,
	}
}

func (cs *Exporter) Table() string {
	return cs.rows.Table()
}

func (cs *Exporter) Write(writer io.Writer) error {
	return cs.codec.Write(cs.rows, writer)
}

// WriteFile writes the export to filename. The file is kept on failure so
// the records exported before the failing one remain available.
func (cs *Exporter) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cs.Write(f); err != nil {
		return err
	}
	return f.Close()
}
