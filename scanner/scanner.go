// Package scanner defines the record model shared by sources and codecs.
// A source yields Records; each Record exposes, per value index, the column
// name, the physical column type and the raw value bytes with their flags.
package scanner

// Record is a single table row as seen by the storage engine.
// Values are addressed by their position in the record.
type Record interface {
	NumberOfValues() (int, error)
	ColumnName(index int) (string, error)
	ColumnType(index int) (ColumnType, error)
	Value(index int) (Value, error)
}

// Rows iterates the records of one table.
type Rows interface {
	Next() bool
	Record() (Record, error)
	Table() string
	Driver() string
	Err() error
}
