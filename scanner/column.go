package scanner

import "strconv"

// ColumnType is the physical column type reported by the storage engine.
type ColumnType uint32

const (
	ColumnTypeNull ColumnType = iota
	ColumnTypeBoolean
	ColumnTypeInteger8Unsigned
	ColumnTypeInteger16Signed
	ColumnTypeInteger32Signed
	ColumnTypeCurrency
	ColumnTypeFloatSingle
	ColumnTypeFloatDouble
	ColumnTypeDateTime
	ColumnTypeBinaryData
	ColumnTypeText
	ColumnTypeLargeBinaryData
	ColumnTypeLargeText
	ColumnTypeSuperLarge
	ColumnTypeInteger32Unsigned
	ColumnTypeInteger64Signed
	ColumnTypeGUID
	ColumnTypeInteger16Unsigned
)

var columnTypeNames = [...]string{
	ColumnTypeNull:              "null",
	ColumnTypeBoolean:           "boolean",
	ColumnTypeInteger8Unsigned:  "integer8unsigned",
	ColumnTypeInteger16Signed:   "integer16signed",
	ColumnTypeInteger32Signed:   "integer32signed",
	ColumnTypeCurrency:          "currency",
	ColumnTypeFloatSingle:       "floatsingle",
	ColumnTypeFloatDouble:       "floatdouble",
	ColumnTypeDateTime:          "datetime",
	ColumnTypeBinaryData:        "binary",
	ColumnTypeText:              "text",
	ColumnTypeLargeBinaryData:   "largebinary",
	ColumnTypeLargeText:         "largetext",
	ColumnTypeSuperLarge:        "superlarge",
	ColumnTypeInteger32Unsigned: "integer32unsigned",
	ColumnTypeInteger64Signed:   "integer64signed",
	ColumnTypeGUID:              "guid",
	ColumnTypeInteger16Unsigned: "integer16unsigned",
}

func (t ColumnType) String() string {
	if int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return "columntype(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// ParseColumnType is the inverse of ColumnType.String.
func ParseColumnType(s string) (ColumnType, bool) {
	for i, name := range columnTypeNames {
		if name == s {
			return ColumnType(i), true
		}
	}
	return 0, false
}

// ValueFlags describe how a value is stored in the record.
type ValueFlags uint8

const (
	ValueFlagVariableSize ValueFlags = 0x01
	ValueFlagCompressed   ValueFlags = 0x02
	ValueFlagLongValue    ValueFlags = 0x04
	ValueFlagMultiValue   ValueFlags = 0x08
)

// FixedSize reports whether the value is stored at its fixed width.
func (f ValueFlags) FixedSize() bool {
	return f == 0
}

// Value is the raw content of one record value. Data is borrowed from the
// record and must not be modified. A nil Data is the null value.
type Value struct {
	Data  []byte
	Flags ValueFlags
}

func (v Value) IsNULL() bool {
	return v.Data == nil
}

// Column is the static description of one table column.
type Column struct {
	Name string
	Type ColumnType
}
