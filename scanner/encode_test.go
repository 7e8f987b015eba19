package scanner

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestParseDatabaseType(t *testing.T) {
	tests := map[string]ColumnType{
		"BLOB":              ColumnTypeBinaryData,
		"varbinary(255)":    ColumnTypeBinaryData,
		"":                  ColumnTypeBinaryData,
		"LONGBLOB":          ColumnTypeLargeBinaryData,
		"BINARY_TYPE":       ColumnTypeBinaryData,
		"STRING_TYPE":       ColumnTypeText,
		"TEXT":              ColumnTypeLargeText,
		"VARCHAR(64)":       ColumnTypeText,
		"INTEGER":           ColumnTypeInteger64Signed,
		"BIGINT_TYPE":       ColumnTypeInteger64Signed,
		"INT":               ColumnTypeInteger32Signed,
		"int unsigned":      ColumnTypeInteger32Unsigned,
		"SMALLINT":          ColumnTypeInteger16Signed,
		"SMALLINT UNSIGNED": ColumnTypeInteger16Unsigned,
		"TINYINT":           ColumnTypeInteger8Unsigned,
		"BOOLEAN":           ColumnTypeBoolean,
		"CURRENCY":          ColumnTypeCurrency,
		"REAL":              ColumnTypeFloatSingle,
		"DOUBLE":            ColumnTypeFloatDouble,
		"TIMESTAMP_TYPE":    ColumnTypeDateTime,
		"UUID":              ColumnTypeGUID,
	}
	for name, want := range tests {
		if got := ParseDatabaseType(name); got != want {
			t.Errorf("ParseDatabaseType(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestEncodeValue(t *testing.T) {
	le := binary.LittleEndian
	tests := []struct {
		name string
		v    any
		typ  ColumnType
		want []byte
	}{
		{"nil", nil, ColumnTypeBinaryData, nil},
		{"bytes", []byte{1, 2}, ColumnTypeBinaryData, []byte{1, 2}},
		{"string", "Inbox", ColumnTypeText, []byte("Inbox")},
		{"bool", true, ColumnTypeBoolean, []byte{1}},
		{"int8 column", int64(7), ColumnTypeInteger8Unsigned, []byte{7}},
		{"int16 column", int64(-2), ColumnTypeInteger16Signed, le.AppendUint16(nil, 0xfffe)},
		{"int32 column", int64(258), ColumnTypeInteger32Signed, le.AppendUint32(nil, 258)},
		{"currency column", int64(116444736000000000), ColumnTypeCurrency, le.AppendUint64(nil, 116444736000000000)},
		{"int in binary column", int64(1), ColumnTypeBinaryData, le.AppendUint64(nil, 1)},
		{"float single", float64(1.5), ColumnTypeFloatSingle, le.AppendUint32(nil, math.Float32bits(1.5))},
		{"float double", float64(1.5), ColumnTypeFloatDouble, le.AppendUint64(nil, math.Float64bits(1.5))},
		{"time", time.Date(1970, 1, 1, 12, 0, 0, 0, time.UTC), ColumnTypeDateTime, le.AppendUint64(nil, math.Float64bits(25569.5))},
	}
	for _, tt := range tests {
		got, err := encodeValue(tt.v, tt.typ)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if !bytes.Equal(got.Data, tt.want) || (got.Data == nil) != (tt.want == nil) {
			t.Errorf("%s: got %x, want %x", tt.name, got.Data, tt.want)
		}
		if got.Flags != 0 {
			t.Errorf("%s: flags %#x", tt.name, got.Flags)
		}
	}
	if _, err := encodeValue(struct{}{}, ColumnTypeBinaryData); err == nil {
		t.Error("expected an error for an unsupported value type")
	}
}
