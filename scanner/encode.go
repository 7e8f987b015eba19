package scanner

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"
)

// ParseDatabaseType maps a SQL or Hive declared type name to the physical
// column type it most closely corresponds to. Unknown and empty names map to
// ColumnTypeBinaryData so the raw bytes are preserved.
func ParseDatabaseType(name string) ColumnType {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "_TYPE")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	unsigned := strings.HasSuffix(name, " UNSIGNED")
	name = strings.TrimSuffix(name, " UNSIGNED")
	switch name {
	case "BOOL", "BOOLEAN", "BIT":
		return ColumnTypeBoolean
	case "TINYINT":
		return ColumnTypeInteger8Unsigned
	case "SMALLINT":
		if unsigned {
			return ColumnTypeInteger16Unsigned
		}
		return ColumnTypeInteger16Signed
	case "INT", "MEDIUMINT":
		if unsigned {
			return ColumnTypeInteger32Unsigned
		}
		return ColumnTypeInteger32Signed
	case "INTEGER", "BIGINT":
		return ColumnTypeInteger64Signed
	case "MONEY", "CURRENCY":
		return ColumnTypeCurrency
	case "REAL", "FLOAT":
		return ColumnTypeFloatSingle
	case "DOUBLE", "DOUBLE PRECISION":
		return ColumnTypeFloatDouble
	case "DATE", "DATETIME", "TIMESTAMP":
		return ColumnTypeDateTime
	case "CHAR", "VARCHAR", "NVARCHAR", "STRING":
		return ColumnTypeText
	case "TEXT", "CLOB", "LONGTEXT", "MEDIUMTEXT":
		return ColumnTypeLargeText
	case "LONGBLOB", "MEDIUMBLOB", "LONGVARBINARY":
		return ColumnTypeLargeBinaryData
	case "GUID", "UUID", "UNIQUEIDENTIFIER":
		return ColumnTypeGUID
	}
	return ColumnTypeBinaryData
}

var oleEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// encodeValue converts a value scanned by a Go driver back to the raw
// little-endian form the storage engine would have produced for typ.
func encodeValue(v any, typ ColumnType) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Value{}, nil
	case []byte:
		return Value{Data: v}, nil
	case string:
		return Value{Data: []byte(v)}, nil
	case bool:
		if v {
			return Value{Data: []byte{1}}, nil
		}
		return Value{Data: []byte{0}}, nil
	case int:
		return encodeInteger(int64(v), typ), nil
	case int8:
		return encodeInteger(int64(v), typ), nil
	case int16:
		return encodeInteger(int64(v), typ), nil
	case int32:
		return encodeInteger(int64(v), typ), nil
	case int64:
		return encodeInteger(v, typ), nil
	case float32:
		return encodeFloat(float64(v), typ), nil
	case float64:
		return encodeFloat(v, typ), nil
	case time.Time:
		secs := float64(v.Unix()-oleEpoch.Unix()) + float64(v.Nanosecond())/1e9
		return encodeFloat(secs/86400, ColumnTypeFloatDouble), nil
	}
	return Value{}, fmt.Errorf("unsupported scanned value type %T for column type %s", v, typ)
}

func encodeInteger(n int64, typ ColumnType) Value {
	var data []byte
	switch typ {
	case ColumnTypeBoolean, ColumnTypeInteger8Unsigned:
		data = []byte{byte(n)}
	case ColumnTypeInteger16Signed, ColumnTypeInteger16Unsigned:
		data = binary.LittleEndian.AppendUint16(nil, uint16(n))
	case ColumnTypeInteger32Signed, ColumnTypeInteger32Unsigned:
		data = binary.LittleEndian.AppendUint32(nil, uint32(n))
	case ColumnTypeFloatSingle, ColumnTypeFloatDouble, ColumnTypeDateTime:
		return encodeFloat(float64(n), typ)
	default:
		data = binary.LittleEndian.AppendUint64(nil, uint64(n))
	}
	return Value{Data: data}
}

func encodeFloat(f float64, typ ColumnType) Value {
	if typ == ColumnTypeFloatSingle {
		return Value{Data: binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(f)))}
	}
	return Value{Data: binary.LittleEndian.AppendUint64(nil, math.Float64bits(f))}
}
