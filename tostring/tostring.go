// Package tostring renders raw record values as text based only on their
// physical column type. It is the fallback for values that carry no
// inferred semantic type, and it never fails on value content: data that
// does not fit its column type is written as a hexadecimal dump.
package tostring

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/go-data-exporter/esedb-exporter/scanner"
)

// String represents a string value along with a flag indicating whether it was NULL.
// If IsNULL is true, then the value should be considered as NULL or absent.
type String struct {
	String string
	IsNULL bool
}

const dateTimeLayout = "Jan 02, 2006 15:04:05"

// OLE automation dates count days since 1899-12-30.
var oleEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxOLEDays bounds the dates rendered as calendar text (year 9999).
const maxOLEDays = 2958465

// ToString converts a raw value of the given column type to text.
//
// Values stored with any flag set (variable size, compressed, long or
// multi value) are rendered as a lowercase hexadecimal dump, as are binary
// columns and fixed-width types whose data has an unexpected size.
func ToString(v scanner.Value, typ scanner.ColumnType) String {
	if v.IsNULL() {
		return String{"", true}
	}
	data := v.Data
	if !v.Flags.FixedSize() {
		return String{hex.EncodeToString(data), false}
	}
	le := binary.LittleEndian
	switch typ {
	case scanner.ColumnTypeNull:
		return String{"", true}
	case scanner.ColumnTypeBoolean:
		if len(data) == 1 {
			if data[0] != 0 {
				return String{"1", false}
			}
			return String{"0", false}
		}
	case scanner.ColumnTypeInteger8Unsigned:
		if len(data) == 1 {
			return String{strconv.FormatUint(uint64(data[0]), 10), false}
		}
	case scanner.ColumnTypeInteger16Signed:
		if len(data) == 2 {
			return String{strconv.FormatInt(int64(int16(le.Uint16(data))), 10), false}
		}
	case scanner.ColumnTypeInteger16Unsigned:
		if len(data) == 2 {
			return String{strconv.FormatUint(uint64(le.Uint16(data)), 10), false}
		}
	case scanner.ColumnTypeInteger32Signed:
		if len(data) == 4 {
			return String{strconv.FormatInt(int64(int32(le.Uint32(data))), 10), false}
		}
	case scanner.ColumnTypeInteger32Unsigned:
		if len(data) == 4 {
			return String{strconv.FormatUint(uint64(le.Uint32(data)), 10), false}
		}
	case scanner.ColumnTypeInteger64Signed, scanner.ColumnTypeCurrency:
		if len(data) == 8 {
			return String{strconv.FormatInt(int64(le.Uint64(data)), 10), false}
		}
	case scanner.ColumnTypeFloatSingle:
		if len(data) == 4 {
			return String{strconv.FormatFloat(float64(math.Float32frombits(le.Uint32(data))), 'f', -1, 32), false}
		}
	case scanner.ColumnTypeFloatDouble:
		if len(data) == 8 {
			return String{strconv.FormatFloat(math.Float64frombits(le.Uint64(data)), 'f', -1, 64), false}
		}
	case scanner.ColumnTypeDateTime:
		if len(data) == 8 {
			if t, ok := oleDate(math.Float64frombits(le.Uint64(data))); ok {
				return String{t.Format(dateTimeLayout), false}
			}
		}
	case scanner.ColumnTypeText, scanner.ColumnTypeLargeText:
		return String{string(data), false}
	case scanner.ColumnTypeGUID:
		if len(data) == 16 {
			b := make([]byte, 16)
			copy(b, data)
			b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
			b[4], b[5] = b[5], b[4]
			b[6], b[7] = b[7], b[6]
			if id, err := uuid.FromBytes(b); err == nil {
				return String{id.String(), false}
			}
		}
	}
	return String{hex.EncodeToString(data), false}
}

// Export writes the fallback rendering of a record value to w.
func Export(record scanner.Record, index int, w io.Writer) error {
	typ, err := record.ColumnType(index)
	if err != nil {
		return fmt.Errorf("unable to retrieve column type of value: %d: %w", index, err)
	}
	v, err := record.Value(index)
	if err != nil {
		return fmt.Errorf("unable to retrieve value: %d: %w", index, err)
	}
	_, err = io.WriteString(w, ToString(v, typ).String)
	return err
}

func oleDate(days float64) (time.Time, bool) {
	if math.IsNaN(days) || days < -maxOLEDays || days > maxOLEDays {
		return time.Time{}, false
	}
	whole, frac := math.Modf(days * 86400)
	return time.Unix(oleEpoch.Unix()+int64(whole), int64(frac*1e9)).UTC(), true
}
