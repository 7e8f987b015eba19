package exchange

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/go-data-exporter/esedb-exporter/scanner"
)

const (
	filetimeStringSize = 24
	sidStringSize      = 128

	// filetimeLayout matches the ctime-style rendering of the storage tools.
	filetimeLayout = "Jan 02, 2006 15:04:05"

	// Seconds between the FILETIME epoch (1601-01-01) and the Unix epoch.
	filetimeUnixOffset  = 11644473600
	filetimeTicksPerSec = 10_000_000

	maxSubAuthorities = 15
)

var (
	integer32Types  = []scanner.ColumnType{scanner.ColumnTypeBinaryData}
	integer64Types  = []scanner.ColumnType{scanner.ColumnTypeBinaryData, scanner.ColumnTypeCurrency}
	filetimeTypes   = integer64Types
	guidTypes       = []scanner.ColumnType{scanner.ColumnTypeBinaryData}
	sidTypes        = []scanner.ColumnType{scanner.ColumnTypeBinaryData}
	stringKindTypes = []scanner.ColumnType{scanner.ColumnTypeBinaryData, scanner.ColumnTypeLargeBinaryData}
)

// Decode renders v as the given kind. Byte order only applies to the
// fixed-width kinds.
func Decode(kind Kind, v scanner.Value, typ scanner.ColumnType, order binary.ByteOrder) (string, error) {
	switch kind {
	case KindInteger32:
		return DecodeInteger32(v, typ, order)
	case KindInteger64:
		return DecodeInteger64(v, typ, order)
	case KindFileTime:
		return DecodeFileTime(v, typ, order)
	case KindGUID:
		return DecodeGUID(v, typ, order)
	case KindSID:
		return DecodeSID(v, typ)
	case KindString:
		return DecodeString(v, typ)
	case KindUndefined:
		return "", fmt.Errorf("%w: no decoder for %s values", ErrInvalidArgument, kind)
	}
	return "", fmt.Errorf("%w: unknown kind %s", ErrInvalidArgument, kind)
}

// DecodeInteger32 renders a 4-byte value as an unsigned decimal.
func DecodeInteger32(v scanner.Value, typ scanner.ColumnType, order binary.ByteOrder) (string, error) {
	data, err := fixedWidth(KindInteger32, v, typ, order, integer32Types, 4)
	if data == nil || err != nil {
		return hexOrEmpty(v, err)
	}
	return strconv.FormatUint(uint64(order.Uint32(data)), 10), nil
}

// DecodeInteger64 renders an 8-byte value as 0x-prefixed hexadecimal.
func DecodeInteger64(v scanner.Value, typ scanner.ColumnType, order binary.ByteOrder) (string, error) {
	data, err := fixedWidth(KindInteger64, v, typ, order, integer64Types, 8)
	if data == nil || err != nil {
		return hexOrEmpty(v, err)
	}
	return "0x" + strconv.FormatUint(order.Uint64(data), 16), nil
}

// DecodeFileTime renders an 8-byte FILETIME as a UTC date and time.
func DecodeFileTime(v scanner.Value, typ scanner.ColumnType, order binary.ByteOrder) (string, error) {
	data, err := fixedWidth(KindFileTime, v, typ, order, filetimeTypes, 8)
	if data == nil || err != nil {
		return hexOrEmpty(v, err)
	}
	t := FileTime(order.Uint64(data))

	var storage [filetimeStringSize]byte
	text := textBuffer{buf: storage[:]}
	var scratch [32]byte
	if err := text.write(t.AppendFormat(scratch[:0], filetimeLayout)); err != nil {
		return "", fmt.Errorf("%w: unable to copy filetime to string: %w", ErrDecodeFailed, err)
	}
	return text.String(), nil
}

// FileTime converts a count of 100-nanosecond ticks since 1601-01-01 UTC.
func FileTime(ticks uint64) time.Time {
	secs := int64(ticks/filetimeTicksPerSec) - filetimeUnixOffset
	nsec := int64(ticks%filetimeTicksPerSec) * 100
	return time.Unix(secs, nsec).UTC()
}

// DecodeGUID renders a 16-byte value in canonical GUID form. With
// little-endian order the first three fields are byte-swapped.
func DecodeGUID(v scanner.Value, typ scanner.ColumnType, order binary.ByteOrder) (string, error) {
	data, err := fixedWidth(KindGUID, v, typ, order, guidTypes, 16)
	if data == nil || err != nil {
		return hexOrEmpty(v, err)
	}
	id, err := GUID(data, order)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GUID reads a 16-byte GUID stored in the given byte order.
func GUID(data []byte, order binary.ByteOrder) (uuid.UUID, error) {
	if len(data) != 16 {
		return uuid.Nil, &SizeError{Kind: KindGUID, Expected: 16, Actual: len(data)}
	}
	b := slices.Clone(data)
	if order == binary.LittleEndian {
		slices.Reverse(b[0:4])
		slices.Reverse(b[4:6])
		slices.Reverse(b[6:8])
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: unable to copy byte stream to GUID: %w", ErrDecodeFailed, err)
	}
	return id, nil
}

// DecodeSID renders a security identifier as S-R-I-S-S...
func DecodeSID(v scanner.Value, typ scanner.ColumnType) (string, error) {
	if err := checkType(KindSID, typ, sidTypes); err != nil {
		return "", err
	}
	if v.IsNULL() {
		return "", nil
	}
	if !v.Flags.FixedSize() {
		return hex.EncodeToString(v.Data), nil
	}
	return SID(v.Data)
}

// SID parses a binary security identifier and renders its string form.
func SID(data []byte) (string, error) {
	if len(data) < 8 {
		return "", fmt.Errorf("%w: SID data too small: %d bytes", ErrDecodeFailed, len(data))
	}
	revision := data[0]
	if revision != 1 {
		return "", fmt.Errorf("%w: unsupported SID revision: %d", ErrDecodeFailed, revision)
	}
	count := int(data[1])
	if count > maxSubAuthorities {
		return "", fmt.Errorf("%w: unsupported number of SID sub authorities: %d", ErrDecodeFailed, count)
	}
	if len(data) < 8+4*count {
		return "", fmt.Errorf("%w: SID data too small for %d sub authorities: %d bytes", ErrDecodeFailed, count, len(data))
	}
	var authority uint64
	for _, b := range data[2:8] {
		authority = authority<<8 | uint64(b)
	}

	var storage [sidStringSize]byte
	text := textBuffer{buf: storage[:]}
	var scratch [24]byte
	if err := text.write([]byte("S-")); err != nil {
		return "", err
	}
	if err := text.write(strconv.AppendUint(scratch[:0], uint64(revision), 10)); err != nil {
		return "", err
	}
	if authority > 0xffffffff {
		if err := text.write(fmt.Appendf(scratch[:0], "-0x%012x", authority)); err != nil {
			return "", err
		}
	} else {
		if err := text.write(strconv.AppendUint(append(scratch[:0], '-'), authority, 10)); err != nil {
			return "", err
		}
	}
	for i := range count {
		sub := binary.LittleEndian.Uint32(data[8+4*i:])
		if err := text.write(strconv.AppendUint(append(scratch[:0], '-'), uint64(sub), 10)); err != nil {
			return "", err
		}
	}
	return text.String(), nil
}

// DecodeString passes the bytes through unchanged, one byte per character.
func DecodeString(v scanner.Value, typ scanner.ColumnType) (string, error) {
	if err := checkType(KindString, typ, stringKindTypes); err != nil {
		return "", err
	}
	return string(v.Data), nil
}

// fixedWidth validates a fixed-width value. It returns nil data for null
// values and for values that are not stored at their fixed width.
func fixedWidth(kind Kind, v scanner.Value, typ scanner.ColumnType, order binary.ByteOrder, types []scanner.ColumnType, width int) ([]byte, error) {
	if order != binary.LittleEndian && order != binary.BigEndian {
		return nil, fmt.Errorf("%w: unsupported byte order: %v", ErrInvalidArgument, order)
	}
	if err := checkType(kind, typ, types); err != nil {
		return nil, err
	}
	if v.IsNULL() || !v.Flags.FixedSize() {
		return nil, nil
	}
	if len(v.Data) != width {
		return nil, &SizeError{Kind: kind, Expected: width, Actual: len(v.Data)}
	}
	return v.Data, nil
}

func hexOrEmpty(v scanner.Value, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(v.Data), nil
}

func checkType(kind Kind, typ scanner.ColumnType, types []scanner.ColumnType) error {
	if !slices.Contains(types, typ) {
		return fmt.Errorf("%w: %s for %s value", ErrUnsupportedPhysicalType, typ, kind)
	}
	return nil
}

// textBuffer is a fixed-capacity text buffer. A write that would leave no
// room for the terminator fails instead of growing the buffer.
type textBuffer struct {
	buf []byte
	n   int
}

func (t *textBuffer) write(p []byte) error {
	if t.n+len(p)+1 > len(t.buf) {
		return fmt.Errorf("%w: %d bytes needed, %d available", ErrBufferTooSmall, t.n+len(p)+1, len(t.buf))
	}
	t.n += copy(t.buf[t.n:], p)
	return nil
}

func (t *textBuffer) String() string {
	return string(t.buf[:t.n])
}
