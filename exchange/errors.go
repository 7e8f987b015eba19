package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrMetadataUnavailable     = errors.New("column metadata unavailable")
	ErrNameTooLong             = errors.New("column name too long")
	ErrUnsupportedPhysicalType = errors.New("unsupported column type")
	ErrMalformedSize           = errors.New("unsupported value data size")
	ErrBufferTooSmall          = errors.New("string buffer too small")
	ErrDecodeFailed            = errors.New("unable to decode value")
)

// SizeError reports a fixed-size value whose length does not match the
// width of its kind.
type SizeError struct {
	Kind     Kind
	Expected int
	Actual   int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %s value of %d bytes, expected %d", ErrMalformedSize, e.Kind, e.Actual, e.Expected)
}

func (e *SizeError) Unwrap() error {
	return ErrMalformedSize
}

// ValueError locates a failure within a record.
type ValueError struct {
	Index  int
	Column string
	Err    error
}

func (e *ValueError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("value %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("value %d (%s): %v", e.Index, e.Column, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
