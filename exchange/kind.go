// Package exchange infers what the generically typed columns of Exchange
// mail-store tables really hold and renders their values as text.
//
// Exchange stores most of its properties in binary or currency columns whose
// names follow a property-tag convention: the first letter encodes the
// property type (T for timestamps, Q for 64-bit integers, S for strings) and
// a few well-known tags hold GUIDs or security identifiers. A Schema holds
// the naming rules of one table family; Classify maps a column to a Kind and
// Decode turns the raw value into text. ExportRecord combines both to write a
// tab-separated line per record.
package exchange

import "strconv"

// Kind is the semantic type of a column, inferred from its name and
// physical type.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindInteger32
	KindInteger64
	KindFileTime
	KindGUID
	KindSID
	KindString
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindInteger32: "integer32",
	KindInteger64: "integer64",
	KindFileTime:  "filetime",
	KindGUID:      "guid",
	KindSID:       "sid",
	KindString:    "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}
