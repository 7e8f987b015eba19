package exchange

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-data-exporter/esedb-exporter/scanner"
)

const (
	// maxColumnNameSize is the column name working buffer, terminator included.
	maxColumnNameSize = 256

	// Tag name lengths count the bytes of the name alone, without the
	// terminator: "T" is too short and "T30070" still carries a tag.
	minTagNameLength = 2
	maxTagNameLength = 6
)

// Rule maps column names to a Kind. A rule with a non-zero Prefix matches
// names starting with that byte; otherwise it matches Name exactly. A rule
// only fires for the listed physical types.
type Rule struct {
	Prefix byte
	Name   string
	Types  []scanner.ColumnType
	Kind   Kind
}

// Prefix returns a rule matching names that begin with p.
func Prefix(p byte, kind Kind, types ...scanner.ColumnType) Rule {
	return Rule{Prefix: p, Types: types, Kind: kind}
}

// Exact returns a rule matching exactly name.
func Exact(name string, kind Kind, types ...scanner.ColumnType) Rule {
	return Rule{Name: name, Types: types, Kind: kind}
}

func (r Rule) matches(name string, typ scanner.ColumnType) bool {
	if !slices.Contains(r.Types, typ) {
		return false
	}
	if r.Prefix != 0 {
		return name[0] == r.Prefix
	}
	return name == r.Name
}

// Schema is the ordered rule table of one table family. The first matching
// rule wins.
type Schema struct {
	name  string
	rules []Rule
}

func NewSchema(name string, rules ...Rule) *Schema {
	return &Schema{name: name, rules: rules}
}

func (s *Schema) Name() string {
	if s == nil {
		return "generic"
	}
	return s.name
}

// Classify returns the Kind of a column. Only names of two to six bytes
// carry a property tag; anything else is KindUndefined. A nil schema
// classifies every column as KindUndefined.
func (s *Schema) Classify(name string, typ scanner.ColumnType) (Kind, error) {
	if len(name)+1 > maxColumnNameSize {
		return KindUndefined, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	if s == nil || len(name) < minTagNameLength || len(name) > maxTagNameLength {
		return KindUndefined, nil
	}
	for _, r := range s.rules {
		if r.matches(name, typ) {
			return r.Kind, nil
		}
	}
	return KindUndefined, nil
}

var (
	fixed64Types = []scanner.ColumnType{scanner.ColumnTypeCurrency, scanner.ColumnTypeBinaryData}
	stringTypes  = []scanner.ColumnType{scanner.ColumnTypeBinaryData, scanner.ColumnTypeLargeBinaryData}
	binaryTypes  = []scanner.ColumnType{scanner.ColumnTypeBinaryData}
	tagNameRules = []Rule{
		Prefix('S', KindString, stringTypes...),
		Prefix('T', KindFileTime, fixed64Types...),
		Prefix('Q', KindInteger64, fixed64Types...),
		// Integer32 decoding is not wired up for L properties.
		Prefix('L', KindUndefined, stringTypes...),
	}
)

func tagSchema(name string, tokens ...Rule) *Schema {
	return NewSchema(name, append(slices.Clone(tagNameRules), tokens...)...)
}

// Folders is the rule table of the Folders table family.
var Folders = tagSchema("folders",
	Exact("Ne58", KindSID, binaryTypes...),
	Exact("Ne59", KindSID, binaryTypes...),
	Exact("N3880", KindGUID, binaryTypes...),
)

// Mailbox is the rule table of the Mailbox table family.
var Mailbox = tagSchema("mailbox",
	Exact("N66a0", KindSID, binaryTypes...),
	Exact("N676a", KindGUID, binaryTypes...),
	Exact("N676c", KindGUID, binaryTypes...),
)

// SchemaForTable returns the rule table used for a table name, or nil for
// tables exported without type inference.
func SchemaForTable(table string) *Schema {
	switch table {
	case "Folders":
		return Folders
	case "Mailbox":
		return Mailbox
	}
	return nil
}

// SchemaByName resolves a configured schema name. "generic" and the empty
// string resolve to the nil schema.
func SchemaByName(name string) (*Schema, error) {
	switch strings.ToLower(name) {
	case "folders":
		return Folders, nil
	case "mailbox":
		return Mailbox, nil
	case "", "generic":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown schema %q", ErrInvalidArgument, name)
}
