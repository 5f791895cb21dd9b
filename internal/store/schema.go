package store

import (
	"fmt"
	"reflect"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/spokewith/internal/codec"
)

// Schema is the contract a record type must satisfy to be stored.
//
// Serialization uses encoding/json struct tags and is canonicalized by the
// store. Validate must report every way the value fails the record's rules;
// it runs before every write and after every decode.
type Schema interface {
	Validate() error
}

// validIdentifier matches table names the store will generate DDL for.
var validIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var lower = cases.Lower(language.Und)

// TableName returns the table bound to schema T: the Go type name,
// lower-cased, with a trailing "s". It fails for unnamed types (pointers,
// anonymous structs) and names that are not plain identifiers, such as
// instantiated generic types.
func TableName[T Schema]() (string, error) {
	typ := reflect.TypeFor[T]()
	name := typ.Name()
	if name == "" {
		return "", fmt.Errorf("schema type %s has no name", typ)
	}

	table := lower.String(name) + "s"
	if !validIdentifier.MatchString(table) {
		return "", fmt.Errorf("schema type %s does not yield a valid table name (%q)", typ, table)
	}
	return table, nil
}

// FromFields constructs a T from a field-value mapping keyed by JSON field
// names and validates it. Unknown fields are rejected.
func FromFields[T Schema](fields map[string]any) (T, error) {
	var zero T

	data, err := codec.Marshal(fields)
	if err != nil {
		return zero, &Error{Code: CodeValidation, Op: "from fields", Err: err}
	}

	var v T
	if err := codec.UnmarshalStrict(data, &v); err != nil {
		return zero, &Error{Code: CodeValidation, Op: "from fields", Err: err}
	}
	if err := v.Validate(); err != nil {
		return zero, &Error{Code: CodeValidation, Op: "from fields", Err: err}
	}
	return v, nil
}

// ToFields returns the field-value mapping of v, the inverse of FromFields.
func ToFields[T Schema](v T) (map[string]any, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, &Error{Code: CodeValidation, Op: "to fields", Err: err}
	}

	fields := make(map[string]any)
	if err := codec.Unmarshal(data, &fields); err != nil {
		return nil, &Error{Code: CodeValidation, Op: "to fields", Err: err}
	}
	return fields, nil
}
