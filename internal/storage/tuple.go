package storage

import (
	"strings"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
)

// Tuple is one row of a physical tile, copied out of column storage.
type Tuple struct {
	schema *Schema
	values []types.Value
}

// NewTuple creates a tuple over the given schema. The value count must
// match the schema width.
func NewTuple(schema *Schema, values ...types.Value) (*Tuple, error) {
	if len(values) != schema.NumCols() {
		return nil, errors.SchemaMismatchf("tuple has %d values, schema has %d columns", len(values), schema.NumCols())
	}
	return &Tuple{schema: schema, values: values}, nil
}

// Schema returns the tuple's schema.
func (t *Tuple) Schema() *Schema {
	return t.schema
}

// Value returns the value of column id.
func (t *Tuple) Value(id int) (types.Value, error) {
	if id < 0 || id >= len(t.values) {
		return types.Value{}, errors.IndexOutOfRangef("tuple column %d out of range (%d columns)", id, len(t.values))
	}
	return t.values[id], nil
}

// Values returns all values in column order.
func (t *Tuple) Values() []types.Value {
	return t.values
}

// String returns a debugging representation of the tuple.
func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
