package storage

import (
	"strings"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
)

// Column describes one column of a physical tile.
type Column struct {
	Name string
	Type types.DataType
}

// Schema is the ordered column layout of a physical tile. It is immutable
// once a tile references it.
type Schema struct {
	Columns []Column
}

// NewSchema creates a schema from the given columns.
func NewSchema(columns ...Column) *Schema {
	return &Schema{Columns: columns}
}

// NumCols returns the number of columns.
func (s *Schema) NumCols() int {
	return len(s.Columns)
}

// Column returns the descriptor of column id.
func (s *Schema) Column(id int) (Column, error) {
	if id < 0 || id >= len(s.Columns) {
		return Column{}, errors.IndexOutOfRangef("column %d out of range (schema has %d columns)", id, len(s.Columns))
	}
	return s.Columns[id], nil
}

// Project builds a schema containing only the given columns, in order.
func (s *Schema) Project(columnIDs []int) (*Schema, error) {
	projected := make([]Column, len(columnIDs))
	for i, id := range columnIDs {
		col, err := s.Column(id)
		if err != nil {
			return nil, err
		}
		projected[i] = col
	}
	return &Schema{Columns: projected}, nil
}

// Equal reports whether two schemas have identical layout.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if other == nil || len(s.Columns) != len(other.Columns) {
		return false
	}
	for i, col := range s.Columns {
		if col.Name != other.Columns[i].Name || col.Type.Name() != other.Columns[i].Type.Name() {
			return false
		}
	}
	return true
}

// String returns a debugging representation of the schema.
func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, col := range s.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.Name)
		sb.WriteByte(' ')
		sb.WriteString(col.Type.Name())
	}
	sb.WriteByte(')')
	return sb.String()
}
