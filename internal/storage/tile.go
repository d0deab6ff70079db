package storage

import (
	"fmt"
	"strings"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
)

// TileID identifies a physical tile within its backend.
type TileID uint64

// Tile is a physical (base) tile: column-major storage for a fixed schema.
// Tiles are immutable once referenced by a logical tile; mutation happens
// only while an operator fills a freshly allocated tile.
type Tile struct {
	id       TileID
	schema   *Schema
	columns  [][]types.Value
	numRows  int
	backend  Backend
	released bool
}

// NewTile creates a standalone tile (not tracked by a backend) with room
// for capacity rows.
func NewTile(schema *Schema, capacity int) *Tile {
	columns := make([][]types.Value, schema.NumCols())
	for i := range columns {
		columns[i] = make([]types.Value, 0, capacity)
	}
	return &Tile{
		schema:  schema,
		columns: columns,
	}
}

// newSizedTile creates a tile pre-sized to numRows rows of NULLs. Used by
// backends allocating destination tiles that are filled with SetValue.
func newSizedTile(schema *Schema, numRows int) *Tile {
	columns := make([][]types.Value, schema.NumCols())
	for i := range columns {
		col := make([]types.Value, numRows)
		for r := range col {
			col[r] = types.NewNullValue()
		}
		columns[i] = col
	}
	return &Tile{
		schema:  schema,
		columns: columns,
		numRows: numRows,
	}
}

// ID returns the tile's backend-assigned id (zero for standalone tiles).
func (t *Tile) ID() TileID {
	return t.id
}

// Schema returns the tile's schema.
func (t *Tile) Schema() *Schema {
	return t.schema
}

// NumRows returns the number of rows.
func (t *Tile) NumRows() int {
	return t.numRows
}

// NumCols returns the number of columns.
func (t *Tile) NumCols() int {
	return t.schema.NumCols()
}

// Released reports whether the tile's storage has been released.
func (t *Tile) Released() bool {
	return t.released
}

// AppendRow appends one row of values. The value count must match the
// schema width.
func (t *Tile) AppendRow(values ...types.Value) error {
	if t.released {
		return errors.TileReleasedError(uint64(t.id))
	}
	if len(values) != t.schema.NumCols() {
		return errors.SchemaMismatchf("row has %d values, tile has %d columns", len(values), t.schema.NumCols())
	}
	for i, v := range values {
		t.columns[i] = append(t.columns[i], v)
	}
	t.numRows++
	return nil
}

// AppendTuple appends a tuple as a new row.
func (t *Tile) AppendTuple(tuple *Tuple) error {
	return t.AppendRow(tuple.Values()...)
}

// GetValue returns the value at (row, column).
func (t *Tile) GetValue(row, column int) (types.Value, error) {
	if t.released {
		return types.Value{}, errors.TileReleasedError(uint64(t.id))
	}
	if column < 0 || column >= t.schema.NumCols() {
		return types.Value{}, errors.IndexOutOfRangef("column %d out of range (tile has %d columns)", column, t.schema.NumCols())
	}
	if row < 0 || row >= t.numRows {
		return types.Value{}, errors.IndexOutOfRangef("row %d out of range (tile has %d rows)", row, t.numRows)
	}
	return t.columns[column][row], nil
}

// SetValue overwrites the value at (row, column).
func (t *Tile) SetValue(row, column int, v types.Value) error {
	if t.released {
		return errors.TileReleasedError(uint64(t.id))
	}
	if column < 0 || column >= t.schema.NumCols() {
		return errors.IndexOutOfRangef("column %d out of range (tile has %d columns)", column, t.schema.NumCols())
	}
	if row < 0 || row >= t.numRows {
		return errors.IndexOutOfRangef("row %d out of range (tile has %d rows)", row, t.numRows)
	}
	t.columns[column][row] = v
	return nil
}

// GetTuple copies row out of column storage.
func (t *Tile) GetTuple(row int) (*Tuple, error) {
	if t.released {
		return nil, errors.TileReleasedError(uint64(t.id))
	}
	if row < 0 || row >= t.numRows {
		return nil, errors.IndexOutOfRangef("row %d out of range (tile has %d rows)", row, t.numRows)
	}
	values := make([]types.Value, t.schema.NumCols())
	for c := range values {
		values[c] = t.columns[c][row]
	}
	return NewTuple(t.schema, values...)
}

// MemSize estimates the tile's in-memory footprint in bytes.
func (t *Tile) MemSize() int64 {
	var rowSize int64
	for _, col := range t.schema.Columns {
		if size := col.Type.Size(); size > 0 {
			rowSize += int64(size)
		} else {
			rowSize += 24 // variable-width estimate
		}
		rowSize += 16 // per-value boxing overhead
	}
	return rowSize * int64(t.numRows)
}

// Release returns the tile's storage to its backend. Releasing twice is a
// no-op; standalone tiles are only marked released.
func (t *Tile) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.backend != nil {
		t.backend.release(t)
	}
	t.columns = nil
}

// String returns a debugging dump of the tile's contents.
func (t *Tile) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TILE %d %s [%d rows]\n", t.id, t.schema, t.numRows)
	for r := 0; r < t.numRows; r++ {
		sb.WriteByte('\t')
		for c := 0; c < t.schema.NumCols(); c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.columns[c][r].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
