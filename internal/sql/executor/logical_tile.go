package executor

import (
	"fmt"
	"strings"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
)

// columnDescriptor maps one logical column to a column of a physical tile,
// indirected through one of the tile's position lists.
type columnDescriptor struct {
	baseTile        *storage.Tile
	originColumnID  int
	positionListIdx int
}

// LogicalTile presents a late-materialized view over one or more physical
// tiles: a schema of column-to-tile mappings, position lists translating
// logical rows to physical rows, and a validity bitmap narrowing the
// visible rows. No tuple data is copied until a materialization stage
// consumes the tile.
//
// Logical tiles are built only through the factory functions in
// logical_tile_factory.go. Schema entries and position lists are
// append-only during the build phase; the validity bitmap is the only
// state that mutates afterwards, and only the filter stage mutates it.
type LogicalTile struct {
	schema        []columnDescriptor
	positionLists [][]int
	validity      *validityBitmap
	numTuples     int
	ownedTiles    map[*storage.Tile]struct{}
	closed        bool
}

// newLogicalTile is the sole constructor; see the factory functions.
func newLogicalTile() *LogicalTile {
	return &LogicalTile{
		ownedTiles: make(map[*storage.Tile]struct{}),
	}
}

// AddPositionList appends a position list, moving it into the tile. The
// first list fixes the tile's row count and initializes the validity
// bitmap to all-valid; every later list must have the same length. It
// returns the new list's index for use in AddColumn.
func (lt *LogicalTile) AddPositionList(positionList []int) (int, error) {
	if len(lt.positionLists) > 0 && len(positionList) != lt.numTuples {
		return 0, errors.SchemaMismatchf(
			"position list has %d entries, tile has %d tuples", len(positionList), lt.numTuples)
	}
	if len(lt.positionLists) == 0 {
		lt.numTuples = len(positionList)
		lt.validity = newValidityBitmap(lt.numTuples)
	}
	lt.positionLists = append(lt.positionLists, positionList)
	return len(lt.positionLists) - 1, nil
}

// AddColumn appends a schema descriptor for a column of baseTile. The
// referenced position list must already have been added. If own is set the
// tile joins the owned set and is released when the logical tile closes;
// owning the same tile through several columns releases it once.
func (lt *LogicalTile) AddColumn(baseTile *storage.Tile, own bool, originColumnID, positionListIdx int) error {
	if positionListIdx < 0 || positionListIdx >= len(lt.positionLists) {
		return errors.IndexOutOfRangef(
			"position list %d not registered (%d lists)", positionListIdx, len(lt.positionLists))
	}
	if originColumnID < 0 || originColumnID >= baseTile.NumCols() {
		return errors.IndexOutOfRangef(
			"origin column %d out of range (base tile has %d columns)", originColumnID, baseTile.NumCols())
	}

	lt.schema = append(lt.schema, columnDescriptor{
		baseTile:        baseTile,
		originColumnID:  originColumnID,
		positionListIdx: positionListIdx,
	})

	if own {
		lt.ownedTiles[baseTile] = struct{}{}
	}
	return nil
}

// NumTuples returns the tile's logical row count, fixed by the first
// position list. Invalidation does not change it.
func (lt *LogicalTile) NumTuples() int {
	return lt.numTuples
}

// NumCols returns the number of logical columns.
func (lt *LogicalTile) NumCols() int {
	return len(lt.schema)
}

// ValidRowCount returns the number of rows still visible.
func (lt *LogicalTile) ValidRowCount() int {
	if lt.validity == nil {
		return 0
	}
	return lt.validity.count()
}

// GetBaseTile returns the physical tile backing a logical column. The
// caller borrows the reference; ownership stays with the logical tile.
func (lt *LogicalTile) GetBaseTile(columnID int) (*storage.Tile, error) {
	if columnID < 0 || columnID >= len(lt.schema) {
		return nil, errors.IndexOutOfRangef("logical column %d out of range (%d columns)", columnID, len(lt.schema))
	}
	return lt.schema[columnID].baseTile, nil
}

// ColumnInfo returns the name and type of the physical column backing a
// logical column.
func (lt *LogicalTile) ColumnInfo(columnID int) (storage.Column, error) {
	if columnID < 0 || columnID >= len(lt.schema) {
		return storage.Column{}, errors.IndexOutOfRangef("logical column %d out of range (%d columns)", columnID, len(lt.schema))
	}
	cd := lt.schema[columnID]
	return cd.baseTile.Schema().Column(cd.originColumnID)
}

// GetValue resolves (columnID, rowID) through the column's position list
// and returns the physical tile's value. Reading an invalidated row yields
// the invalid-value sentinel; a bad column or row id is a contract
// violation and fails.
func (lt *LogicalTile) GetValue(columnID, rowID int) (types.Value, error) {
	cd, err := lt.descriptor(columnID, rowID)
	if err != nil {
		return types.Value{}, err
	}
	if !lt.validity.valid(rowID) {
		return types.NewInvalidValue(), nil
	}

	baseRow := lt.positionLists[cd.positionListIdx][rowID]
	return cd.baseTile.GetValue(baseRow, cd.originColumnID)
}

// GetTuple copies the full physical tuple containing (columnID, rowID).
// Reading an invalidated row yields a nil tuple.
func (lt *LogicalTile) GetTuple(columnID, rowID int) (*storage.Tuple, error) {
	cd, err := lt.descriptor(columnID, rowID)
	if err != nil {
		return nil, err
	}
	if !lt.validity.valid(rowID) {
		return nil, nil
	}

	baseRow := lt.positionLists[cd.positionListIdx][rowID]
	return cd.baseTile.GetTuple(baseRow)
}

func (lt *LogicalTile) descriptor(columnID, rowID int) (columnDescriptor, error) {
	if columnID < 0 || columnID >= len(lt.schema) {
		return columnDescriptor{}, errors.IndexOutOfRangef(
			"logical column %d out of range (%d columns)", columnID, len(lt.schema))
	}
	if rowID < 0 || rowID >= lt.numTuples {
		return columnDescriptor{}, errors.IndexOutOfRangef(
			"logical row %d out of range (%d tuples)", rowID, lt.numTuples)
	}
	return lt.schema[columnID], nil
}

// InvalidateRow marks a logical row as filtered out. Only the filter stage
// calls this; every other stage treats validity as read-only.
func (lt *LogicalTile) InvalidateRow(rowID int) error {
	if rowID < 0 || rowID >= lt.numTuples {
		return errors.IndexOutOfRangef("logical row %d out of range (%d tuples)", rowID, lt.numTuples)
	}
	lt.validity.invalidate(rowID)
	return nil
}

// Close releases every uniquely-owned physical tile exactly once. Tiles
// referenced but not owned are untouched. Closing twice is a no-op.
func (lt *LogicalTile) Close() {
	if lt.closed {
		return
	}
	lt.closed = true
	for tile := range lt.ownedTiles {
		tile.Release()
	}
}

// String renders the tile's schema, validity bitmap and position lists for
// diagnostics. Not a persisted or interchange format.
func (lt *LogicalTile) String() string {
	var sb strings.Builder

	sb.WriteString("\t-----------------------------------------------------------\n")
	sb.WriteString("\tLOGICAL TILE\n")
	sb.WriteString("\t-----------------------------------------------------------\n")
	sb.WriteString("\tSCHEMA\n")
	for i, cd := range lt.schema {
		fmt.Fprintf(&sb, "\tcolumn %d: position list %d, base tile %d, origin column %d\n",
			i, cd.positionListIdx, cd.baseTile.ID(), cd.originColumnID)
	}

	sb.WriteString("\t-----------------------------------------------------------\n")
	sb.WriteString("\tVALID ROWS\n")
	if lt.validity != nil {
		sb.WriteString("\t" + lt.validity.String() + "\n")
	}

	sb.WriteString("\t-----------------------------------------------------------\n")
	sb.WriteString("\tPOSITION LISTS\n")
	for _, positionList := range lt.positionLists {
		sb.WriteByte('\t')
		for i, pos := range positionList {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", pos)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\t-----------------------------------------------------------\n")

	return sb.String()
}
