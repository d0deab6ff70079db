package executor

import (
	"github.com/dshills/StrataDB/internal/storage"
)

// Logical tiles are assembled only through these factory functions, so
// every tile goes through a controlled build phase: position lists first,
// then the columns that reference them.

// NewLogicalTile returns an empty logical tile ready for its build phase.
func NewLogicalTile() *LogicalTile {
	return newLogicalTile()
}

// WrapTile builds a logical tile presenting every column of a physical
// tile one-to-one: a single identity position list over all rows. If own
// is set the logical tile releases the physical tile on Close.
func WrapTile(tile *storage.Tile, own bool) (*LogicalTile, error) {
	lt := newLogicalTile()

	positionList := make([]int, tile.NumRows())
	for i := range positionList {
		positionList[i] = i
	}
	listIdx, err := lt.AddPositionList(positionList)
	if err != nil {
		return nil, err
	}

	for col := 0; col < tile.NumCols(); col++ {
		// Ownership dedups by identity, so passing own per column is safe.
		if err := lt.AddColumn(tile, own, col, listIdx); err != nil {
			return nil, err
		}
	}
	return lt, nil
}

// WrapTiles builds one logical tile per physical tile.
func WrapTiles(tiles []*storage.Tile, own bool) ([]*LogicalTile, error) {
	out := make([]*LogicalTile, 0, len(tiles))
	for _, tile := range tiles {
		lt, err := WrapTile(tile, own)
		if err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, nil
}
