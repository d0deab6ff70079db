package executor

import (
	"github.com/RoaringBitmap/roaring"
)

// TileIterator is a forward, single-pass cursor over a logical tile's
// visible rows, yielding logical row indices in ascending order. It
// borrows the tile; mutating the tile's schema or position lists while a
// cursor is live is undefined. A fresh cursor restarts from the first
// valid row.
type TileIterator struct {
	tile *LogicalTile
	it   roaring.IntPeekable
	row  int
}

// Iterator returns a cursor positioned before the first valid row.
func (lt *LogicalTile) Iterator() *TileIterator {
	return &TileIterator{
		tile: lt,
		it:   lt.validityIterator(),
		row:  -1,
	}
}

func (lt *LogicalTile) validityIterator() roaring.IntPeekable {
	if lt.validity == nil {
		return roaring.New().Iterator()
	}
	return lt.validity.bm.Iterator()
}

// Next advances to the next valid row. It returns false when the cursor is
// exhausted.
func (it *TileIterator) Next() bool {
	if !it.it.HasNext() {
		it.row = -1
		return false
	}
	it.row = int(it.it.Next())
	return true
}

// Row returns the logical row index the cursor is positioned on. It is
// valid only after a successful Next.
func (it *TileIterator) Row() int {
	return it.row
}

// Tile returns the tile this cursor iterates.
func (it *TileIterator) Tile() *LogicalTile {
	return it.tile
}
