package storage

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/index"
)

// Backend allocates physical tiles for intermediate pipeline results.
// Backends are injected per plan node so memory tiering can be swapped
// without touching tile logic.
type Backend interface {
	// Name identifies the backend in diagnostics.
	Name() string

	// AllocateTile allocates a tile pre-sized to numRows rows of NULLs,
	// ready to be filled with SetValue.
	AllocateTile(schema *Schema, numRows int) (*Tile, error)

	// LiveTiles returns the number of allocated, unreleased tiles.
	LiveTiles() int

	// BytesAllocated returns the estimated bytes held by live tiles.
	BytesAllocated() int64

	// release returns a tile's storage. Called by Tile.Release only.
	release(t *Tile)
}

// MemoryBackend allocates tiles on the Go heap with byte accounting and an
// optional allocation limit. Live tiles are tracked in an ordered registry
// keyed by tile id.
type MemoryBackend struct {
	mu     sync.Mutex
	nextID atomic.Uint64
	tiles  *index.OrderedMap[uint64, *Tile]
	bytes  atomic.Int64
	limit  int64
}

// NewMemoryBackend creates a memory backend. A limit of zero disables the
// allocation cap.
func NewMemoryBackend(limit int64) *MemoryBackend {
	return &MemoryBackend{
		tiles: index.NewOrderedMap[uint64, *Tile](),
		limit: limit,
	}
}

// Name identifies the backend in diagnostics.
func (b *MemoryBackend) Name() string {
	return "memory"
}

// AllocateTile allocates a pre-sized tile and registers it.
func (b *MemoryBackend) AllocateTile(schema *Schema, numRows int) (*Tile, error) {
	tile := newSizedTile(schema, numRows)
	size := tile.MemSize()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && b.bytes.Load()+size > b.limit {
		return nil, errors.BackendExhaustedError(size, b.limit)
	}

	tile.id = TileID(b.nextID.Add(1))
	tile.backend = b
	b.tiles.Insert(uint64(tile.id), tile)
	b.bytes.Add(size)
	return tile, nil
}

// LiveTiles returns the number of allocated, unreleased tiles.
func (b *MemoryBackend) LiveTiles() int {
	return b.tiles.Len()
}

// BytesAllocated returns the estimated bytes held by live tiles.
func (b *MemoryBackend) BytesAllocated() int64 {
	return b.bytes.Load()
}

func (b *MemoryBackend) release(t *Tile) {
	if b.tiles.Erase(uint64(t.id)) {
		b.bytes.Add(-t.MemSize())
	}
}
