package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
)

func TestMemoryBackendAccounting(t *testing.T) {
	backend := NewMemoryBackend(0)
	assert.Equal(t, "memory", backend.Name())

	first, err := backend.AllocateTile(sampleSchema(), 10)
	require.NoError(t, err)
	second, err := backend.AllocateTile(sampleSchema(), 20)
	require.NoError(t, err)

	assert.Equal(t, 2, backend.LiveTiles())
	assert.Equal(t, first.MemSize()+second.MemSize(), backend.BytesAllocated())
	assert.NotEqual(t, first.ID(), second.ID())

	first.Release()
	assert.Equal(t, 1, backend.LiveTiles())
	assert.Equal(t, second.MemSize(), backend.BytesAllocated())

	// Releasing again changes nothing.
	first.Release()
	assert.Equal(t, 1, backend.LiveTiles())

	second.Release()
	assert.Equal(t, 0, backend.LiveTiles())
	assert.Equal(t, int64(0), backend.BytesAllocated())
}

func TestMemoryBackendLimit(t *testing.T) {
	backend := NewMemoryBackend(1)
	_, err := backend.AllocateTile(sampleSchema(), 10)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.BackendExhausted))
	assert.Equal(t, 0, backend.LiveTiles())

	// A generous limit admits the allocation.
	unlimited := NewMemoryBackend(1 << 20)
	tile, err := unlimited.AllocateTile(sampleSchema(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, unlimited.LiveTiles())
	tile.Release()
}

func TestAllocatedTileIsFilledWithNulls(t *testing.T) {
	backend := NewMemoryBackend(0)
	tile, err := backend.AllocateTile(sampleSchema(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, tile.NumRows())
	for r := 0; r < 3; r++ {
		for c := 0; c < tile.NumCols(); c++ {
			v, err := tile.GetValue(r, c)
			require.NoError(t, err)
			assert.True(t, v.IsNull())
		}
	}

	require.NoError(t, tile.SetValue(1, 0, types.NewValue(int32(42))))
	v, err := tile.GetValue(1, 0)
	require.NoError(t, err)
	got, err := v.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}
