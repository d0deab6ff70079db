package storage

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// CompressionType represents different compression algorithms
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionLZ4
)

// CompressionStats tracks compression performance metrics
type CompressionStats struct {
	CompressedTiles   int64
	DecompressedTiles int64
	BytesIn           int64
	BytesOut          int64
	mu                sync.Mutex
}

// Ratio returns compressed bytes over original bytes.
func (s *CompressionStats) Ratio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BytesIn == 0 {
		return 0
	}
	return float64(s.BytesOut) / float64(s.BytesIn)
}

func (s *CompressionStats) record(in, out int64, compress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if compress {
		s.CompressedTiles++
		s.BytesIn += in
		s.BytesOut += out
	} else {
		s.DecompressedTiles++
	}
}

// Compressor interface for different compression algorithms
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte, originalSize int) ([]byte, error)
	Type() CompressionType
}

// LZ4Compressor implements LZ4 block compression
type LZ4Compressor struct{}

// NewLZ4Compressor creates a new LZ4 compressor
func NewLZ4Compressor() *LZ4Compressor {
	return &LZ4Compressor{}
}

// Compress compresses data using LZ4
func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("LZ4 compression failed: %w", err)
	}
	if n == 0 {
		// Incompressible input; CompressBlock signals this with n == 0.
		return nil, nil
	}

	return dst[:n], nil
}

// Decompress decompresses LZ4 data
func (c *LZ4Compressor) Decompress(data []byte, originalSize int) ([]byte, error) {
	dst := make([]byte, originalSize)

	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("LZ4 decompression failed: %w", err)
	}
	if n != originalSize {
		return nil, fmt.Errorf("LZ4 decompression size mismatch: expected %d, got %d", originalSize, n)
	}

	return dst, nil
}

// Type returns the compression type
func (c *LZ4Compressor) Type() CompressionType {
	return CompressionLZ4
}

// CompressedTile is a tile stashed in compressed form by the spill path.
// The tile's contents survive; its backend identity does not (restoring
// yields a standalone tile).
type CompressedTile struct {
	OriginalSize    int
	CompressionType CompressionType
	Data            []byte
}

// TileCompressor compresses serialized tiles for memory tiering.
type TileCompressor struct {
	compressor Compressor
	stats      CompressionStats
}

// NewTileCompressor creates a tile compressor using the given algorithm.
func NewTileCompressor(c Compressor) *TileCompressor {
	return &TileCompressor{compressor: c}
}

// Stats returns the compressor's accumulated statistics.
func (tc *TileCompressor) Stats() *CompressionStats {
	return &tc.stats
}

// CompressTile serializes and compresses a tile. Incompressible tiles are
// stashed uncompressed.
func (tc *TileCompressor) CompressTile(t *Tile) (*CompressedTile, error) {
	raw, err := SerializeTile(t)
	if err != nil {
		return nil, fmt.Errorf("serialize tile for compression: %w", err)
	}

	compressed, err := tc.compressor.Compress(raw)
	if err != nil {
		return nil, err
	}
	if compressed == nil {
		return &CompressedTile{
			OriginalSize:    len(raw),
			CompressionType: CompressionNone,
			Data:            raw,
		}, nil
	}

	tc.stats.record(int64(len(raw)), int64(len(compressed)), true)
	return &CompressedTile{
		OriginalSize:    len(raw),
		CompressionType: tc.compressor.Type(),
		Data:            compressed,
	}, nil
}

// DecompressTile restores a stashed tile.
func (tc *TileCompressor) DecompressTile(ct *CompressedTile) (*Tile, error) {
	raw := ct.Data
	if ct.CompressionType != CompressionNone {
		var err error
		raw, err = tc.compressor.Decompress(ct.Data, ct.OriginalSize)
		if err != nil {
			return nil, err
		}
		tc.stats.record(0, 0, false)
	}
	return DeserializeTile(raw)
}
