package executor

import (
	"github.com/dshills/StrataDB/internal/sql/planner"
)

// ScanOperator emits one logical tile per stored physical tile, in scan
// order. The logical tiles do not own their base tiles; table storage
// outlives the pipeline.
type ScanOperator struct {
	baseOperator
	node *planner.ScanNode
	pos  int
}

// NewScanOperator creates a scan over the node's tiles.
func NewScanOperator(node *planner.ScanNode) *ScanOperator {
	return &ScanOperator{node: node}
}

// Open initializes the scan.
func (s *ScanOperator) Open(ctx *ExecContext) error {
	s.ctx = ctx
	s.pos = 0
	return nil
}

// Next returns the next tile wrapped as a logical tile.
func (s *ScanOperator) Next() (*LogicalTile, error) {
	for s.pos < len(s.node.Tiles) {
		tile := s.node.Tiles[s.pos]
		s.pos++
		if tile.NumRows() == 0 {
			continue
		}

		lt, err := WrapTile(tile, false)
		if err != nil {
			return nil, err
		}
		if s.ctx.Stats != nil {
			s.ctx.Stats.TilesProduced++
		}
		return lt, nil
	}
	return nil, nil //nolint:nilnil // EOF
}

// Close cleans up the scan.
func (s *ScanOperator) Close() error {
	return nil
}
