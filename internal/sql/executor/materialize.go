package executor

import (
	"github.com/dshills/StrataDB/internal/sql/planner"
	"github.com/dshills/StrataDB/internal/storage"
)

// MaterializeOperator copies the late-materialized view of each input
// logical tile into a concrete physical tile: requested columns are
// partitioned by the base tile they resolve to, then copied per partition
// for every visible row, preserving the input's current row order. The
// result is emitted wrapped as a one-to-one logical tile owning its
// storage.
type MaterializeOperator struct {
	baseOperator
	node  *planner.MaterializeNode
	child Operator
}

// NewMaterializeOperator creates a materialization stage over child.
func NewMaterializeOperator(node *planner.MaterializeNode, child Operator) *MaterializeOperator {
	return &MaterializeOperator{node: node, child: child}
}

// Open initializes the stage. Configuration is read from the plan node;
// no tiles move until Next.
func (m *MaterializeOperator) Open(ctx *ExecContext) error {
	m.ctx = ctx
	return m.child.Open(ctx)
}

// Next materializes the child's next tile. Exhaustion of the child is
// normal termination; a mapping referencing a nonexistent logical column
// is a contract violation and aborts the pipeline.
func (m *MaterializeOperator) Next() (*LogicalTile, error) {
	src, err := m.child.Next()
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil //nolint:nilnil // EOF
	}

	out, err := m.materialize(src)
	src.Close()
	if err != nil {
		return nil, err
	}

	if m.ctx.Stats != nil {
		m.ctx.Stats.TilesProduced++
	}
	return out, nil
}

// Close cleans up the stage.
func (m *MaterializeOperator) Close() error {
	return m.child.Close()
}

// tilePartition groups mapped logical columns by the base tile backing
// them, so each source tile's columns are copied in one batch.
type tilePartition struct {
	baseTile *storage.Tile
	columns  []int // logical column ids of the source tile
}

func (m *MaterializeOperator) materialize(src *LogicalTile) (*LogicalTile, error) {
	mapping := m.node.OldToNewCols
	oldCols := m.node.OldColumnsSorted()

	destColumns := make([]storage.Column, len(mapping))
	for _, old := range oldCols {
		info, err := src.ColumnInfo(old)
		if err != nil {
			return nil, err
		}
		destColumns[mapping[old]] = info
	}
	destSchema := storage.NewSchema(destColumns...)

	partitions, err := partitionByBaseTile(src, oldCols)
	if err != nil {
		return nil, err
	}

	rows := src.validity.rows()
	dest, err := m.node.Backend.AllocateTile(destSchema, len(rows))
	if err != nil {
		return nil, err
	}

	if err := m.copyPartitions(src, partitions, rows, dest); err != nil {
		dest.Release()
		return nil, err
	}

	if m.ctx.Stats != nil {
		m.ctx.Stats.RowsCopied += int64(len(rows))
	}

	out, err := WrapTile(dest, true)
	if err != nil {
		dest.Release()
		return nil, err
	}
	return out, nil
}

// partitionByBaseTile groups the mapped columns by base tile, preserving
// the order in which tiles first appear.
func partitionByBaseTile(src *LogicalTile, oldCols []int) ([]*tilePartition, error) {
	var partitions []*tilePartition
	byTile := make(map[*storage.Tile]*tilePartition)

	for _, old := range oldCols {
		baseTile, err := src.GetBaseTile(old)
		if err != nil {
			return nil, err
		}
		part, ok := byTile[baseTile]
		if !ok {
			part = &tilePartition{baseTile: baseTile}
			byTile[baseTile] = part
			partitions = append(partitions, part)
		}
		part.columns = append(part.columns, old)
	}
	return partitions, nil
}

// copyPartitions copies every visible row of each partition's columns into
// dest, remapping column ids through the node's mapping. Output row order
// is the input's visible-row order.
func (m *MaterializeOperator) copyPartitions(src *LogicalTile, partitions []*tilePartition, rows []int, dest *storage.Tile) error {
	mapping := m.node.OldToNewCols
	for _, part := range partitions {
		for destRow, srcRow := range rows {
			for _, old := range part.columns {
				v, err := src.GetValue(old, srcRow)
				if err != nil {
					return err
				}
				if err := dest.SetValue(destRow, mapping[old], v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
