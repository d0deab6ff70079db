package executor

import (
	"sort"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/planner"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
)

// OrderByOperator sorts its child's entire output. Input tiles are
// flattened into buffered physical tiles (stashed lz4-compressed once the
// configured memory budget is exceeded), combined into one backend-
// allocated tile, and emitted as a single logical tile whose position
// list carries the sort order. The emitted tile owns the combined storage.
//
// All input tiles must share identical physical schema; this is assumed,
// not verified.
type OrderByOperator struct {
	baseOperator
	node       *planner.OrderByNode
	child      Operator
	compressor *storage.TileCompressor
	built      bool
	output     *LogicalTile
}

// bufferedRun is one flattened input tile, held either live or stashed.
type bufferedRun struct {
	tile    *storage.Tile
	stash   *storage.CompressedTile
	numRows int
}

// NewOrderByOperator creates an order-by stage over child.
func NewOrderByOperator(node *planner.OrderByNode, child Operator) *OrderByOperator {
	return &OrderByOperator{node: node, child: child}
}

// Open initializes the stage.
func (o *OrderByOperator) Open(ctx *ExecContext) error {
	o.ctx = ctx
	o.built = false
	o.output = nil
	o.compressor = storage.NewTileCompressor(storage.NewLZ4Compressor())
	return o.child.Open(ctx)
}

// Next drains the child on first call and returns the sorted tile, then
// reports exhaustion.
func (o *OrderByOperator) Next() (*LogicalTile, error) {
	if !o.built {
		out, err := o.build()
		if err != nil {
			return nil, err
		}
		o.built = true
		o.output = out
	}

	out := o.output
	o.output = nil
	if out == nil {
		return nil, nil //nolint:nilnil // EOF
	}
	return out, nil
}

// Close cleans up the stage, releasing an unclaimed output tile.
func (o *OrderByOperator) Close() error {
	if o.output != nil {
		o.output.Close()
		o.output = nil
	}
	return o.child.Close()
}

func (o *OrderByOperator) build() (*LogicalTile, error) {
	runs, schema, err := o.bufferInput()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}

	for _, key := range o.node.SortKeys {
		if key < 0 || key >= schema.NumCols() {
			return nil, errors.IndexOutOfRangef("sort key %d out of range (%d columns)", key, schema.NumCols())
		}
	}

	combined, err := o.combineRuns(runs, schema)
	if err != nil {
		return nil, err
	}

	positions, err := o.sortPositions(combined)
	if err != nil {
		combined.Release()
		return nil, err
	}

	lt, err := o.wrapSorted(combined, positions)
	if err != nil {
		combined.Release()
		return nil, err
	}

	if o.ctx.Stats != nil {
		o.ctx.Stats.TilesProduced++
	}
	return lt, nil
}

// bufferInput drains the child, flattening each logical tile's visible
// rows into a standalone physical tile. Past the sort memory budget,
// flattened tiles are stashed compressed.
func (o *OrderByOperator) bufferInput() ([]*bufferedRun, *storage.Schema, error) {
	var (
		runs          []*bufferedRun
		schema        *storage.Schema
		bytesBuffered int64
	)

	limit := o.ctx.Cfg.SortMemoryLimit
	compress := o.ctx.Cfg.CompressionEnabled && limit > 0

	for {
		src, err := o.child.Next()
		if err != nil {
			return nil, nil, err
		}
		if src == nil {
			break
		}

		flat, err := flattenTile(src, schema)
		src.Close()
		if err != nil {
			return nil, nil, err
		}
		if flat == nil {
			continue // all rows filtered
		}
		if schema == nil {
			schema = flat.Schema()
		}

		run := &bufferedRun{numRows: flat.NumRows()}
		if compress && bytesBuffered+flat.MemSize() > limit {
			stash, err := o.compressor.CompressTile(flat)
			if err != nil {
				return nil, nil, err
			}
			run.stash = stash
			if o.ctx.Stats != nil {
				o.ctx.Stats.BytesSpilled += int64(len(stash.Data))
			}
		} else {
			bytesBuffered += flat.MemSize()
			run.tile = flat
		}
		runs = append(runs, run)
	}

	return runs, schema, nil
}

// flattenTile copies a logical tile's visible rows into a standalone
// physical tile, or returns nil if no rows are visible. The schema of the
// first flattened tile is reused for the rest of the input.
func flattenTile(src *LogicalTile, schema *storage.Schema) (*storage.Tile, error) {
	rows := src.validity.rows()
	if len(rows) == 0 {
		return nil, nil
	}

	if schema == nil {
		columns := make([]storage.Column, src.NumCols())
		for c := range columns {
			info, err := src.ColumnInfo(c)
			if err != nil {
				return nil, err
			}
			columns[c] = info
		}
		schema = storage.NewSchema(columns...)
	}

	flat := storage.NewTile(schema, len(rows))
	values := make([]types.Value, src.NumCols())
	for _, row := range rows {
		for c := range values {
			v, err := src.GetValue(c, row)
			if err != nil {
				return nil, err
			}
			values[c] = v
		}
		if err := flat.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return flat, nil
}

// combineRuns copies every buffered run, in arrival order, into one tile
// allocated from the node's backend.
func (o *OrderByOperator) combineRuns(runs []*bufferedRun, schema *storage.Schema) (*storage.Tile, error) {
	totalRows := 0
	for _, run := range runs {
		totalRows += run.numRows
	}

	combined, err := o.node.Backend.AllocateTile(schema, totalRows)
	if err != nil {
		return nil, err
	}

	destRow := 0
	for _, run := range runs {
		tile := run.tile
		if tile == nil {
			tile, err = o.compressor.DecompressTile(run.stash)
			if err != nil {
				combined.Release()
				return nil, err
			}
		}
		for r := 0; r < tile.NumRows(); r++ {
			for c := 0; c < schema.NumCols(); c++ {
				v, err := tile.GetValue(r, c)
				if err != nil {
					combined.Release()
					return nil, err
				}
				if err := combined.SetValue(destRow, c, v); err != nil {
					combined.Release()
					return nil, err
				}
			}
			destRow++
		}
		tile.Release()
		run.tile = nil
		run.stash = nil
	}

	if o.ctx.Stats != nil {
		o.ctx.Stats.RowsCopied += int64(totalRows)
	}
	return combined, nil
}

// sortPositions builds the position list ordering the combined tile by the
// configured keys and descend flags.
func (o *OrderByOperator) sortPositions(combined *storage.Tile) ([]int, error) {
	positions := make([]int, combined.NumRows())
	for i := range positions {
		positions[i] = i
	}

	keys := o.node.SortKeys
	flags := o.node.DescendFlags
	schema := combined.Schema()

	var sortErr error
	sort.SliceStable(positions, func(i, j int) bool {
		for k, key := range keys {
			a, err := combined.GetValue(positions[i], key)
			if err != nil {
				sortErr = err
				return false
			}
			b, err := combined.GetValue(positions[j], key)
			if err != nil {
				sortErr = err
				return false
			}
			cmp := schema.Columns[key].Type.Compare(a, b)
			if cmp == 0 {
				continue
			}
			if flags[k] {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return positions, nil
}

// wrapSorted builds the output logical tile: the sorted position list over
// the combined tile, projected to the configured output columns. The
// logical tile owns the combined tile.
func (o *OrderByOperator) wrapSorted(combined *storage.Tile, positions []int) (*LogicalTile, error) {
	lt := NewLogicalTile()
	listIdx, err := lt.AddPositionList(positions)
	if err != nil {
		return nil, err
	}

	outputCols := o.node.OutputColumnIDs
	if len(outputCols) == 0 {
		outputCols = make([]int, combined.NumCols())
		for i := range outputCols {
			outputCols[i] = i
		}
	}
	for _, col := range outputCols {
		if err := lt.AddColumn(combined, true, col, listIdx); err != nil {
			return nil, err
		}
	}
	return lt, nil
}
