package executor

import (
	"github.com/dshills/StrataDB/internal/sql/planner"
	"github.com/dshills/StrataDB/internal/sql/types"
)

// FilterOperator narrows the validity bitmap of each tile flowing through
// it: rows failing the predicate are invalidated in place, no data moves.
// This stage is the single owner of validity mutation in a pipeline.
type FilterOperator struct {
	baseOperator
	node  *planner.FilterNode
	child Operator
}

// NewFilterOperator creates a filter over child.
func NewFilterOperator(node *planner.FilterNode, child Operator) *FilterOperator {
	return &FilterOperator{node: node, child: child}
}

// Open initializes the filter.
func (f *FilterOperator) Open(ctx *ExecContext) error {
	f.ctx = ctx
	return f.child.Open(ctx)
}

// Next returns the child's next tile with non-matching rows invalidated.
func (f *FilterOperator) Next() (*LogicalTile, error) {
	tile, err := f.child.Next()
	if err != nil {
		return nil, err
	}
	if tile == nil {
		return nil, nil //nolint:nilnil // EOF
	}

	// Snapshot the valid rows before mutating the bitmap; invalidating
	// under a live cursor is undefined.
	pred := f.node.Predicate
	for _, row := range tile.validity.rows() {
		v, err := tile.GetValue(pred.ColumnID, row)
		if err != nil {
			return nil, err
		}
		if !matches(v, pred) {
			if err := tile.InvalidateRow(row); err != nil {
				return nil, err
			}
			if f.ctx.Stats != nil {
				f.ctx.Stats.RowsFiltered++
			}
		}
	}
	return tile, nil
}

// Close cleans up the filter.
func (f *FilterOperator) Close() error {
	return f.child.Close()
}

// matches evaluates a column comparison. NULL never matches.
func matches(v types.Value, pred planner.ColumnComparison) bool {
	if v.IsNull() || pred.Value.IsNull() {
		return false
	}
	cmp := pred.Value.Type().Compare(v, pred.Value)
	switch pred.Op {
	case planner.CompareEq:
		return cmp == 0
	case planner.CompareNe:
		return cmp != 0
	case planner.CompareLt:
		return cmp < 0
	case planner.CompareLe:
		return cmp <= 0
	case planner.CompareGt:
		return cmp > 0
	case planner.CompareGe:
		return cmp >= 0
	default:
		return false
	}
}
