package planner

import (
	"fmt"
	"sort"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
)

// ScanNode configures a sequential scan over stored tiles.
type ScanNode struct {
	basePlan
	// Tiles is the table's physical storage, in scan order.
	Tiles []*storage.Tile
}

// NewScanNode creates a scan node over the given tiles.
func NewScanNode(tiles []*storage.Tile) *ScanNode {
	return &ScanNode{Tiles: tiles}
}

func (n *ScanNode) Type() NodeType { return NodeScan }

func (n *ScanNode) Info() string {
	return fmt.Sprintf("Scan [%d tiles]", len(n.Tiles))
}

func (n *ScanNode) Validate() error {
	for i, t := range n.Tiles {
		if t == nil {
			return errors.InvalidConfigf("scan tile %d is nil", i)
		}
	}
	return nil
}

// CompareOp is a comparison operator used by filter predicates.
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

func (op CompareOp) String() string {
	switch op {
	case CompareEq:
		return "="
	case CompareNe:
		return "<>"
	case CompareLt:
		return "<"
	case CompareLe:
		return "<="
	case CompareGt:
		return ">"
	case CompareGe:
		return ">="
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// ColumnComparison is a declarative predicate comparing one logical column
// against a constant.
type ColumnComparison struct {
	ColumnID int
	Op       CompareOp
	Value    types.Value
}

// FilterNode configures a predicate stage. The filter stage is the only
// stage permitted to invalidate rows of the tiles flowing through it.
type FilterNode struct {
	basePlan
	Predicate ColumnComparison
}

// NewFilterNode creates a filter node over child.
func NewFilterNode(child Plan, predicate ColumnComparison) *FilterNode {
	n := &FilterNode{Predicate: predicate}
	n.children = []Plan{child}
	return n
}

func (n *FilterNode) Type() NodeType { return NodeFilter }

func (n *FilterNode) Info() string {
	return fmt.Sprintf("Filter [col %d %s %s]", n.Predicate.ColumnID, n.Predicate.Op, n.Predicate.Value)
}

func (n *FilterNode) Validate() error {
	if len(n.children) != 1 {
		return errors.InvalidConfigf("filter node requires exactly one child, has %d", len(n.children))
	}
	if n.Predicate.ColumnID < 0 {
		return errors.InvalidConfigf("filter column %d is negative", n.Predicate.ColumnID)
	}
	return nil
}

// OrderByNode configures an order-by stage.
//
// All tiles produced by this node's child must share identical physical
// schema. Downstream logic assumes this; it is not verified here.
type OrderByNode struct {
	basePlan
	// SortKeys holds logical column ids, primary key first.
	SortKeys []int
	// DescendFlags holds one descending flag per sort key.
	DescendFlags []bool
	// OutputColumnIDs selects the emitted columns; empty means all input
	// columns in input order.
	OutputColumnIDs []int
	// Backend allocates the stage's intermediate physical tiles.
	Backend storage.Backend
}

// NewOrderByNode creates an order-by node over child.
func NewOrderByNode(child Plan, sortKeys []int, descendFlags []bool, outputColumnIDs []int, backend storage.Backend) *OrderByNode {
	n := &OrderByNode{
		SortKeys:        sortKeys,
		DescendFlags:    descendFlags,
		OutputColumnIDs: outputColumnIDs,
		Backend:         backend,
	}
	n.children = []Plan{child}
	return n
}

func (n *OrderByNode) Type() NodeType { return NodeOrderBy }

func (n *OrderByNode) Info() string {
	return fmt.Sprintf("OrderBy [keys %v descend %v]", n.SortKeys, n.DescendFlags)
}

func (n *OrderByNode) Validate() error {
	if len(n.children) != 1 {
		return errors.InvalidConfigf("order-by node requires exactly one child, has %d", len(n.children))
	}
	if len(n.SortKeys) != len(n.DescendFlags) {
		return errors.SchemaMismatchf("order-by has %d sort keys but %d descend flags", len(n.SortKeys), len(n.DescendFlags))
	}
	if len(n.SortKeys) == 0 {
		return errors.InvalidConfigf("order-by has no sort keys")
	}
	if n.Backend == nil {
		return errors.InvalidConfigf("order-by has no backend")
	}
	return nil
}

// MaterializeNode configures a materialization stage. OldToNewCols maps
// logical column ids of the input tile to column ids of the produced
// physical tile; new ids must form the dense range 0..len-1.
type MaterializeNode struct {
	basePlan
	OldToNewCols map[int]int
	// Backend allocates the destination physical tiles.
	Backend storage.Backend
}

// NewMaterializeNode creates a materialize node over child.
func NewMaterializeNode(child Plan, oldToNewCols map[int]int, backend storage.Backend) *MaterializeNode {
	n := &MaterializeNode{
		OldToNewCols: oldToNewCols,
		Backend:      backend,
	}
	n.children = []Plan{child}
	return n
}

func (n *MaterializeNode) Type() NodeType { return NodeMaterialize }

func (n *MaterializeNode) Info() string {
	return fmt.Sprintf("Materialize [%d columns]", len(n.OldToNewCols))
}

func (n *MaterializeNode) Validate() error {
	if len(n.children) != 1 {
		return errors.InvalidConfigf("materialize node requires exactly one child, has %d", len(n.children))
	}
	if len(n.OldToNewCols) == 0 {
		return errors.InvalidConfigf("materialize has an empty column mapping")
	}
	if n.Backend == nil {
		return errors.InvalidConfigf("materialize has no backend")
	}
	newIDs := make([]int, 0, len(n.OldToNewCols))
	for old, newID := range n.OldToNewCols {
		if old < 0 {
			return errors.InvalidConfigf("materialize maps negative column %d", old)
		}
		newIDs = append(newIDs, newID)
	}
	sort.Ints(newIDs)
	for i, id := range newIDs {
		if id != i {
			return errors.InvalidConfigf("materialize output columns are not dense: %v", newIDs)
		}
	}
	return nil
}

// OldColumnsSorted returns the mapped logical column ids in ascending
// order, for deterministic iteration over OldToNewCols.
func (n *MaterializeNode) OldColumnsSorted() []int {
	cols := make([]int, 0, len(n.OldToNewCols))
	for old := range n.OldToNewCols {
		cols = append(cols, old)
	}
	sort.Ints(cols)
	return cols
}
