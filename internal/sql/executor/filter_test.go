package executor

import (
	"testing"

	"github.com/dshills/StrataDB/internal/sql/planner"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
	"github.com/dshills/StrataDB/internal/testutil"
)

func TestFilterInvalidatesNonMatchingRows(t *testing.T) {
	tile := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "n", Type: types.BigInt},
	), 6)
	for i := 0; i < 6; i++ {
		testutil.AssertNoError(t, tile.AppendRow(types.NewValue(int64(i))))
	}
	lt, err := WrapTile(tile, false)
	testutil.AssertNoError(t, err)

	node := planner.NewFilterNode(&sourceNode{}, planner.ColumnComparison{
		ColumnID: 0,
		Op:       planner.CompareGe,
		Value:    types.NewValue(int64(3)),
	})
	testutil.AssertNoError(t, node.Validate())

	op := NewFilterOperator(node, &tileSource{tiles: []*LogicalTile{lt}})
	ctx := NewExecContext(nil)
	testutil.AssertNoError(t, op.Open(ctx))

	out, err := op.Next()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, out == lt, "filter narrows the tile in place")

	// No data moved: the tile still has six tuples, three visible.
	testutil.AssertEqual(t, 6, out.NumTuples())
	testutil.AssertEqual(t, 3, out.ValidRowCount())
	testutil.AssertEqual(t, int64(3), ctx.Stats.RowsFiltered)

	var rows []int
	it := out.Iterator()
	for it.Next() {
		rows = append(rows, it.Row())
	}
	testutil.AssertEqual(t, []int{3, 4, 5}, rows)

	// Filtered rows read as sentinels.
	v, err := out.GetValue(0, 0)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, v.IsInvalid(), "filtered row should read as sentinel")

	testutil.AssertNoError(t, op.Close())
}

func TestFilterNullNeverMatches(t *testing.T) {
	tile := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "n", Type: types.BigInt},
	), 3)
	testutil.AssertNoError(t, tile.AppendRow(types.NewValue(int64(1))))
	testutil.AssertNoError(t, tile.AppendRow(types.NewNullValue()))
	testutil.AssertNoError(t, tile.AppendRow(types.NewValue(int64(2))))

	lt, err := WrapTile(tile, false)
	testutil.AssertNoError(t, err)

	node := planner.NewFilterNode(&sourceNode{}, planner.ColumnComparison{
		ColumnID: 0,
		Op:       planner.CompareGe,
		Value:    types.NewValue(int64(0)),
	})
	op := NewFilterOperator(node, &tileSource{tiles: []*LogicalTile{lt}})
	testutil.AssertNoError(t, op.Open(NewExecContext(nil)))

	out, err := op.Next()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 2, out.ValidRowCount())
	testutil.AssertNoError(t, op.Close())
}

func TestPipelineScanFilterOrderByMaterialize(t *testing.T) {
	schema := storage.NewSchema(
		storage.Column{Name: "id", Type: types.Integer},
		storage.Column{Name: "score", Type: types.BigInt},
	)
	first := storage.NewTile(schema, 3)
	second := storage.NewTile(schema, 3)
	for i, tile := range []*storage.Tile{first, second} {
		for j := 0; j < 3; j++ {
			id := int32(i*3 + j) //nolint:gosec // test data
			testutil.AssertNoError(t, tile.AppendRow(
				types.NewValue(id),
				types.NewValue(int64((7*int(id))%10)),
			))
		}
	}

	backend := storage.NewMemoryBackend(0)
	plan := planner.NewMaterializeNode(
		planner.NewOrderByNode(
			planner.NewFilterNode(
				planner.NewScanNode([]*storage.Tile{first, second}),
				planner.ColumnComparison{ColumnID: 1, Op: planner.CompareGt, Value: types.NewValue(int64(2))},
			),
			[]int{1}, []bool{false}, nil, backend,
		),
		map[int]int{1: 0},
		backend,
	)

	root, err := Build(plan)
	testutil.AssertNoError(t, err)

	ctx := NewExecContext(nil)
	testutil.AssertNoError(t, root.Open(ctx))

	out, err := root.Next()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, out != nil, "pipeline should produce one tile")

	// Scores are 0,7,4,1,8,5; rows over 2 sorted ascending: 4,5,7,8.
	testutil.AssertEqual(t, []int64{4, 5, 7, 8}, intValues(t, out, 0))
	out.Close()

	next, err := root.Next()
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, next == nil, "pipeline should be exhausted")
	testutil.AssertNoError(t, root.Close())

	// Every intermediate tile was released.
	testutil.AssertEqual(t, 0, backend.LiveTiles())
	testutil.AssertEqual(t, int64(0), backend.BytesAllocated())
}

func TestBuildRejectsInvalidPlan(t *testing.T) {
	backend := storage.NewMemoryBackend(0)
	plan := planner.NewOrderByNode(
		planner.NewScanNode(nil),
		[]int{0, 1}, []bool{false}, nil, backend,
	)
	_, err := Build(plan)
	testutil.AssertError(t, err)
}
