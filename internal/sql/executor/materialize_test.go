package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/planner"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
)

// tileSource feeds pre-built logical tiles into a pipeline.
type tileSource struct {
	tiles []*LogicalTile
	pos   int
}

func (s *tileSource) Open(ctx *ExecContext) error { return nil }

func (s *tileSource) Next() (*LogicalTile, error) {
	if s.pos >= len(s.tiles) {
		return nil, nil //nolint:nilnil // EOF
	}
	lt := s.tiles[s.pos]
	s.pos++
	return lt, nil
}

func (s *tileSource) Close() error { return nil }

// sourceNode is the plan-node stand-in for tileSource in tests.
type sourceNode struct{}

func (n *sourceNode) Type() planner.NodeType   { return planner.NodeScan }
func (n *sourceNode) Children() []planner.Plan { return nil }
func (n *sourceNode) Info() string             { return "TestSource" }
func (n *sourceNode) Validate() error          { return nil }

func intValues(t *testing.T, lt *LogicalTile, col int) []int64 {
	t.Helper()
	var out []int64
	it := lt.Iterator()
	for it.Next() {
		v, err := lt.GetValue(col, it.Row())
		require.NoError(t, err)
		iv, err := v.AsInt()
		require.NoError(t, err)
		out = append(out, iv)
	}
	return out
}

func TestMaterializeReorderedSingleColumn(t *testing.T) {
	// A tile with columns [A, B], position list [2, 0, 1], materialized
	// with {0 -> 0}, must yield a 3-row, 1-column tile holding physical
	// rows 2, 0, 1 of column A.
	base := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "A", Type: types.Integer},
		storage.Column{Name: "B", Type: types.Text},
	), 3)
	for i, name := range []string{"zero", "one", "two"} {
		require.NoError(t, base.AppendRow(
			types.NewValue(int32(i)), //nolint:gosec // test data
			types.NewValue(name),
		))
	}

	lt := NewLogicalTile()
	listIdx, err := lt.AddPositionList([]int{2, 0, 1})
	require.NoError(t, err)
	require.NoError(t, lt.AddColumn(base, false, 0, listIdx))
	require.NoError(t, lt.AddColumn(base, false, 1, listIdx))

	backend := storage.NewMemoryBackend(0)
	node := planner.NewMaterializeNode(&sourceNode{}, map[int]int{0: 0}, backend)
	require.NoError(t, node.Validate())

	op := NewMaterializeOperator(node, &tileSource{tiles: []*LogicalTile{lt}})
	ctx := NewExecContext(nil)
	require.NoError(t, op.Open(ctx))

	out, err := op.Next()
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, 3, out.NumTuples())
	assert.Equal(t, 1, out.NumCols())
	assert.Equal(t, []int64{2, 0, 1}, intValues(t, out, 0))

	info, err := out.ColumnInfo(0)
	require.NoError(t, err)
	assert.Equal(t, "A", info.Name)

	// Stream is exhausted afterwards; that is normal termination.
	next, err := op.Next()
	require.NoError(t, err)
	assert.Nil(t, next)

	out.Close()
	assert.Equal(t, 0, backend.LiveTiles())
	require.NoError(t, op.Close())
}

func TestMaterializePreservesFilteredRowOrder(t *testing.T) {
	base := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "A", Type: types.BigInt},
	), 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, base.AppendRow(types.NewValue(int64(i*100))))
	}

	lt := NewLogicalTile()
	listIdx, err := lt.AddPositionList([]int{4, 3, 2, 1, 0})
	require.NoError(t, err)
	require.NoError(t, lt.AddColumn(base, false, 0, listIdx))
	require.NoError(t, lt.InvalidateRow(1))
	require.NoError(t, lt.InvalidateRow(3))

	backend := storage.NewMemoryBackend(0)
	node := planner.NewMaterializeNode(&sourceNode{}, map[int]int{0: 0}, backend)
	op := NewMaterializeOperator(node, &tileSource{tiles: []*LogicalTile{lt}})
	require.NoError(t, op.Open(NewExecContext(nil)))

	out, err := op.Next()
	require.NoError(t, err)
	require.NotNil(t, out)

	// Visible logical rows 0, 2, 4 resolve to physical rows 4, 2, 0.
	assert.Equal(t, 3, out.NumTuples())
	assert.Equal(t, []int64{400, 200, 0}, intValues(t, out, 0))
	out.Close()
}

func TestMaterializeRemapsColumnsAcrossBaseTiles(t *testing.T) {
	left := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "id", Type: types.Integer},
	), 3)
	right := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "name", Type: types.Text},
	), 3)
	for i, name := range []string{"red", "green", "blue"} {
		require.NoError(t, left.AppendRow(types.NewValue(int32(i)))) //nolint:gosec // test data
		require.NoError(t, right.AppendRow(types.NewValue(name)))
	}

	// One logical tile composing two physical sources through separate
	// position lists.
	lt := NewLogicalTile()
	leftList, err := lt.AddPositionList([]int{0, 1, 2})
	require.NoError(t, err)
	rightList, err := lt.AddPositionList([]int{2, 1, 0})
	require.NoError(t, err)
	require.NoError(t, lt.AddColumn(left, false, 0, leftList))
	require.NoError(t, lt.AddColumn(right, false, 0, rightList))

	backend := storage.NewMemoryBackend(0)
	// Swap the columns: logical 1 becomes output 0.
	node := planner.NewMaterializeNode(&sourceNode{}, map[int]int{0: 1, 1: 0}, backend)
	require.NoError(t, node.Validate())

	op := NewMaterializeOperator(node, &tileSource{tiles: []*LogicalTile{lt}})
	require.NoError(t, op.Open(NewExecContext(nil)))

	out, err := op.Next()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 2, out.NumCols())

	names := make([]string, 0, 3)
	ids := make([]int64, 0, 3)
	it := out.Iterator()
	for it.Next() {
		nv, err := out.GetValue(0, it.Row())
		require.NoError(t, err)
		name, err := nv.AsString()
		require.NoError(t, err)
		names = append(names, name)

		iv, err := out.GetValue(1, it.Row())
		require.NoError(t, err)
		id, err := iv.AsInt()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"blue", "green", "red"}, names)
	assert.Equal(t, []int64{0, 1, 2}, ids)
	out.Close()
}

func TestMaterializeBadColumnMappingFails(t *testing.T) {
	base := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "A", Type: types.Integer},
	), 1)
	require.NoError(t, base.AppendRow(types.NewValue(int32(7))))

	lt, err := WrapTile(base, false)
	require.NoError(t, err)

	backend := storage.NewMemoryBackend(0)
	// Logical column 3 does not exist: contract violation, not EOF.
	node := planner.NewMaterializeNode(&sourceNode{}, map[int]int{3: 0}, backend)
	require.NoError(t, node.Validate())

	op := NewMaterializeOperator(node, &tileSource{tiles: []*LogicalTile{lt}})
	require.NoError(t, op.Open(NewExecContext(nil)))

	_, err = op.Next()
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.IndexOutOfRange))
	assert.Equal(t, 0, backend.LiveTiles())
}

func TestMaterializeEmptyMappingRejected(t *testing.T) {
	backend := storage.NewMemoryBackend(0)
	node := planner.NewMaterializeNode(&sourceNode{}, nil, backend)
	err := node.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.InvalidConfig))

	sparse := planner.NewMaterializeNode(&sourceNode{}, map[int]int{0: 0, 1: 2}, backend)
	err = sparse.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.InvalidConfig))
}
