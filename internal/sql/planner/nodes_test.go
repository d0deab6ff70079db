package planner

import (
	"strings"
	"testing"

	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/sql/types"
	"github.com/dshills/StrataDB/internal/storage"
	"github.com/dshills/StrataDB/internal/testutil"
)

func scanOverOneTile() *ScanNode {
	tile := storage.NewTile(storage.NewSchema(
		storage.Column{Name: "a", Type: types.Integer},
	), 1)
	return NewScanNode([]*storage.Tile{tile})
}

func TestOrderByNodeValidate(t *testing.T) {
	backend := storage.NewMemoryBackend(0)

	tests := []struct {
		name     string
		node     *OrderByNode
		wantCode string
	}{
		{
			name: "valid",
			node: NewOrderByNode(scanOverOneTile(), []int{0}, []bool{false}, nil, backend),
		},
		{
			name:     "mismatched key and flag lengths",
			node:     NewOrderByNode(scanOverOneTile(), []int{0, 1}, []bool{false}, nil, backend),
			wantCode: errors.SchemaMismatch,
		},
		{
			name:     "no sort keys",
			node:     NewOrderByNode(scanOverOneTile(), nil, nil, nil, backend),
			wantCode: errors.InvalidConfig,
		},
		{
			name:     "missing backend",
			node:     NewOrderByNode(scanOverOneTile(), []int{0}, []bool{true}, nil, nil),
			wantCode: errors.InvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantCode == "" {
				testutil.AssertNoError(t, err)
				return
			}
			testutil.AssertError(t, err)
			testutil.AssertTrue(t, errors.IsError(err, tt.wantCode), "wrong error code: "+err.Error())
		})
	}
}

func TestMaterializeNodeValidate(t *testing.T) {
	backend := storage.NewMemoryBackend(0)

	valid := NewMaterializeNode(scanOverOneTile(), map[int]int{2: 0, 0: 1, 1: 2}, backend)
	testutil.AssertNoError(t, valid.Validate())
	testutil.AssertEqual(t, []int{0, 1, 2}, valid.OldColumnsSorted())

	empty := NewMaterializeNode(scanOverOneTile(), nil, backend)
	testutil.AssertTrue(t, errors.IsError(empty.Validate(), errors.InvalidConfig), "empty mapping")

	sparse := NewMaterializeNode(scanOverOneTile(), map[int]int{0: 0, 1: 3}, backend)
	testutil.AssertTrue(t, errors.IsError(sparse.Validate(), errors.InvalidConfig), "sparse output ids")

	duplicate := NewMaterializeNode(scanOverOneTile(), map[int]int{0: 0, 1: 0}, backend)
	testutil.AssertTrue(t, errors.IsError(duplicate.Validate(), errors.InvalidConfig), "duplicate output ids")

	negative := NewMaterializeNode(scanOverOneTile(), map[int]int{-1: 0}, backend)
	testutil.AssertTrue(t, errors.IsError(negative.Validate(), errors.InvalidConfig), "negative source id")
}

func TestScanAndFilterValidate(t *testing.T) {
	testutil.AssertNoError(t, scanOverOneTile().Validate())

	withNil := NewScanNode([]*storage.Tile{nil})
	testutil.AssertTrue(t, errors.IsError(withNil.Validate(), errors.InvalidConfig), "nil tile")

	filter := NewFilterNode(scanOverOneTile(), ColumnComparison{ColumnID: 0, Op: CompareEq, Value: types.NewValue(int32(1))})
	testutil.AssertNoError(t, filter.Validate())

	bad := NewFilterNode(scanOverOneTile(), ColumnComparison{ColumnID: -2, Op: CompareEq, Value: types.NewValue(int32(1))})
	testutil.AssertTrue(t, errors.IsError(bad.Validate(), errors.InvalidConfig), "negative column")
}

func TestExplainRendersTree(t *testing.T) {
	backend := storage.NewMemoryBackend(0)
	plan := NewMaterializeNode(
		NewOrderByNode(scanOverOneTile(), []int{0}, []bool{true}, nil, backend),
		map[int]int{0: 0},
		backend,
	)

	out := Explain(plan)
	for _, want := range []string{"Materialize", "OrderBy", "Scan"} {
		testutil.AssertTrue(t, strings.Contains(out, want), "explain should mention "+want)
	}
	// Child nodes are indented under their parents.
	testutil.AssertTrue(t, strings.Contains(out, "\n  OrderBy"), "order-by should be indented")
	testutil.AssertTrue(t, strings.Contains(out, "\n    Scan"), "scan should be indented twice")
}
