package executor

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// validityBitmap tracks which logical rows of a tile remain visible after
// filtering. Length is fixed at creation; bits only ever flip from valid
// to invalid.
type validityBitmap struct {
	bm      *roaring.Bitmap
	numRows int
}

// newValidityBitmap creates an all-valid bitmap over numRows rows.
func newValidityBitmap(numRows int) *validityBitmap {
	bm := roaring.New()
	if numRows > 0 {
		bm.AddRange(0, uint64(numRows))
	}
	return &validityBitmap{bm: bm, numRows: numRows}
}

// valid reports whether row is visible. Rows outside the bitmap are not
// valid.
func (v *validityBitmap) valid(row int) bool {
	if row < 0 || row >= v.numRows {
		return false
	}
	return v.bm.Contains(uint32(row)) //nolint:gosec // bounds checked above
}

// invalidate marks row as filtered out.
func (v *validityBitmap) invalidate(row int) {
	if row < 0 || row >= v.numRows {
		return
	}
	v.bm.Remove(uint32(row)) //nolint:gosec // bounds checked above
}

// count returns the number of visible rows.
func (v *validityBitmap) count() int {
	return int(v.bm.GetCardinality())
}

// rows returns the visible row indices in ascending order.
func (v *validityBitmap) rows() []int {
	out := make([]int, 0, v.count())
	it := v.bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// String renders the bitmap for diagnostics.
func (v *validityBitmap) String() string {
	var sb strings.Builder
	for row := 0; row < v.numRows; row++ {
		if row > 0 {
			sb.WriteString(", ")
		}
		if v.bm.Contains(uint32(row)) { //nolint:gosec // row bounded by numRows
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
