package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Double is the 64-bit floating point type
var Double DataType = &doubleType{}

// doubleType implements the DOUBLE PRECISION data type
type doubleType struct{}

func (t *doubleType) Name() string { return "DOUBLE PRECISION" }

func (t *doubleType) Size() int { return 8 }

func (t *doubleType) Compare(a, b Value) int {
	if res, done := compareNulls(a, b); done {
		return res
	}
	av, _ := a.AsFloat()
	bv, _ := b.AsFloat()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func (t *doubleType) Serialize(v Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	fv, err := v.AsFloat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(fv))
	return buf, nil
}

func (t *doubleType) Deserialize(data []byte) (Value, error) {
	if len(data) == 0 {
		return NewNullValue(), nil
	}
	if len(data) != 8 {
		return Value{}, fmt.Errorf("invalid DOUBLE encoding: %d bytes", len(data))
	}
	return NewValue(math.Float64frombits(binary.BigEndian.Uint64(data))), nil
}

func (t *doubleType) Zero() Value { return NewValue(float64(0)) }
