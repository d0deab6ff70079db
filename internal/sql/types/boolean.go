package types

import (
	"fmt"
)

// Boolean is the BOOLEAN type
var Boolean DataType = &booleanType{}

// booleanType implements the BOOLEAN data type
type booleanType struct{}

func (t *booleanType) Name() string { return "BOOLEAN" }

func (t *booleanType) Size() int { return 1 }

func (t *booleanType) Compare(a, b Value) int {
	if res, done := compareNulls(a, b); done {
		return res
	}
	av, _ := a.AsBool()
	bv, _ := b.AsBool()
	switch {
	case av == bv:
		return 0
	case !av:
		return -1
	default:
		return 1
	}
}

func (t *booleanType) Serialize(v Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	bv, err := v.AsBool()
	if err != nil {
		return nil, err
	}
	if bv {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (t *booleanType) Deserialize(data []byte) (Value, error) {
	if len(data) == 0 {
		return NewNullValue(), nil
	}
	if len(data) != 1 {
		return Value{}, fmt.Errorf("invalid BOOLEAN encoding: %d bytes", len(data))
	}
	return NewValue(data[0] != 0), nil
}

func (t *booleanType) Zero() Value { return NewValue(false) }
