package types

import (
	"fmt"
)

// Unknown is the type of NULL values with no better type information.
var Unknown DataType = &unknownType{}

type unknownType struct{}

func (t *unknownType) Name() string { return "UNKNOWN" }

func (t *unknownType) Size() int { return -1 }

func (t *unknownType) Compare(a, b Value) int {
	if res, done := compareNulls(a, b); done {
		return res
	}
	return 0
}

func (t *unknownType) Serialize(v Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	return nil, fmt.Errorf("cannot serialize non-null value of unknown type")
}

func (t *unknownType) Deserialize(data []byte) (Value, error) {
	if len(data) != 0 {
		return Value{}, fmt.Errorf("cannot deserialize unknown type")
	}
	return NewNullValue(), nil
}

func (t *unknownType) Zero() Value { return NewNullValue() }
