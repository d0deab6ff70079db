package types

import (
	"strings"
)

// Text is the unbounded string type
var Text DataType = &textType{}

// textType implements the TEXT data type
type textType struct{}

func (t *textType) Name() string { return "TEXT" }

func (t *textType) Size() int { return -1 }

func (t *textType) Compare(a, b Value) int {
	if res, done := compareNulls(a, b); done {
		return res
	}
	av, _ := a.AsString()
	bv, _ := b.AsString()
	return strings.Compare(av, bv)
}

func (t *textType) Serialize(v Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	sv, err := v.AsString()
	if err != nil {
		return nil, err
	}
	return []byte(sv), nil
}

func (t *textType) Deserialize(data []byte) (Value, error) {
	// An empty payload decodes as NULL; the tile codec records empty
	// strings with an explicit zero-length non-null marker.
	if data == nil {
		return NewNullValue(), nil
	}
	return NewValue(string(data)), nil
}

func (t *textType) Zero() Value { return NewValue("") }
