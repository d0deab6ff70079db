package types

import (
	"encoding/binary"
	"fmt"
)

var (
	// Integer is the 32-bit integer type
	Integer DataType = &integerType{}
	// BigInt is the 64-bit integer type
	BigInt DataType = &bigintType{}
)

// integerType implements the INTEGER data type
type integerType struct{}

func (t *integerType) Name() string { return "INTEGER" }

func (t *integerType) Size() int { return 4 }

func (t *integerType) Compare(a, b Value) int {
	if res, done := compareNulls(a, b); done {
		return res
	}
	av, _ := a.AsInt()
	bv, _ := b.AsInt()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func (t *integerType) Serialize(v Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	iv, err := v.AsInt()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(int32(iv))) //nolint:gosec // fixed-width encoding
	return buf, nil
}

func (t *integerType) Deserialize(data []byte) (Value, error) {
	if len(data) == 0 {
		return NewNullValue(), nil
	}
	if len(data) != 4 {
		return Value{}, fmt.Errorf("invalid INTEGER encoding: %d bytes", len(data))
	}
	return NewValue(int32(binary.BigEndian.Uint32(data))), nil //nolint:gosec // fixed-width decoding
}

func (t *integerType) Zero() Value { return NewValue(int32(0)) }

// bigintType implements the BIGINT data type
type bigintType struct{}

func (t *bigintType) Name() string { return "BIGINT" }

func (t *bigintType) Size() int { return 8 }

func (t *bigintType) Compare(a, b Value) int {
	if res, done := compareNulls(a, b); done {
		return res
	}
	av, _ := a.AsInt()
	bv, _ := b.AsInt()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func (t *bigintType) Serialize(v Value) ([]byte, error) {
	if v.Null {
		return nil, nil
	}
	iv, err := v.AsInt()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(iv)) //nolint:gosec // fixed-width encoding
	return buf, nil
}

func (t *bigintType) Deserialize(data []byte) (Value, error) {
	if len(data) == 0 {
		return NewNullValue(), nil
	}
	if len(data) != 8 {
		return Value{}, fmt.Errorf("invalid BIGINT encoding: %d bytes", len(data))
	}
	return NewValue(int64(binary.BigEndian.Uint64(data))), nil //nolint:gosec // fixed-width decoding
}

func (t *bigintType) Zero() Value { return NewValue(int64(0)) }
