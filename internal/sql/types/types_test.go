package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueType(t *testing.T) {
	assert.Equal(t, Integer, NewValue(int32(1)).Type())
	assert.Equal(t, BigInt, NewValue(int64(1)).Type())
	assert.Equal(t, Text, NewValue("x").Type())
	assert.Equal(t, Boolean, NewValue(true).Type())
	assert.Equal(t, Double, NewValue(1.5).Type())
	assert.Equal(t, Unknown, NewNullValue().Type())
	assert.Equal(t, Unknown, NewValue(struct{}{}).Type())
}

func TestInvalidValueSentinel(t *testing.T) {
	v := NewInvalidValue()
	assert.True(t, v.IsInvalid())
	assert.True(t, v.IsNull())
	assert.Equal(t, "INVALID", v.String())

	// Ordinary NULLs are not the sentinel.
	assert.False(t, NewNullValue().IsInvalid())
	assert.Equal(t, "NULL", NewNullValue().String())
}

func TestCompareOrdersNullsFirst(t *testing.T) {
	tests := []struct {
		name string
		dt   DataType
		a, b Value
		want int
	}{
		{"integer less", Integer, NewValue(int32(1)), NewValue(int32(2)), -1},
		{"integer equal", Integer, NewValue(int32(2)), NewValue(int32(2)), 0},
		{"bigint greater", BigInt, NewValue(int64(9)), NewValue(int64(3)), 1},
		{"text less", Text, NewValue("alpha"), NewValue("beta"), -1},
		{"bool false before true", Boolean, NewValue(false), NewValue(true), -1},
		{"double greater", Double, NewValue(2.5), NewValue(-1.0), 1},
		{"null before value", Integer, NewNullValue(), NewValue(int32(-100)), -1},
		{"value after null", Text, NewValue(""), NewNullValue(), 1},
		{"null equals null", Double, NewNullValue(), NewNullValue(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dt.Compare(tt.a, tt.b))
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		dt   DataType
		v    Value
	}{
		{"integer", Integer, NewValue(int32(-42))},
		{"bigint", BigInt, NewValue(int64(1) << 40)},
		{"boolean", Boolean, NewValue(true)},
		{"text", Text, NewValue("stratadb")},
		{"double", Double, NewValue(-3.75)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.dt.Serialize(tt.v)
			require.NoError(t, err)
			got, err := tt.dt.Deserialize(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.v, got)
		})
	}
}

func TestDeserializeRejectsShortInput(t *testing.T) {
	_, err := Integer.Deserialize([]byte{1, 2})
	require.Error(t, err)
	_, err = Double.Deserialize([]byte{0})
	require.Error(t, err)
}

func TestValueConversions(t *testing.T) {
	i, err := NewValue(int32(7)).AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(7), i)

	s, err := NewValue("hi").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = NewNullValue().AsInt()
	require.Error(t, err)
	_, err = NewValue("hi").AsBool()
	require.Error(t, err)
}
