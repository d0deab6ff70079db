package types

import (
	"fmt"
)

// DataType represents a SQL data type
type DataType interface {
	// Name returns the SQL name of the type (e.g., "INTEGER", "TEXT")
	Name() string

	// Size returns the storage size in bytes (-1 for variable size)
	Size() int

	// Compare compares two values of this type
	// Returns: -1 if a < b, 0 if a == b, 1 if a > b
	Compare(a, b Value) int

	// Serialize converts a value to bytes for the tile spill codec
	Serialize(v Value) ([]byte, error)

	// Deserialize converts bytes back to a value
	Deserialize(data []byte) (Value, error)

	// Zero returns the zero value for this type
	Zero() Value
}

// Value represents a SQL value that can be NULL. The invalid flag marks the
// sentinel returned when a filtered (invalidated) tile row is read; it is
// never produced by expression evaluation.
type Value struct {
	Data    interface{}
	Null    bool
	invalid bool
}

// NewValue creates a non-null value
func NewValue(data interface{}) Value {
	return Value{Data: data}
}

// NewNullValue creates a null value
func NewNullValue() Value {
	return Value{Null: true}
}

// NewInvalidValue creates the sentinel returned for filtered rows
func NewInvalidValue() Value {
	return Value{Null: true, invalid: true}
}

// IsNull returns true if the value is NULL
func (v Value) IsNull() bool {
	return v.Null
}

// IsInvalid returns true if the value is the filtered-row sentinel
func (v Value) IsInvalid() bool {
	return v.invalid
}

// String returns a string representation of the value
func (v Value) String() string {
	if v.invalid {
		return "INVALID"
	}
	if v.Null {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.Data)
}

// AsInt returns the value as an int64
func (v Value) AsInt() (int64, error) {
	if v.Null {
		return 0, fmt.Errorf("cannot convert NULL to int")
	}
	switch val := v.Data.(type) {
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v.Data)
	}
}

// AsString returns the value as a string
func (v Value) AsString() (string, error) {
	if v.Null {
		return "", fmt.Errorf("cannot convert NULL to string")
	}
	if s, ok := v.Data.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v.Data)
}

// AsBool returns the value as a boolean
func (v Value) AsBool() (bool, error) {
	if v.Null {
		return false, fmt.Errorf("cannot convert NULL to bool")
	}
	if b, ok := v.Data.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("cannot convert %T to bool", v.Data)
}

// AsFloat returns the value as a float64
func (v Value) AsFloat() (float64, error) {
	if v.Null {
		return 0, fmt.Errorf("cannot convert NULL to float")
	}
	switch val := v.Data.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v.Data)
	}
}

// Type returns the DataType of the value based on its underlying type
func (v Value) Type() DataType {
	if v.Null {
		return Unknown
	}
	switch v.Data.(type) {
	case int32:
		return Integer
	case int64:
		return BigInt
	case string:
		return Text
	case bool:
		return Boolean
	case float64:
		return Double
	default:
		return Unknown
	}
}

// compareNulls orders NULLs before all non-null values. It returns the
// comparison result and true when at least one side is NULL.
func compareNulls(a, b Value) (int, bool) {
	switch {
	case a.Null && b.Null:
		return 0, true
	case a.Null:
		return -1, true
	case b.Null:
		return 1, true
	}
	return 0, false
}
