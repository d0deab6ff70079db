package errors

// Engine error codes. These identify contract violations in executor or
// planner wiring; they are never used for normal run-time conditions such
// as end-of-stream or reads of filtered rows.
const (
	// SchemaMismatch indicates incompatible shapes, e.g. a position list
	// whose length differs from the tile's row count, or sort keys and
	// descend flags of different lengths.
	SchemaMismatch = "XX001"

	// IndexOutOfRange indicates a reference to a column, row or position
	// list that does not exist.
	IndexOutOfRange = "XX002"

	// InvalidConfig indicates a malformed plan-node configuration.
	InvalidConfig = "XX003"

	// TileReleased indicates use of a physical tile after its backend
	// released it.
	TileReleased = "XX004"

	// BackendExhausted indicates the backend's memory limit was exceeded.
	BackendExhausted = "53200"

	// InternalError indicates a defect in the engine itself.
	InternalError = "XX000"
)
