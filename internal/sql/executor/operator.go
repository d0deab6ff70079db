package executor

import (
	"github.com/dshills/StrataDB/internal/config"
	"github.com/dshills/StrataDB/internal/errors"
	"github.com/dshills/StrataDB/internal/log"
	"github.com/dshills/StrataDB/internal/sql/planner"
)

// Operator is the pull protocol every pipeline stage implements. The
// caller drives pacing: Open once, then Next until it returns (nil, nil),
// which signals normal exhaustion, then Close. A tile returned by Next is
// owned by the caller, which must Close it (directly or by passing it on).
type Operator interface {
	// Open initializes the operator.
	Open(ctx *ExecContext) error
	// Next returns the next logical tile or (nil, nil) when exhausted.
	Next() (*LogicalTile, error)
	// Close cleans up resources on every exit path, including early
	// termination of the pipeline.
	Close() error
}

// ExecStats accumulates per-pipeline counters.
type ExecStats struct {
	TilesProduced int64
	RowsCopied    int64
	RowsFiltered  int64
	BytesSpilled  int64
}

// ExecContext carries per-pipeline state into operators.
type ExecContext struct {
	Logger log.Logger
	Cfg    *config.Config
	Stats  *ExecStats
}

// NewExecContext creates an execution context with the given config.
func NewExecContext(cfg *config.Config) *ExecContext {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &ExecContext{
		Logger: log.Default(),
		Cfg:    cfg,
		Stats:  &ExecStats{},
	}
}

// baseOperator provides common operator state.
type baseOperator struct {
	ctx *ExecContext
}

// Build constructs the operator tree for a plan, dispatching on each
// node's kind tag. Every node is validated before any row flows.
func Build(plan planner.Plan) (Operator, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	children := plan.Children()
	var child Operator
	if len(children) == 1 {
		var err error
		child, err = Build(children[0])
		if err != nil {
			return nil, err
		}
	}

	switch node := plan.(type) {
	case *planner.ScanNode:
		return NewScanOperator(node), nil
	case *planner.FilterNode:
		return NewFilterOperator(node, child), nil
	case *planner.OrderByNode:
		return NewOrderByOperator(node, child), nil
	case *planner.MaterializeNode:
		return NewMaterializeOperator(node, child), nil
	default:
		return nil, errors.InvalidConfigf("no operator for plan node %s", plan.Type())
	}
}

// Run drains an operator tree, closing every produced tile, and returns
// the number of tiles seen. Useful for pipelines run purely for effect.
func Run(root Operator, ctx *ExecContext) (int, error) {
	if err := root.Open(ctx); err != nil {
		return 0, err
	}

	tiles := 0
	for {
		tile, err := root.Next()
		if err != nil {
			root.Close() //nolint:errcheck,gosec // close on the error path is best effort
			return tiles, err
		}
		if tile == nil {
			break
		}
		tiles++
		tile.Close()
	}
	return tiles, root.Close()
}
