package planner

import (
	"fmt"
)

// NodeType tags the kind of a plan node. Executor construction dispatches
// on this tag.
type NodeType int

const (
	NodeScan NodeType = iota
	NodeFilter
	NodeOrderBy
	NodeMaterialize
)

func (t NodeType) String() string {
	switch t {
	case NodeScan:
		return "Scan"
	case NodeFilter:
		return "Filter"
	case NodeOrderBy:
		return "OrderBy"
	case NodeMaterialize:
		return "Materialize"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Plan is a read-only plan-node configuration consumed by the executor.
// Plan nodes carry no execution state.
type Plan interface {
	// Type returns the node's kind tag.
	Type() NodeType
	// Children returns the child plans.
	Children() []Plan
	// Info returns a human-readable label for diagnostics only.
	Info() string
	// Validate checks the node's configuration before execution.
	Validate() error
}

// basePlan provides common functionality for plan nodes.
type basePlan struct {
	children []Plan
}

func (p *basePlan) Children() []Plan {
	return p.children
}

// Explain renders a plan tree for diagnostics.
func Explain(plan Plan) string {
	return explain(plan, 0)
}

func explain(plan Plan, depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "  "
	}
	out += plan.Info() + "\n"
	for _, child := range plan.Children() {
		out += explain(child, depth+1)
	}
	return out
}
