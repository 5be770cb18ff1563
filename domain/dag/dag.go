package dag

// Node is a DAG node as supplied by the caller. The core pipeline
// only consumes edges; nodes are echoed back on the updated DAG view.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Edge is a directed relation between two symbolic node identifiers,
// asserting a hypothesized causal link to be quantified.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Structure is the caller-supplied DAG.
type Structure struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ResolvedEdge is an Edge after both endpoints were mapped to
// observation table columns.
type ResolvedEdge struct {
	SourceColumn string
	TargetColumn string
}

// NodeProblem is one independent regression: a target column and its
// ordered parent (driver) columns. Parent order is fixed at grouping
// time and downstream coefficient vectors follow it.
type NodeProblem struct {
	Target  string
	Parents []string
}

// DroppedEdge records why an edge was excluded from analysis.
type DroppedEdge struct {
	Edge   Edge
	Reason string
}
