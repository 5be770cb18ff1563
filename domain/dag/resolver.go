package dag

import (
	"fmt"

	"causaledge/domain/core"
)

// MatchFunc maps a symbolic node identifier to one of the available
// column names. ok is false when nothing matches.
type MatchFunc func(nodeID string, available []string) (column string, ok bool)

// Resolution is the outcome of mapping a DAG onto a table.
type Resolution struct {
	Edges   []ResolvedEdge
	Dropped []DroppedEdge
}

// Resolve maps each symbolic edge to a (source column, target column)
// pair. Edges with either endpoint unmatched are dropped and recorded;
// accepted edges are deduplicated preserving first-seen order. An
// empty result is terminal: no partial analysis is attempted.
func Resolve(edges []Edge, available []string, match MatchFunc) (*Resolution, error) {
	res := &Resolution{}
	seen := make(map[ResolvedEdge]bool)

	for _, e := range edges {
		sourceCol, sourceOK := match(e.Source, available)
		targetCol, targetOK := match(e.Target, available)
		if !sourceOK || !targetOK {
			res.Dropped = append(res.Dropped, DroppedEdge{
				Edge:   e,
				Reason: fmt.Sprintf("unmatched endpoint: %s -> %q, %s -> %q", e.Source, sourceCol, e.Target, targetCol),
			})
			continue
		}

		resolved := ResolvedEdge{SourceColumn: sourceCol, TargetColumn: targetCol}
		if seen[resolved] {
			res.Dropped = append(res.Dropped, DroppedEdge{Edge: e, Reason: "duplicate edge"})
			continue
		}
		seen[resolved] = true
		res.Edges = append(res.Edges, resolved)
	}

	if len(res.Edges) == 0 {
		return res, core.ErrNoValidEdges
	}
	return res, nil
}

// Group partitions resolved edges by target column into one regression
// problem per target. Insertion order of targets and of parents within
// a target is preserved; it is semantically significant for the
// first/last selection policies downstream.
func Group(edges []ResolvedEdge) []NodeProblem {
	order := make([]string, 0)
	parents := make(map[string][]string)

	for _, e := range edges {
		if _, ok := parents[e.TargetColumn]; !ok {
			order = append(order, e.TargetColumn)
		}
		parents[e.TargetColumn] = append(parents[e.TargetColumn], e.SourceColumn)
	}

	problems := make([]NodeProblem, 0, len(order))
	for _, target := range order {
		problems = append(problems, NodeProblem{Target: target, Parents: parents[target]})
	}
	return problems
}
