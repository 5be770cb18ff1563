package analysis

import (
	"context"
	"errors"
	"log"

	"causaledge/domain/causal"
	"causaledge/domain/core"
	"causaledge/domain/dag"
	"causaledge/domain/table"
	"causaledge/ports"
)

// Pipeline runs the full estimation flow over a cleaned observation
// table: edge resolution, per-node fitting, effect transforms, and the
// derived sections. Derived-section failures degrade that section to
// its zero value; only an unresolvable DAG is terminal.
type Pipeline struct {
	matcher        ports.ColumnMatcher
	fitter         *NodeFitter
	effects        *EffectTransformer
	performance    *PerformanceEvaluator
	predictions    *PredictionGenerator
	incrementality *IncrementalityDecomposer
}

// NewPipeline wires the pipeline from its two injected collaborators.
func NewPipeline(matcher ports.ColumnMatcher, sampler ports.PosteriorSampler) *Pipeline {
	return &Pipeline{
		matcher:        matcher,
		fitter:         NewNodeFitter(sampler),
		effects:        NewEffectTransformer(),
		performance:    NewPerformanceEvaluator(),
		predictions:    NewPredictionGenerator(),
		incrementality: NewIncrementalityDecomposer(matcher),
	}
}

// Run executes one analysis. The returned envelope always has the
// fixed schema; success only requires that at least one edge resolved.
func (p *Pipeline) Run(ctx context.Context, tbl *table.ObservationTable, structure dag.Structure) (*causal.AnalysisResult, error) {
	resolution, err := dag.Resolve(structure.Edges, tbl.ColumnNames(), p.matcher.Match)
	for _, dropped := range resolution.Dropped {
		log.Printf("[Pipeline] dropped edge %s -> %s: %s", dropped.Edge.Source, dropped.Edge.Target, dropped.Reason)
	}
	if err != nil {
		if errors.Is(err, core.ErrNoValidEdges) {
			return causal.NewFailureResult("No valid DAG edges found after column mapping"), nil
		}
		return nil, err
	}
	log.Printf("[Pipeline] %d unique edges resolved, %d dropped", len(resolution.Edges), len(resolution.Dropped))

	problems := dag.Group(resolution.Edges)
	fits := p.fitter.FitAll(ctx, tbl, problems)
	effects := p.effects.TransformAll(fits)

	result := &causal.AnalysisResult{
		Success:        true,
		Method:         causal.Method,
		Parameters:     causal.EdgeParameters{Edges: effects},
		UpdatedDAG:     updatedDAG(structure, effects),
		Performance:    p.performance.Evaluate(tbl, problems, fits),
		Predictions:    p.predictions.Generate(tbl, problems, fits),
		Incrementality: p.incrementality.Decompose(tbl, problems, fits, effects),
	}
	result.Sanitize()
	return result, nil
}

// updatedDAG echoes the caller's nodes and attaches effect data to the
// quantified edges.
func updatedDAG(structure dag.Structure, effects []causal.EdgeEffect) causal.UpdatedDAG {
	nodes := structure.Nodes
	if nodes == nil {
		nodes = []dag.Node{}
	}
	edges := make([]causal.UpdatedEdge, 0, len(effects))
	for _, e := range effects {
		edges = append(edges, causal.UpdatedEdge{Source: e.Source, Target: e.Target, Data: e})
	}
	return causal.UpdatedDAG{Nodes: nodes, Edges: edges}
}
