package analysis

import (
	"log"

	"causaledge/domain/causal"
	"causaledge/domain/dag"
	"causaledge/domain/table"
)

// PredictionGenerator emits actual/predicted/residual triples for the
// node problem whose target is first in grouping-insertion order, one
// record per observation row.
type PredictionGenerator struct{}

// NewPredictionGenerator creates a generator.
func NewPredictionGenerator() *PredictionGenerator {
	return &PredictionGenerator{}
}

// Generate returns the prediction sequence for the first-grouped node.
// Any failure yields an empty sequence, never an error.
func (g *PredictionGenerator) Generate(tbl *table.ObservationTable, problems []dag.NodeProblem, fits []causal.NodeFit) causal.Predictions {
	out := causal.Predictions{ActualVsPredicted: []causal.PredictionPoint{}}
	if len(problems) == 0 {
		return out
	}
	firstTarget := problems[0].Target

	fit := findFit(fits, firstTarget)
	if fit == nil {
		log.Printf("[Predictions] no fit for first-grouped node %s, skipping", firstTarget)
		return out
	}

	actual, predicted, err := predictNode(tbl, fit)
	if err != nil {
		log.Printf("[Predictions] prediction failed for %s: %v", firstTarget, err)
		return out
	}

	for i := range actual {
		period := i + 1
		out.ActualVsPredicted = append(out.ActualVsPredicted, causal.PredictionPoint{
			Actual:    actual[i],
			Predicted: predicted[i],
			Residual:  actual[i] - predicted[i],
			Period:    period,
			Date:      tbl.DateLabel(period),
		})
	}
	return out
}
