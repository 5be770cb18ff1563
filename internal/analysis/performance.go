package analysis

import (
	"log"
	"math"

	"causaledge/domain/causal"
	"causaledge/domain/dag"
	"causaledge/domain/table"

	"github.com/montanaflynn/stats"
)

// logEps guards the information-criteria logarithm.
const logEps = 1e-10

// PerformanceEvaluator computes in-sample fit metrics for the node
// problem whose target is last in grouping-insertion order. The AIC
// and BIC values are heuristic RMSE-based approximations, not true
// likelihood criteria; the formulas are preserved as-is.
type PerformanceEvaluator struct{}

// NewPerformanceEvaluator creates an evaluator.
func NewPerformanceEvaluator() *PerformanceEvaluator {
	return &PerformanceEvaluator{}
}

// Evaluate returns the metrics for the last-grouped node. Any failure,
// including that node having no fit, yields all-zero metrics.
func (e *PerformanceEvaluator) Evaluate(tbl *table.ObservationTable, problems []dag.NodeProblem, fits []causal.NodeFit) causal.Performance {
	if len(problems) == 0 {
		return causal.Performance{}
	}
	lastTarget := problems[len(problems)-1].Target

	fit := findFit(fits, lastTarget)
	if fit == nil {
		log.Printf("[Performance] no fit for last-grouped node %s, defaulting metrics", lastTarget)
		return causal.Performance{}
	}

	actual, predicted, err := predictNode(tbl, fit)
	if err != nil {
		log.Printf("[Performance] prediction failed for %s: %v", lastTarget, err)
		return causal.Performance{}
	}

	n := len(actual)
	yMean, err := stats.Mean(actual)
	if err != nil {
		return causal.Performance{}
	}

	ssRes, ssTot, sqErr := 0.0, 0.0, 0.0
	for i := range actual {
		r := actual[i] - predicted[i]
		ssRes += r * r
		sqErr += r * r
		d := actual[i] - yMean
		ssTot += d * d
	}

	rSquared := 0.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}
	rmse := math.Sqrt(sqErr / float64(n))

	k := float64(len(fit.Posterior.CoefMeans) + 1)
	logTerm := math.Log(math.Max(logEps, 1/(rmse+logEps)))

	return causal.Performance{
		RSquared: rSquared,
		RMSE:     rmse,
		AIC:      2*k - 2*logTerm,
		BIC:      math.Log(float64(n))*k - 2*logTerm,
	}
}

// predictNode rebuilds the node's raw design matrix and produces
// original-unit predictions from its stored posterior and scales.
func predictNode(tbl *table.ObservationTable, fit *causal.NodeFit) (actual, predicted []float64, err error) {
	xRaw, yRaw, err := designMatrix(tbl, fit.Problem)
	if err != nil {
		return nil, nil, err
	}
	predicted = make([]float64, len(yRaw))
	for i, row := range xRaw {
		predicted[i] = fit.PredictOriginal(row)
	}
	return yRaw, predicted, nil
}

func findFit(fits []causal.NodeFit, target string) *causal.NodeFit {
	for i := range fits {
		if fits[i].Problem.Target == target {
			return &fits[i]
		}
	}
	return nil
}
