package analysis

import (
	"context"
	"fmt"
	"log"
	"math"

	"causaledge/domain/causal"
	"causaledge/domain/core"
	"causaledge/domain/dag"
	"causaledge/domain/table"
	"causaledge/ports"

	"github.com/montanaflynn/stats"
)

// MinSamples is the smallest usable design matrix. Node problems with
// fewer valid rows are excluded from fitting entirely.
const MinSamples = 3

// NodeFitter fits one Bayesian linear-Gaussian regression per node
// problem. Failures are node-local: a node that cannot be fitted is
// skipped and the remaining nodes keep their results.
type NodeFitter struct {
	sampler ports.PosteriorSampler
}

// NewNodeFitter creates a fitter backed by the given sampler.
func NewNodeFitter(sampler ports.PosteriorSampler) *NodeFitter {
	return &NodeFitter{sampler: sampler}
}

// FitAll fits every node problem in order and returns the fits that
// succeeded, preserving problem order.
func (f *NodeFitter) FitAll(ctx context.Context, tbl *table.ObservationTable, problems []dag.NodeProblem) []causal.NodeFit {
	fits := make([]causal.NodeFit, 0, len(problems))
	for _, p := range problems {
		fit, err := f.Fit(ctx, tbl, p)
		if err != nil {
			if core.IsFitError(err) {
				log.Printf("[Fitter] skipping node %s: %v", p.Target, err)
			} else {
				log.Printf("[Fitter] unexpected error fitting node %s: %v", p.Target, err)
			}
			continue
		}
		fits = append(fits, *fit)
	}
	return fits
}

// Fit builds the standardized design matrix for one node problem and
// samples its posterior.
func (f *NodeFitter) Fit(ctx context.Context, tbl *table.ObservationTable, p dag.NodeProblem) (*causal.NodeFit, error) {
	xRaw, yRaw, err := designMatrix(tbl, p)
	if err != nil {
		return nil, err
	}
	if len(yRaw) < MinSamples {
		return nil, fmt.Errorf("%w: %s has %d valid samples, need %d", core.ErrInsufficientData, p.Target, len(yRaw), MinSamples)
	}

	std, err := standardize(xRaw, yRaw, p)
	if err != nil {
		return nil, err
	}

	log.Printf("[Fitter] sampling %s ~ %v (n=%d)", p.Target, p.Parents, len(yRaw))
	post, err := f.sampler.Fit(ctx, std.x, std.y)
	if err != nil {
		return nil, err
	}

	return &causal.NodeFit{
		Problem:         p,
		Posterior:       *post,
		Standardization: std.params,
		SampleCount:     len(yRaw),
	}, nil
}

type standardized struct {
	x      [][]float64
	y      []float64
	params causal.Standardization
}

// designMatrix extracts the raw parent matrix and target vector,
// keeping only rows where every value is finite.
func designMatrix(tbl *table.ObservationTable, p dag.NodeProblem) ([][]float64, []float64, error) {
	parents := make([][]float64, len(p.Parents))
	for j, name := range p.Parents {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, nil, err
		}
		parents[j] = col
	}
	target, err := tbl.Column(p.Target)
	if err != nil {
		return nil, nil, err
	}

	var x [][]float64
	var y []float64
	for i := range target {
		row := make([]float64, len(parents))
		valid := isFinite(target[i])
		for j := range parents {
			row[j] = parents[j][i]
			valid = valid && isFinite(row[j])
		}
		if !valid {
			continue
		}
		x = append(x, row)
		y = append(y, target[i])
	}
	return x, y, nil
}

// standardize rescales every parent column and the target to zero mean
// and unit variance, recording the raw scales for the inverse
// transforms downstream. Population standard deviation, matching the
// reference scaler.
func standardize(xRaw [][]float64, yRaw []float64, p dag.NodeProblem) (*standardized, error) {
	k := len(p.Parents)
	params := causal.Standardization{Parents: make([]causal.VariableScale, k)}

	cols := make([][]float64, k)
	for j := 0; j < k; j++ {
		col := make([]float64, len(xRaw))
		for i := range xRaw {
			col[i] = xRaw[i][j]
		}
		cols[j] = col

		mean, err := stats.Mean(col)
		if err != nil {
			return nil, err
		}
		sd, err := stats.StandardDeviation(col)
		if err != nil {
			return nil, err
		}
		params.Parents[j] = causal.VariableScale{Mean: mean, Scale: sd}
	}

	yMean, err := stats.Mean(yRaw)
	if err != nil {
		return nil, err
	}
	ySD, err := stats.StandardDeviation(yRaw)
	if err != nil {
		return nil, err
	}
	params.Target = causal.VariableScale{Mean: yMean, Scale: ySD}

	x := make([][]float64, len(xRaw))
	for i := range xRaw {
		row := make([]float64, k)
		for j := 0; j < k; j++ {
			ps := params.Parents[j]
			row[j] = (cols[j][i] - ps.Mean) / ps.EffectiveScale()
		}
		x[i] = row
	}
	y := make([]float64, len(yRaw))
	for i, v := range yRaw {
		y[i] = (v - params.Target.Mean) / params.Target.EffectiveScale()
	}

	return &standardized{x: x, y: y, params: params}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
