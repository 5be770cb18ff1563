package causal

import (
	"causaledge/domain/dag"
)

// VariableScale is the (mean, scale) standardization pair for one
// variable. Scale keeps the raw sample standard deviation even when
// it is degenerate; EffectiveScale is what the design matrix used.
type VariableScale struct {
	Mean  float64
	Scale float64
}

// DegenerateScaleEps bounds what counts as a usable scale. Below it,
// standardization divides by 1 instead and the effect transform takes
// its degraded fallback path.
const DegenerateScaleEps = 1e-12

// EffectiveScale returns the divisor actually used when standardizing:
// 1 for (near-)zero-variance variables, the raw scale otherwise.
func (v VariableScale) EffectiveScale() float64 {
	if v.Scale < DegenerateScaleEps {
		return 1.0
	}
	return v.Scale
}

// Degenerate reports whether the raw scale is unusable for the
// original-unit effect transform.
func (v VariableScale) Degenerate() bool {
	return v.Scale < DegenerateScaleEps
}

// Standardization holds the per-variable scaling parameters recorded
// when a node problem's design matrix was built. Parents align with
// the node problem's parent order.
type Standardization struct {
	Parents []VariableScale
	Target  VariableScale
}

// Posterior summarizes the retained MCMC draws for one node problem:
// mean and standard deviation per parameter, in standardized space.
// Coefficient vectors align with the node problem's parent order.
// Immutable once produced.
type Posterior struct {
	InterceptMean float64
	InterceptStd  float64
	CoefMeans     []float64
	CoefStds      []float64
	NoiseMean     float64
}

// NodeFit bundles everything recorded for a fitted node problem.
type NodeFit struct {
	Problem         dag.NodeProblem
	Posterior       Posterior
	Standardization Standardization
	SampleCount     int
}

// PredictStandardized evaluates the fitted linear model at one
// standardized design row.
func (f *NodeFit) PredictStandardized(xStd []float64) float64 {
	mu := f.Posterior.InterceptMean
	for j, c := range f.Posterior.CoefMeans {
		mu += c * xStd[j]
	}
	return mu
}

// PredictOriginal standardizes a raw design row, predicts, and
// inverse-transforms back to the target's original units.
func (f *NodeFit) PredictOriginal(xRaw []float64) float64 {
	xStd := make([]float64, len(xRaw))
	for j, x := range xRaw {
		p := f.Standardization.Parents[j]
		xStd[j] = (x - p.Mean) / p.EffectiveScale()
	}
	yStd := f.PredictStandardized(xStd)
	t := f.Standardization.Target
	return yStd*t.EffectiveScale() + t.Mean
}
