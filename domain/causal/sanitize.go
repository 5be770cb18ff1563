package causal

import "math"

// clean maps non-finite values to 0 so the wire format never carries
// NaN or infinities.
func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Sanitize rewrites every non-finite numeric field of the result to 0,
// in place. Called once by the assembler before the result leaves the
// pipeline.
func (r *AnalysisResult) Sanitize() {
	for i := range r.Parameters.Edges {
		sanitizeEffect(&r.Parameters.Edges[i])
	}
	for i := range r.UpdatedDAG.Edges {
		sanitizeEffect(&r.UpdatedDAG.Edges[i].Data)
	}

	r.Performance.RSquared = clean(r.Performance.RSquared)
	r.Performance.RMSE = clean(r.Performance.RMSE)
	r.Performance.AIC = clean(r.Performance.AIC)
	r.Performance.BIC = clean(r.Performance.BIC)

	for i := range r.Predictions.ActualVsPredicted {
		p := &r.Predictions.ActualVsPredicted[i]
		p.Actual = clean(p.Actual)
		p.Predicted = clean(p.Predicted)
		p.Residual = clean(p.Residual)
	}

	r.Incrementality.BaselineEffect = clean(r.Incrementality.BaselineEffect)
	r.Incrementality.TotalIncrementalImpact = clean(r.Incrementality.TotalIncrementalImpact)
	for i := range r.Incrementality.ChannelContributions {
		c := &r.Incrementality.ChannelContributions[i]
		c.AverageSpend = clean(c.AverageSpend)
		c.Coefficient = clean(c.Coefficient)
		c.TotalContribution = clean(c.TotalContribution)
		c.PercentageContribution = clean(c.PercentageContribution)
	}
}

func sanitizeEffect(e *EdgeEffect) {
	e.Coefficient = clean(e.Coefficient)
	e.StandardError = clean(e.StandardError)
	e.PValue = clean(e.PValue)
	e.Confidence = clean(e.Confidence)
}
