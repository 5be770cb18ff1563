package analysis

import (
	"log"

	"causaledge/domain/causal"
	"causaledge/domain/dag"
	"causaledge/domain/table"
	"causaledge/ports"

	"github.com/montanaflynn/stats"
)

// IncrementalityDecomposer splits the outcome into a zero-driver
// baseline and per-driver contributions. The baseline comes from the
// first-grouped node's fit; contributions iterate every accepted edge
// effect across all nodes. Contributions treat each effect as locally
// linear over the driver's observed range.
type IncrementalityDecomposer struct {
	matcher ports.ColumnMatcher
}

// NewIncrementalityDecomposer creates a decomposer. The matcher maps
// edge-effect source names back to table columns.
func NewIncrementalityDecomposer(matcher ports.ColumnMatcher) *IncrementalityDecomposer {
	return &IncrementalityDecomposer{matcher: matcher}
}

// Decompose computes the incrementality result. Any failure leaves the
// zero-valued default in place rather than aborting the pipeline.
func (d *IncrementalityDecomposer) Decompose(
	tbl *table.ObservationTable,
	problems []dag.NodeProblem,
	fits []causal.NodeFit,
	effects []causal.EdgeEffect,
) causal.Incrementality {
	out := causal.Incrementality{ChannelContributions: []causal.ChannelContribution{}}
	if len(problems) == 0 {
		return out
	}
	firstTarget := problems[0].Target
	out.Outcome = WireName(firstTarget)

	fit := findFit(fits, firstTarget)
	if fit == nil {
		log.Printf("[Incrementality] no fit for node %s, defaulting", firstTarget)
		return out
	}

	// Baseline: the model evaluated where every driver is zero in
	// original units (standardized value -mean/scale per driver).
	zeros := make([]float64, len(fit.Problem.Parents))
	baselineOriginal := fit.PredictOriginal(zeros)

	totalContribution := 0.0
	for _, effect := range effects {
		sourceCol, ok := d.matcher.Match(effect.Source, tbl.ColumnNames())
		if !ok || !tbl.HasColumn(sourceCol) {
			log.Printf("[Incrementality] channel %s has no table column, skipped", effect.Source)
			continue
		}
		col, err := tbl.Column(sourceCol)
		if err != nil {
			continue
		}
		avgSpend, err := stats.Mean(col)
		if err != nil {
			continue
		}

		contribution := avgSpend * effect.Coefficient
		totalContribution += contribution
		out.ChannelContributions = append(out.ChannelContributions, causal.ChannelContribution{
			Channel:           effect.Source,
			AverageSpend:      avgSpend,
			Coefficient:       effect.Coefficient,
			TotalContribution: contribution,
		})
	}

	for i := range out.ChannelContributions {
		c := &out.ChannelContributions[i]
		if totalContribution > 0 {
			c.PercentageContribution = c.TotalContribution / totalContribution * 100
		}
	}

	yRaw, err := tbl.Column(firstTarget)
	if err != nil {
		return out
	}
	meanOutcome, err := stats.Mean(yRaw)
	if err != nil || meanOutcome == 0 {
		return out
	}

	out.BaselineEffect = clamp01(baselineOriginal / meanOutcome)
	out.TotalIncrementalImpact = clamp01(totalContribution / meanOutcome)
	return out
}
