package analysis

import (
	"context"
	"math"
	"testing"

	"causaledge/domain/core"
	"causaledge/domain/dag"
	"causaledge/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRecordsStandardization(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "revenue"}, map[string][]float64{
		"spend_a": {1, 2, 3, 4},
		"revenue": {3, 5, 7, 9},
	})
	problem := dag.NodeProblem{Target: "revenue", Parents: []string{"spend_a"}}
	fitter := NewNodeFitter(&testkit.FixedSampler{CoefMean: 1, CoefStd: 0.1, NoiseMean: 0.1})

	fit, err := fitter.Fit(context.Background(), tbl, problem)
	require.NoError(t, err)

	assert.Equal(t, 4, fit.SampleCount)
	require.Len(t, fit.Standardization.Parents, 1)
	// Population standard deviation, not sample.
	assert.InDelta(t, 2.5, fit.Standardization.Parents[0].Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), fit.Standardization.Parents[0].Scale, 1e-9)
	assert.InDelta(t, 6.0, fit.Standardization.Target.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5), fit.Standardization.Target.Scale, 1e-9)
}

func TestFitDropsNonFiniteRows(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "revenue"}, map[string][]float64{
		"spend_a": {1, math.NaN(), 3, 4, 5},
		"revenue": {3, 5, math.Inf(1), 9, 11},
	})
	problem := dag.NodeProblem{Target: "revenue", Parents: []string{"spend_a"}}
	fitter := NewNodeFitter(&testkit.FixedSampler{CoefMean: 1, CoefStd: 0.1})

	fit, err := fitter.Fit(context.Background(), tbl, problem)
	require.NoError(t, err)
	assert.Equal(t, 3, fit.SampleCount)
}

func TestFitInsufficientData(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "revenue"}, map[string][]float64{
		"spend_a": {1, 2},
		"revenue": {3, 5},
	})
	problem := dag.NodeProblem{Target: "revenue", Parents: []string{"spend_a"}}
	fitter := NewNodeFitter(&testkit.FixedSampler{})

	_, err := fitter.Fit(context.Background(), tbl, problem)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestFitAllSkipsFailedNodes(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "mid", "revenue"}, map[string][]float64{
		"spend_a": {1, 2, 3, 4},
		"mid":     {math.NaN(), math.NaN(), math.NaN(), math.NaN()},
		"revenue": {3, 5, 7, 9},
	})
	problems := []dag.NodeProblem{
		{Target: "mid", Parents: []string{"spend_a"}},
		{Target: "revenue", Parents: []string{"spend_a"}},
	}
	fitter := NewNodeFitter(&testkit.FixedSampler{CoefMean: 1, CoefStd: 0.1})

	fits := fitter.FitAll(context.Background(), tbl, problems)

	require.Len(t, fits, 1)
	assert.Equal(t, "revenue", fits[0].Problem.Target)
}

func TestStandardizeDegenerateColumn(t *testing.T) {
	xRaw := [][]float64{{5}, {5}, {5}, {5}}
	yRaw := []float64{3, 5, 7, 9}
	problem := dag.NodeProblem{Target: "revenue", Parents: []string{"spend_a"}}

	std, err := standardize(xRaw, yRaw, problem)
	require.NoError(t, err)

	// Constant column: divide by 1, keep the raw zero scale so the
	// effect transform can detect the degeneracy.
	assert.True(t, std.params.Parents[0].Degenerate())
	assert.Equal(t, 1.0, std.params.Parents[0].EffectiveScale())
	for _, row := range std.x {
		assert.Equal(t, 0.0, row[0])
	}
}
