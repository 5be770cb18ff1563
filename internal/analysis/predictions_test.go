package analysis

import (
	"testing"

	"causaledge/domain/causal"
	"causaledge/domain/dag"
	"causaledge/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePredictions(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "revenue"}, map[string][]float64{
		"spend_a": {1, 2, 3, 4},
		"revenue": {3, 5, 7, 9},
	})
	problems := []dag.NodeProblem{{Target: "revenue", Parents: []string{"spend_a"}}}

	preds := NewPredictionGenerator().Generate(tbl, problems, []causal.NodeFit{perfectFit()})

	require.Len(t, preds.ActualVsPredicted, 4)
	for i, p := range preds.ActualVsPredicted {
		assert.Equal(t, i+1, p.Period)
		assert.Equal(t, tbl.DateLabel(i+1), p.Date)
		assert.InDelta(t, p.Actual-p.Predicted, p.Residual, 1e-12)
	}
	assert.Equal(t, "Period 1", preds.ActualVsPredicted[0].Date)
	assert.InDelta(t, 3.0, preds.ActualVsPredicted[0].Actual, 1e-12)
	assert.InDelta(t, 3.0, preds.ActualVsPredicted[0].Predicted, 1e-9)
}

func TestGeneratePredictionsUsesDateColumn(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "revenue"}, map[string][]float64{
		"spend_a": {1, 2, 3, 4},
		"revenue": {3, 5, 7, 9},
	})
	tbl.HasDate = true
	dates := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}
	for i := range tbl.Rows {
		tbl.Rows[i].Date = dates[i]
	}
	problems := []dag.NodeProblem{{Target: "revenue", Parents: []string{"spend_a"}}}

	preds := NewPredictionGenerator().Generate(tbl, problems, []causal.NodeFit{perfectFit()})

	require.Len(t, preds.ActualVsPredicted, 4)
	assert.Equal(t, "2024-01-08", preds.ActualVsPredicted[1].Date)
}

func TestGeneratePredictionsFirstGroupedTarget(t *testing.T) {
	tbl := makeTable([]string{"spend_a", "mid", "revenue"}, map[string][]float64{
		"spend_a": {1, 2, 3, 4},
		"mid":     {2, 4, 6, 8},
		"revenue": {3, 5, 7, 9},
	})
	problems := []dag.NodeProblem{
		{Target: "mid", Parents: []string{"spend_a"}},
		{Target: "revenue", Parents: []string{"spend_a"}},
	}

	// Only the second target is fitted; the first-node policy means
	// the sequence stays empty.
	preds := NewPredictionGenerator().Generate(tbl, problems, []causal.NodeFit{perfectFit()})
	require.NotNil(t, preds.ActualVsPredicted)
	assert.Len(t, preds.ActualVsPredicted, 0)
}

func TestGeneratePredictionsNoProblems(t *testing.T) {
	preds := NewPredictionGenerator().Generate(&table.ObservationTable{}, nil, nil)
	require.NotNil(t, preds.ActualVsPredicted)
	assert.Len(t, preds.ActualVsPredicted, 0)
}
