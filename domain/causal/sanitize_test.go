package causal

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	result := &AnalysisResult{
		Parameters: EdgeParameters{Edges: []EdgeEffect{
			{Coefficient: math.NaN(), StandardError: math.Inf(1), PValue: 0.04, Confidence: math.Inf(-1)},
		}},
		UpdatedDAG: UpdatedDAG{Edges: []UpdatedEdge{
			{Data: EdgeEffect{Coefficient: math.NaN()}},
		}},
		Performance: Performance{RSquared: math.NaN(), RMSE: 1.5, AIC: math.Inf(1), BIC: math.Inf(-1)},
		Predictions: Predictions{ActualVsPredicted: []PredictionPoint{
			{Actual: math.NaN(), Predicted: 2, Residual: math.Inf(1)},
		}},
		Incrementality: Incrementality{
			BaselineEffect:         math.NaN(),
			TotalIncrementalImpact: 0.4,
			ChannelContributions: []ChannelContribution{
				{AverageSpend: math.Inf(1), Coefficient: 2, TotalContribution: math.NaN(), PercentageContribution: 50},
			},
		},
	}

	result.Sanitize()

	assert.Equal(t, 0.0, result.Parameters.Edges[0].Coefficient)
	assert.Equal(t, 0.0, result.Parameters.Edges[0].StandardError)
	assert.Equal(t, 0.04, result.Parameters.Edges[0].PValue)
	assert.Equal(t, 0.0, result.Parameters.Edges[0].Confidence)
	assert.Equal(t, 0.0, result.UpdatedDAG.Edges[0].Data.Coefficient)
	assert.Equal(t, 0.0, result.Performance.RSquared)
	assert.Equal(t, 1.5, result.Performance.RMSE)
	assert.Equal(t, 0.0, result.Performance.AIC)
	assert.Equal(t, 0.0, result.Predictions.ActualVsPredicted[0].Actual)
	assert.Equal(t, 2.0, result.Predictions.ActualVsPredicted[0].Predicted)
	assert.Equal(t, 0.0, result.Incrementality.BaselineEffect)
	assert.Equal(t, 0.4, result.Incrementality.TotalIncrementalImpact)
	assert.Equal(t, 0.0, result.Incrementality.ChannelContributions[0].AverageSpend)
	assert.Equal(t, 0.0, result.Incrementality.ChannelContributions[0].TotalContribution)

	// A sanitized result always marshals.
	_, err := json.Marshal(result)
	require.NoError(t, err)
}

func TestNewFailureResultShape(t *testing.T) {
	result := NewFailureResult("boom")

	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, Method, result.Method)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	// Collections serialize as empty arrays, never null.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	params := decoded["parameters"].(map[string]any)
	assert.NotNil(t, params["edges"])
	assert.Len(t, params["edges"], 0)
	dag := decoded["updatedDAG"].(map[string]any)
	assert.Len(t, dag["nodes"], 0)
	assert.Len(t, dag["edges"], 0)
}
