package analysis

import (
	"testing"

	"causaledge/domain/causal"
	"causaledge/domain/dag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitFixture() causal.NodeFit {
	return causal.NodeFit{
		Problem: dag.NodeProblem{Target: "revenue", Parents: []string{"spend_a"}},
		Posterior: causal.Posterior{
			CoefMeans: []float64{0.5},
			CoefStds:  []float64{0.05},
		},
		Standardization: causal.Standardization{
			Parents: []causal.VariableScale{{Mean: 100, Scale: 2}},
			Target:  causal.VariableScale{Mean: 5000, Scale: 4},
		},
		SampleCount: 20,
	}
}

func TestTransformOriginalUnits(t *testing.T) {
	fit := fitFixture()
	effect := NewEffectTransformer().Transform(&fit, 0)

	// ratio = targetScale/parentScale = 2
	assert.InDelta(t, 1.0, effect.Coefficient, 1e-12)
	assert.InDelta(t, 0.1, effect.StandardError, 1e-12)
	assert.Equal(t, "spend-a", effect.Source)
	assert.Equal(t, "revenue", effect.Target)
	assert.Less(t, effect.PValue, 0.05)
	assert.Greater(t, effect.Confidence, 0.95)
	assert.Equal(t, causal.StrengthStrong, effect.Strength)
}

func TestTransformDegenerateScaleFallback(t *testing.T) {
	fit := fitFixture()
	fit.Standardization.Parents[0].Scale = 0

	effect := NewEffectTransformer().Transform(&fit, 0)

	assert.InDelta(t, 0.5, effect.Coefficient, 1e-12)
	assert.InDelta(t, 0.05, effect.StandardError, 1e-12)
	assert.Equal(t, 0.5, effect.PValue)
	assert.Equal(t, 0.5, effect.Confidence)
	assert.Equal(t, causal.StrengthModerate, effect.Strength)
}

func TestTransformNonPositiveDF(t *testing.T) {
	fit := fitFixture()
	fit.SampleCount = 2

	effect := NewEffectTransformer().Transform(&fit, 0)

	assert.Equal(t, 0.5, effect.PValue)
	assert.Equal(t, causal.StrengthModerate, effect.Strength)
}

func TestTransformAllOrderAndNonNil(t *testing.T) {
	empty := NewEffectTransformer().TransformAll(nil)
	require.NotNil(t, empty)
	assert.Len(t, empty, 0)

	fit := fitFixture()
	fit.Problem.Parents = []string{"spend_a", "spend_b"}
	fit.Posterior.CoefMeans = []float64{0.5, 0.1}
	fit.Posterior.CoefStds = []float64{0.05, 0.05}
	fit.Standardization.Parents = []causal.VariableScale{
		{Mean: 100, Scale: 2},
		{Mean: 200, Scale: 2},
	}

	effects := NewEffectTransformer().TransformAll([]causal.NodeFit{fit})
	require.Len(t, effects, 2)
	assert.Equal(t, "spend-a", effects[0].Source)
	assert.Equal(t, "spend-b", effects[1].Source)
}

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		name     string
		effect   float64
		stdErr   float64
		expected string
	}{
		{"large precise effect", 0.6, 0.1, causal.StrengthStrong},
		{"large noisy effect", 0.6, 0.5, causal.StrengthModerate},
		{"negative strong effect", -0.8, 0.2, causal.StrengthStrong},
		{"moderate effect", 0.3, 0.2, causal.StrengthModerate},
		{"small effect", 0.1, 0.05, causal.StrengthWeak},
		{"moderate magnitude too noisy", 0.25, 0.3, causal.StrengthWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyStrength(tt.effect, tt.stdErr))
		})
	}
}

func TestWireName(t *testing.T) {
	assert.Equal(t, "spend-a", WireName("spend_a"))
	assert.Equal(t, "revenue", WireName("revenue"))
	assert.Equal(t, "total-ad-spend", WireName("total_ad_spend"))
}
