package analysis

import (
	"fmt"
	"log"
	"math"
	"strings"

	"causaledge/domain/causal"
	"causaledge/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Strength thresholds, in the outcome's native units. Deliberately
// absolute: the label is sensitive to the outcome's scale. Flagged to
// stakeholders as a candidate for normalization in a future revision.
const (
	strongEffectFloor   = 0.5
	moderateEffectFloor = 0.2
)

// EffectTransformer converts standardized posterior coefficients into
// original-unit causal effects with significance and strength labels.
type EffectTransformer struct{}

// NewEffectTransformer creates a transformer.
func NewEffectTransformer() *EffectTransformer {
	return &EffectTransformer{}
}

// TransformAll produces one EdgeEffect per parent of every fitted
// node, in fit order then parent order.
func (t *EffectTransformer) TransformAll(fits []causal.NodeFit) []causal.EdgeEffect {
	effects := []causal.EdgeEffect{}
	for i := range fits {
		fit := &fits[i]
		for j := range fit.Problem.Parents {
			effects = append(effects, t.Transform(fit, j))
		}
	}
	return effects
}

// Transform converts one parent's standardized coefficient:
// unit_effect = c * (targetScale / parentScale), standard error
// transformed the same way, two-sided Student-t p-value with
// df = samples - parents - 1. A degenerate scale or non-positive df
// drops to the degraded fallback rather than failing the pipeline.
func (t *EffectTransformer) Transform(fit *causal.NodeFit, parentIdx int) causal.EdgeEffect {
	parent := fit.Problem.Parents[parentIdx]
	effect, err := t.transform(fit, parentIdx)
	if err != nil {
		log.Printf("[Effects] %s -> %s: %v; using raw posterior fallback", parent, fit.Problem.Target, err)
		return t.fallback(fit, parentIdx)
	}
	return effect
}

func (t *EffectTransformer) transform(fit *causal.NodeFit, parentIdx int) (causal.EdgeEffect, error) {
	parentScale := fit.Standardization.Parents[parentIdx]
	targetScale := fit.Standardization.Target
	if parentScale.Degenerate() || targetScale.Degenerate() {
		return causal.EdgeEffect{}, fmt.Errorf("%w for %s", core.ErrDegenerateScale, fit.Problem.Parents[parentIdx])
	}

	ratio := targetScale.Scale / parentScale.Scale
	unitEffect := fit.Posterior.CoefMeans[parentIdx] * ratio
	stdError := fit.Posterior.CoefStds[parentIdx] * ratio

	df := float64(fit.SampleCount - len(fit.Problem.Parents) - 1)
	if df <= 0 {
		return causal.EdgeEffect{}, fmt.Errorf("non-positive degrees of freedom (%v)", df)
	}

	tStat := 0.0
	if stdError > 0 {
		tStat = unitEffect / stdError
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * (1 - tDist.CDF(math.Abs(tStat)))
	confidence := clamp01(1 - pValue)

	return causal.EdgeEffect{
		Source:        WireName(fit.Problem.Parents[parentIdx]),
		Target:        WireName(fit.Problem.Target),
		Coefficient:   unitEffect,
		StandardError: stdError,
		PValue:        pValue,
		Confidence:    confidence,
		Strength:      classifyStrength(unitEffect, stdError),
	}, nil
}

// fallback emits the degraded estimate: raw standardized posterior
// values, fixed p-value and confidence of 0.5, strength moderate.
// A soft failure, never an abort.
func (t *EffectTransformer) fallback(fit *causal.NodeFit, parentIdx int) causal.EdgeEffect {
	return causal.EdgeEffect{
		Source:        WireName(fit.Problem.Parents[parentIdx]),
		Target:        WireName(fit.Problem.Target),
		Coefficient:   fit.Posterior.CoefMeans[parentIdx],
		StandardError: fit.Posterior.CoefStds[parentIdx],
		PValue:        0.5,
		Confidence:    0.5,
		Strength:      causal.StrengthModerate,
	}
}

func classifyStrength(unitEffect, stdError float64) string {
	abs := math.Abs(unitEffect)
	switch {
	case abs > strongEffectFloor && stdError < abs/2:
		return causal.StrengthStrong
	case abs > moderateEffectFloor && stdError < abs:
		return causal.StrengthModerate
	default:
		return causal.StrengthWeak
	}
}

// WireName maps a table column back to the hyphenated identifier
// convention used on the wire.
func WireName(column string) string {
	return strings.ReplaceAll(column, "_", "-")
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
