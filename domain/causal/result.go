package causal

import (
	"causaledge/domain/dag"
)

// Method identifies the estimation pipeline on every envelope.
const Method = "bayesian_lineargaussian"

// Strength labels for an estimated effect.
const (
	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// EdgeEffect is the per-edge causal estimate in original units.
type EdgeEffect struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Coefficient   float64 `json:"coefficient"`
	StandardError float64 `json:"standardError"`
	PValue        float64 `json:"pValue"`
	Confidence    float64 `json:"confidence"`
	Strength      string  `json:"strength"`
}

// UpdatedEdge attaches the effect data to a resolved DAG edge.
type UpdatedEdge struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Data   EdgeEffect `json:"data"`
}

// UpdatedDAG echoes the caller's nodes with the quantified edges.
type UpdatedDAG struct {
	Nodes []dag.Node    `json:"nodes"`
	Edges []UpdatedEdge `json:"edges"`
}

// Performance holds in-sample fit metrics for the evaluated node.
type Performance struct {
	RSquared float64 `json:"rSquared"`
	RMSE     float64 `json:"rmse"`
	AIC      float64 `json:"aic"`
	BIC      float64 `json:"bic"`
}

// PredictionPoint is one actual/predicted/residual triple.
type PredictionPoint struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
	Residual  float64 `json:"residual"`
	Period    int     `json:"period"`
	Date      string  `json:"date"`
}

// Predictions is the per-observation sequence for the selected node.
type Predictions struct {
	ActualVsPredicted []PredictionPoint `json:"actualVsPredicted"`
}

// ChannelContribution is one driver's share of the outcome.
type ChannelContribution struct {
	Channel                string  `json:"channel"`
	AverageSpend           float64 `json:"averageSpend"`
	Coefficient            float64 `json:"coefficient"`
	TotalContribution      float64 `json:"totalContribution"`
	PercentageContribution float64 `json:"percentageContribution"`
}

// Incrementality decomposes the outcome into a zero-driver baseline
// and driver-attributable contributions, as fractions of the mean
// observed outcome.
type Incrementality struct {
	Outcome                string                `json:"outcome"`
	BaselineEffect         float64               `json:"baselineEffect"`
	TotalIncrementalImpact float64               `json:"totalIncrementalImpact"`
	ChannelContributions   []ChannelContribution `json:"channelContributions"`
}

// EdgeParameters wraps the edge list under the envelope's
// "parameters" key.
type EdgeParameters struct {
	Edges []EdgeEffect `json:"edges"`
}

// AnalysisResult is the canonical response shape. Failure paths use
// the same shape with Success=false and zeroed payloads so callers
// always parse a fixed schema.
type AnalysisResult struct {
	Success        bool           `json:"success"`
	Error          string         `json:"error,omitempty"`
	Method         string         `json:"method"`
	Parameters     EdgeParameters `json:"parameters"`
	UpdatedDAG     UpdatedDAG     `json:"updatedDAG"`
	Performance    Performance    `json:"performance"`
	Predictions    Predictions    `json:"predictions"`
	Incrementality Incrementality `json:"incrementalityAnalysis"`
}

// NewFailureResult builds the fixed failure envelope.
func NewFailureResult(message string) *AnalysisResult {
	return &AnalysisResult{
		Success: false,
		Error:   message,
		Method:  Method,
		Parameters: EdgeParameters{
			Edges: []EdgeEffect{},
		},
		UpdatedDAG: UpdatedDAG{
			Nodes: []dag.Node{},
			Edges: []UpdatedEdge{},
		},
		Predictions: Predictions{
			ActualVsPredicted: []PredictionPoint{},
		},
		Incrementality: Incrementality{
			ChannelContributions: []ChannelContribution{},
		},
	}
}
