package ports

import (
	"context"

	"causaledge/domain/causal"
	"causaledge/domain/dag"
	"causaledge/domain/table"
)

// AnalysisPipeline runs the full estimation flow for one cleaned
// table and DAG, returning the canonical result envelope.
type AnalysisPipeline interface {
	Run(ctx context.Context, tbl *table.ObservationTable, structure dag.Structure) (*causal.AnalysisResult, error)
}
