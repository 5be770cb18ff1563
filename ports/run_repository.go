package ports

import (
	"context"

	"causaledge/domain/causal"
	"causaledge/domain/core"
)

// RunRepository persists analysis runs. The pipeline works without one;
// services treat a nil repository as persistence disabled.
type RunRepository interface {
	Save(ctx context.Context, run *causal.AnalysisRun) error
	GetByID(ctx context.Context, id core.RunID) (*causal.AnalysisRun, error)
}
