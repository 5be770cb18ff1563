package ports

import (
	"context"

	"causaledge/domain/causal"
)

// PosteriorSampler estimates the linear-Gaussian model parameters for
// one node problem by posterior sampling. X is the standardized design
// matrix (rows = observations, columns = parents in problem order),
// y the standardized target. A sampling failure aborts only the node
// it was called for; callers keep results from other nodes.
type PosteriorSampler interface {
	Fit(ctx context.Context, x [][]float64, y []float64) (*causal.Posterior, error)
}
