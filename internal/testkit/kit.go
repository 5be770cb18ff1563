package testkit

import (
	"context"
	"fmt"
	"sync"

	"causaledge/domain/causal"
	"causaledge/domain/core"
	apperrors "causaledge/internal/errors"
)

// InMemoryRunRepository is a RunRepository backed by a map, for tests
// and for running the API without a database.
type InMemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*causal.AnalysisRun
}

// NewInMemoryRunRepository creates an empty in-memory repository
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{runs: make(map[core.RunID]*causal.AnalysisRun)}
}

func (r *InMemoryRunRepository) Save(_ context.Context, run *causal.AnalysisRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *InMemoryRunRepository) GetByID(_ context.Context, id core.RunID) (*causal.AnalysisRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("analysis run %s", id))
	}
	return run, nil
}

// Len reports how many runs have been saved
func (r *InMemoryRunRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}

// FixedSampler returns the same posterior for every fit. Tests use it
// to exercise the pipeline without paying for real sampling.
type FixedSampler struct {
	InterceptMean float64
	InterceptStd  float64
	CoefMean      float64
	CoefStd       float64
	NoiseMean     float64
	Err           error
}

func (s *FixedSampler) Fit(_ context.Context, x [][]float64, _ []float64) (*causal.Posterior, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	k := 0
	if len(x) > 0 {
		k = len(x[0])
	}
	post := &causal.Posterior{
		InterceptMean: s.InterceptMean,
		InterceptStd:  s.InterceptStd,
		NoiseMean:     s.NoiseMean,
	}
	for j := 0; j < k; j++ {
		post.CoefMeans = append(post.CoefMeans, s.CoefMean)
		post.CoefStds = append(post.CoefStds, s.CoefStd)
	}
	return post, nil
}
