// Package sampler fits the standardized linear-Gaussian node model by
// Markov-chain Monte Carlo. Parameters follow the fixed model:
// intercept ~ Normal(0, 10), coefficients ~ HalfNormal(1) (effects are
// constrained non-negative in standardized space), noise scale ~
// HalfNormal(1), outcome Normal around the linear mean.
package sampler

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"causaledge/domain/causal"
	"causaledge/domain/core"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config pins the sampling schedule. Results are seed-defined, so
// changing any of these changes every downstream number.
type Config struct {
	Chains        int
	WarmupDraws   int
	RetainedDraws int
	TargetAccept  float64
	Seed          uint64

	InterceptPriorScale float64
	CoefPriorScale      float64
	NoisePriorScale     float64
}

// DefaultConfig returns the fixed production schedule: 2 chains, 1000
// warm-up iterations, 2000 retained draws per chain, target acceptance
// 0.9, seed 44.
func DefaultConfig() Config {
	return Config{
		Chains:              2,
		WarmupDraws:         1000,
		RetainedDraws:       2000,
		TargetAccept:        0.9,
		Seed:                44,
		InterceptPriorScale: 10,
		CoefPriorScale:      1,
		NoisePriorScale:     1,
	}
}

// MCMCSampler implements ports.PosteriorSampler with a component-wise
// adaptive random-walk Metropolis kernel. Chains run in parallel but
// each owns a seed derived from the base seed, so results are
// bit-for-bit reproducible regardless of scheduling.
type MCMCSampler struct {
	cfg Config
}

// New creates a sampler with the given schedule.
func New(cfg Config) *MCMCSampler {
	return &MCMCSampler{cfg: cfg}
}

// Fit runs all chains for one node problem and pools the retained
// draws into posterior means and standard deviations.
func (s *MCMCSampler) Fit(ctx context.Context, x [][]float64, y []float64) (*causal.Posterior, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("%w: design matrix has %d rows, target has %d", core.ErrSamplingFailed, len(x), n)
	}
	k := len(x[0])
	if k == 0 {
		return nil, fmt.Errorf("%w: no parent columns", core.ErrSamplingFailed)
	}
	for i, row := range x {
		if len(row) != k {
			return nil, fmt.Errorf("%w: ragged design matrix at row %d", core.ErrSamplingFailed, i)
		}
	}

	start := time.Now()
	chains := make([]*chainDraws, s.cfg.Chains)
	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c < s.cfg.Chains; c++ {
		g.Go(func() error {
			draws, err := s.runChain(gctx, uint64(c), x, y)
			if err != nil {
				return err
			}
			chains[c] = draws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("[Sampler] %d chains x %d draws completed in %.1fs (k=%d, n=%d)",
		s.cfg.Chains, s.cfg.RetainedDraws, time.Since(start).Seconds(), k, n)

	return pool(chains, k)
}

// chainDraws stores one chain's retained draws in constrained space.
type chainDraws struct {
	intercept []float64
	coefs     [][]float64 // [paramIndex][draw]
	noise     []float64
}

// runChain executes warm-up plus retained iterations for one chain.
// Sampling works in unconstrained space: coefficients and the noise
// scale are log-transformed, with Jacobian terms folded into the
// posterior density so the half-Normal priors hold exactly.
func (s *MCMCSampler) runChain(ctx context.Context, chain uint64, x [][]float64, y []float64) (*chainDraws, error) {
	k := len(x[0])
	dims := k + 2 // intercept, k coefficients, noise scale

	src := rand.NewPCG(s.cfg.Seed, chain)
	rng := rand.New(src)
	proposal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	// theta: [0] intercept, [1..k] log coefficients, [k+1] log noise.
	// Chains start at a least-squares point so the warm-up budget is
	// spent adapting step sizes, not crossing the prior.
	theta := initialPoint(x, y)

	logPost := s.logPosterior(theta, x, y)
	if math.IsNaN(logPost) || math.IsInf(logPost, 0) {
		return nil, fmt.Errorf("%w: non-finite posterior at initial point", core.ErrSamplingFailed)
	}

	steps := make([]float64, dims)
	for d := range steps {
		steps[d] = 0.1
	}

	draws := &chainDraws{
		intercept: make([]float64, 0, s.cfg.RetainedDraws),
		coefs:     make([][]float64, k),
		noise:     make([]float64, 0, s.cfg.RetainedDraws),
	}
	for j := range draws.coefs {
		draws.coefs[j] = make([]float64, 0, s.cfg.RetainedDraws)
	}

	total := s.cfg.WarmupDraws + s.cfg.RetainedDraws
	for it := 0; it < total; it++ {
		if it%256 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		warming := it < s.cfg.WarmupDraws
		for d := 0; d < dims; d++ {
			old := theta[d]
			theta[d] = old + steps[d]*proposal.Rand()
			proposed := s.logPosterior(theta, x, y)

			accept := 0.0
			if !math.IsNaN(proposed) && !math.IsInf(proposed, 1) {
				accept = math.Exp(math.Min(0, proposed-logPost))
			}
			if rng.Float64() < accept {
				logPost = proposed
			} else {
				theta[d] = old
			}

			if warming {
				// Robbins-Monro step-size adaptation toward the
				// target acceptance probability, frozen after warmup.
				eta := 1.0 / math.Sqrt(float64(it)+1)
				steps[d] *= math.Exp(eta * (accept - s.cfg.TargetAccept))
				if steps[d] < 1e-6 {
					steps[d] = 1e-6
				}
			}
		}

		if !warming {
			draws.intercept = append(draws.intercept, theta[0])
			for j := 0; j < k; j++ {
				draws.coefs[j] = append(draws.coefs[j], math.Exp(theta[1+j]))
			}
			draws.noise = append(draws.noise, math.Exp(theta[k+1]))
		}
	}

	return draws, nil
}

// initialPoint solves the ridge-stabilized normal equations and maps
// the solution into unconstrained space. Coefficients are floored at a
// small positive value since the model constrains them non-negative.
func initialPoint(x [][]float64, y []float64) []float64 {
	n := len(y)
	k := len(x[0])
	theta := make([]float64, k+2)

	design := mat.NewDense(n, k+1, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	for d := 0; d < k+1; d++ {
		xtx.Set(d, d, xtx.At(d, d)+1e-6)
	}
	var xty mat.VecDense
	xty.MulVec(design.T(), target)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		// Singular even with the ridge term; fall back to the prior-ish
		// starting point.
		for j := 1; j <= k; j++ {
			theta[j] = -1
		}
		return theta
	}

	theta[0] = beta.AtVec(0)
	for j := 0; j < k; j++ {
		theta[1+j] = math.Log(math.Max(beta.AtVec(j+1), 1e-2))
	}

	sse := 0.0
	for i, row := range x {
		mu := beta.AtVec(0)
		for j := 0; j < k; j++ {
			mu += math.Exp(theta[1+j]) * row[j]
		}
		r := y[i] - mu
		sse += r * r
	}
	theta[k+1] = math.Log(math.Max(math.Sqrt(sse/float64(n)), 1e-2))

	return theta
}

// logPosterior evaluates the unnormalized log posterior in
// unconstrained space, Jacobians included.
func (s *MCMCSampler) logPosterior(theta []float64, x [][]float64, y []float64) float64 {
	k := len(x[0])
	b0 := theta[0]
	logNoise := theta[k+1]
	sigma := math.Exp(logNoise)

	// Normal(0, interceptScale) prior on the intercept.
	is := s.cfg.InterceptPriorScale
	lp := -0.5 * (b0 / is) * (b0 / is)

	// HalfNormal(coefScale) priors via beta = exp(u): density term
	// -beta^2/(2 s^2) plus the log-Jacobian u.
	cs := s.cfg.CoefPriorScale
	betas := make([]float64, k)
	for j := 0; j < k; j++ {
		u := theta[1+j]
		beta := math.Exp(u)
		betas[j] = beta
		lp += -0.5*(beta/cs)*(beta/cs) + u
	}

	// HalfNormal(noiseScale) prior on sigma, same transform.
	ns := s.cfg.NoisePriorScale
	lp += -0.5*(sigma/ns)*(sigma/ns) + logNoise

	// Gaussian likelihood.
	sse := 0.0
	for i, row := range x {
		mu := b0
		for j := 0; j < k; j++ {
			mu += betas[j] * row[j]
		}
		r := y[i] - mu
		sse += r * r
	}
	n := float64(len(y))
	lp += -n*logNoise - sse/(2*sigma*sigma)

	return lp
}

// pool merges the chains' retained draws into posterior summaries.
func pool(chains []*chainDraws, k int) (*causal.Posterior, error) {
	var intercept, noise []float64
	coefs := make([][]float64, k)
	for _, c := range chains {
		intercept = append(intercept, c.intercept...)
		noise = append(noise, c.noise...)
		for j := 0; j < k; j++ {
			coefs[j] = append(coefs[j], c.coefs[j]...)
		}
	}

	post := &causal.Posterior{
		CoefMeans: make([]float64, k),
		CoefStds:  make([]float64, k),
	}

	var err error
	if post.InterceptMean, err = stats.Mean(intercept); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSamplingFailed, err)
	}
	if post.InterceptStd, err = stats.StandardDeviation(intercept); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSamplingFailed, err)
	}
	if post.NoiseMean, err = stats.Mean(noise); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSamplingFailed, err)
	}
	for j := 0; j < k; j++ {
		if post.CoefMeans[j], err = stats.Mean(coefs[j]); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrSamplingFailed, err)
		}
		if post.CoefStds[j], err = stats.StandardDeviation(coefs[j]); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrSamplingFailed, err)
		}
	}
	return post, nil
}
