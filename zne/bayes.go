package zne

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	bayesDefaultSeed    uint64 = 20200527
	bayesDefaultSamples        = 20000
	bayesDefaultBurnIn         = 5000
	bayesProposalSigma         = 0.05
)

// BayesExpModel extrapolates with the exponential ansatz
//
//	y(x) = a + b*exp(-c*x)
//
// fitted by Bayesian posterior sampling instead of least squares. The
// priors are a, c ~ Uniform(0, 1), b ~ Uniform(-1, 1), and the observation
// noise eps ~ Uniform(0, 0.5) with a Normal likelihood around the ansatz.
//
// Posterior means of a, b and c become the point-estimate parameters; the
// posterior mean of eps is reported as the zero-noise-limit uncertainty. No
// covariance matrix is produced.
//
// The sampler is a Metropolis random walk over (a, b, c, eps), seeded
// deterministically so that repeated fits of the same data are reproducible.
type BayesExpModel struct {
	// Seed for the sampler; zero means a fixed default seed.
	Seed uint64
	// Samples is the total chain length; zero means the default 20000.
	Samples int
	// BurnIn is the number of initial samples discarded; zero means the
	// default 5000.
	BurnIn int
}

// Extrapolate samples the posterior of the exponential ansatz parameters
// and extrapolates to zero noise with their posterior means.
func (m BayesExpModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	if len(scaleFactors) != len(expValues) || len(scaleFactors) < 2 {
		return nil, fmt.Errorf("zne: data is not enough: at least two data points are necessary")
	}

	seed := m.Seed
	if seed == 0 {
		seed = bayesDefaultSeed
	}
	samples := m.Samples
	if samples == 0 {
		samples = bayesDefaultSamples
	}
	burnIn := m.BurnIn
	if burnIn == 0 {
		burnIn = bayesDefaultBurnIn
	}
	if burnIn >= samples {
		return nil, fmt.Errorf("zne: burn-in (%d) must be smaller than the number of samples (%d)", burnIn, samples)
	}

	rng := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))

	priors := [4]distuv.Uniform{
		{Min: 0, Max: 1, Src: rng},   // a
		{Min: -1, Max: 1, Src: rng},  // b
		{Min: 0, Max: 1, Src: rng},   // c
		{Min: 0, Max: 0.5, Src: rng}, // eps
	}

	logPosterior := func(state [4]float64) float64 {
		for i, p := range priors {
			if state[i] <= p.Min || state[i] >= p.Max {
				return math.Inf(-1)
			}
		}
		a, b, c, eps := state[0], state[1], state[2], state[3]
		var logp float64
		for i, x := range scaleFactors {
			lik := distuv.Normal{Mu: bayesExpAnsatz(a, b, c, x), Sigma: eps}
			logp += lik.LogProb(expValues[i])
		}
		return logp
	}

	// Start at the prior means.
	state := [4]float64{0.5, 0, 0.5, 0.25}
	logp := logPosterior(state)
	proposal := distuv.Normal{Mu: 0, Sigma: bayesProposalSigma, Src: rng}

	var sums [4]float64
	kept := 0
	for iter := 0; iter < samples; iter++ {
		candidate := state
		for i := range candidate {
			candidate[i] += proposal.Rand()
		}
		candLogp := logPosterior(candidate)
		if !math.IsInf(candLogp, -1) && candLogp-logp >= math.Log(rng.Float64()) {
			state = candidate
			logp = candLogp
		}
		if iter >= burnIn {
			for i := range sums {
				sums[i] += state[i]
			}
			kept++
		}
	}

	a := sums[0] / float64(kept)
	b := sums[1] / float64(kept)
	c := sums[2] / float64(kept)
	epsMean := sums[3] / float64(kept)

	return &FitResult{
		Limit:    bayesExpAnsatz(a, b, c, 0),
		LimitErr: epsMean,
		Params:   []float64{a, b, c},
		Cov:      nil,
		Curve: func(scaleFactor float64) float64 {
			return bayesExpAnsatz(a, b, c, scaleFactor)
		},
	}, nil
}

func bayesExpAnsatz(a, b, c, scaleFactor float64) float64 {
	return a + b*math.Exp(-c*scaleFactor)
}
