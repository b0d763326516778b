package zne

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultMaxIterations caps the adaptive collection loop when no explicit
// bound is configured.
const DefaultMaxIterations = 100

// AdaptiveSampler decides the next sample point of an adaptive strategy
// from the history of results collected so far.
type AdaptiveSampler interface {
	// Next returns the measurement parameters for the next sample.
	Next() (Measurement, error)

	// IsConverged reports whether enough data has been collected.
	IsConverged() (bool, error)
}

// runAdaptiveClassical drives the shared adaptive collection loop: while
// the sampler has not converged and the iteration cap is not reached, ask
// for the next measurement, evaluate it, and push the pair. Hitting the cap
// while unconverged records a no-convergence advisory and returns normally
// with the partial data.
func runAdaptiveClassical(acc *Accumulator, sampler AdaptiveSampler, fn ClassicalFunc, maxIterations int) error {
	if fn == nil {
		return fmt.Errorf("zne: a classical evaluation function is required")
	}
	if maxIterations < 1 {
		return fmt.Errorf("zne: maxIterations must be at least 1, got %d", maxIterations)
	}
	acc.Reset()

	count := 0
	for {
		converged, err := sampler.IsConverged()
		if err != nil {
			return err
		}
		if converged {
			return nil
		}
		if count >= maxIterations {
			acc.warnings = append(acc.warnings, warnf(WarnNoConvergence,
				fmt.Sprintf("adaptive collection stopped before convergence: iteration cap (%d) reached", maxIterations)))
			return nil
		}

		m, err := sampler.Next()
		if err != nil {
			return err
		}
		v, err := fn(m.ScaleFactor, m.CallOptions())
		if err != nil {
			return fmt.Errorf("zne: classical evaluation at scale factor %v: %w", m.ScaleFactor, err)
		}
		acc.Push(m, v)
		count++
		logrus.Debugf("adaptive sample %d: scale factor %v -> %v", count, m.ScaleFactor, v)
	}
}

// averagingClassical wraps executor∘scale into a scale-factor-to-value
// function, averaging numToAverage independent noise-scaled executions per
// requested point. With a batch executor the repetitions are evaluated in
// one call.
func averagingClassical(circuit Circuit, executor Executor, scale NoiseScaler, numToAverage int) (ClassicalFunc, error) {
	if numToAverage < 1 {
		return nil, fmt.Errorf("zne: numToAverage must be at least 1, got %d", numToAverage)
	}
	if scale == nil {
		return nil, fmt.Errorf("zne: a noise scaler is required")
	}
	return func(scaleFactor float64, opts CallOptions) (float64, error) {
		circuits := make([]Circuit, numToAverage)
		optsList := make([]CallOptions, numToAverage)
		for k := 0; k < numToAverage; k++ {
			circuits[k] = scale(circuit, scaleFactor)
			optsList[k] = opts
		}
		values, err := executor.execute(circuits, optsList)
		if err != nil {
			return 0, err
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	}, nil
}
