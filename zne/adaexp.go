package zne

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// adaExpShiftFactor tunes how far beyond 1.0 the next scale factor is
	// placed relative to the fitted decay exponent.
	adaExpShiftFactor = 1.27846
	adaExpEpsilon     = 1e-9

	// DefaultAdaExpScaleFactor is the second scale factor probed by the
	// adaptive exponential strategy (the first is always 1.0).
	DefaultAdaExpScaleFactor = 2.0
	// DefaultAdaExpMaxScaleFactor caps adaptively chosen scale factors.
	DefaultAdaExpMaxScaleFactor = 6.0
)

// AdaExpConfig groups the construction parameters of AdaExp.
type AdaExpConfig struct {
	// Steps is the number of data points to collect. At least 3 are
	// necessary, or 4 when Asymptote is nil.
	Steps int
	// ScaleFactor is the second probed scale factor; the first is always
	// 1.0. Must be > 1. Zero means the default 2.0.
	ScaleFactor float64
	// MaxScaleFactor caps adaptively chosen scale factors. Must be > 1.
	// Zero means the default 6.0.
	MaxScaleFactor float64
	// Asymptote is the known infinite-noise limit, or nil when unknown.
	Asymptote *float64
	// AvoidLog forces a nonlinear fit even when the asymptote is known.
	AvoidLog bool
	// MaxIterations caps the collection loop. Zero means the default 100.
	MaxIterations int
}

// AdaExp is the adaptive collection strategy bound to the exponential
// ansatz y(x) = a + b*exp(-c*x). Scale factors are chosen one at a time
// from the history of results: after enough points exist, the exponent of a
// probe fit determines where sampling is most informative.
type AdaExp struct {
	Accumulator

	steps          int
	scaleFactor    float64
	maxScaleFactor float64
	asymptote      *float64
	avoidLog       bool
	maxIterations  int

	// history is append-only across runs: one entry per completed fit.
	history []HistoryEntry
}

// NewAdaExp constructs an adaptive exponential strategy.
func NewAdaExp(cfg AdaExpConfig) (*AdaExp, error) {
	scaleFactor := cfg.ScaleFactor
	if scaleFactor == 0 {
		scaleFactor = DefaultAdaExpScaleFactor
	}
	maxScaleFactor := cfg.MaxScaleFactor
	if maxScaleFactor == 0 {
		maxScaleFactor = DefaultAdaExpMaxScaleFactor
	}
	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = DefaultMaxIterations
	}

	if scaleFactor <= 1 {
		return nil, fmt.Errorf("zne: the scale factor must be strictly larger than one, got %v", scaleFactor)
	}
	if maxScaleFactor <= 1 {
		return nil, fmt.Errorf("zne: the maximum scale factor must be strictly larger than one, got %v", maxScaleFactor)
	}
	minSteps := 3
	if cfg.Asymptote == nil {
		minSteps = 4
	}
	if cfg.Steps < minSteps {
		return nil, fmt.Errorf("zne: steps must be at least 3, or at least 4 when the asymptote is unknown; got %d", cfg.Steps)
	}

	return &AdaExp{
		steps:          cfg.Steps,
		scaleFactor:    scaleFactor,
		maxScaleFactor: maxScaleFactor,
		asymptote:      cfg.Asymptote,
		avoidLog:       cfg.AvoidLog,
		maxIterations:  maxIterations,
	}, nil
}

// model returns the bound exponential extrapolation model.
func (f *AdaExp) model() ExpModel {
	return ExpModel{Asymptote: f.asymptote, AvoidLog: f.avoidLog}
}

// Next decides the next scale factor from the history of results. The
// first point is always 1.0, the second the configured scale factor; when
// the asymptote is unknown a third point at twice the configured scale
// factor is forced. Every later point comes from a probe fit: the smaller
// the fitted decay exponent, the further out the next sample is placed,
// capped at the maximum scale factor.
func (f *AdaExp) Next() (Measurement, error) {
	switch n := len(f.instack); {
	case n == 0:
		return Measurement{ScaleFactor: 1.0}, nil
	case n == 1:
		return Measurement{ScaleFactor: f.scaleFactor}, nil
	case n == 2 && f.asymptote == nil:
		return Measurement{ScaleFactor: 2 * f.scaleFactor}, nil
	}

	if _, err := f.reduce(true); err != nil {
		return Measurement{}, err
	}
	params := f.history[len(f.history)-1].Params
	exponent := params[2]

	next := math.Min(1.0+adaExpShiftFactor/(math.Abs(exponent)+adaExpEpsilon), f.maxScaleFactor)
	return Measurement{ScaleFactor: next}, nil
}

// IsConverged reports whether the configured number of points has been
// collected. It fails if the input and output stacks have diverged.
func (f *AdaExp) IsConverged() (bool, error) {
	if len(f.instack) != len(f.outstack) {
		return false, fmt.Errorf("zne: the lengths of the input stack (%d) and the output stack (%d) must be equal",
			len(f.instack), len(f.outstack))
	}
	return len(f.outstack) == f.steps, nil
}

// RunClassical collects expectation values adaptively by evaluating fn at
// each chosen scale factor until convergence or the iteration cap.
func (f *AdaExp) RunClassical(fn ClassicalFunc) error {
	return runAdaptiveClassical(&f.Accumulator, f, fn, f.maxIterations)
}

// Run collects expectation values adaptively by executing noise-scaled
// variants of the circuit, averaging numToAverage executions per point.
func (f *AdaExp) Run(circuit Circuit, executor Executor, scale NoiseScaler, numToAverage int) error {
	fn, err := averagingClassical(circuit, executor, scale, numToAverage)
	if err != nil {
		return err
	}
	return runAdaptiveClassical(&f.Accumulator, f, fn, f.maxIterations)
}

// Reduce fits the exponential model to the accumulated data, caches the fit
// outputs, appends an optimization-history entry, and returns the
// zero-noise limit.
func (f *AdaExp) Reduce() (float64, error) {
	return f.reduce(false)
}

// reduce performs the fit. A probe fit (used internally by Next) records
// history and caches the result but keeps the accumulator in the collecting
// phase and discards intermediate ill-conditioning warnings.
func (f *AdaExp) reduce(probe bool) (float64, error) {
	res, err := f.model().Extrapolate(f.ScaleFactors(), f.ExpectationValues())
	if err != nil {
		return 0, err
	}

	f.history = append(f.history, HistoryEntry{
		Measurements: f.Measurements(),
		Values:       f.ExpectationValues(),
		Params:       append([]float64(nil), res.Params...),
		Limit:        res.Limit,
	})

	if probe {
		res.Warnings = nil
		f.fit = res
		f.phase = PhaseCollecting
		return res.Limit, nil
	}
	f.storeFit(res)
	return res.Limit, nil
}

// History returns the append-only optimization log: one entry per completed
// fit, including the probe fits that steer the scale-factor choice. Reset
// does not clear it.
func (f *AdaExp) History() []HistoryEntry {
	out := make([]HistoryEntry, len(f.history))
	copy(out, f.history)
	return out
}

// Equal reports whether two adaptive exponential strategies have the same
// configuration and numerically close collected data.
func (f *AdaExp) Equal(other *AdaExp) bool {
	if f.steps != other.steps || f.avoidLog != other.avoidLog {
		return false
	}
	if !scalar.EqualWithinAbsOrRel(f.scaleFactor, other.scaleFactor, closeTol, closeTol) {
		return false
	}
	if !scalar.EqualWithinAbsOrRel(f.maxScaleFactor, other.maxScaleFactor, closeTol, closeTol) {
		return false
	}
	if (f.asymptote == nil) != (other.asymptote == nil) {
		return false
	}
	if f.asymptote != nil && !scalar.EqualWithinAbsOrRel(*f.asymptote, *other.asymptote, closeTol, closeTol) {
		return false
	}
	return f.Accumulator.Equal(&other.Accumulator)
}

var _ Strategy = (*AdaExp)(nil)
var _ AdaptiveSampler = (*AdaExp)(nil)
