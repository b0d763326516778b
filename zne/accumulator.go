package zne

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Phase is the lifecycle state of an Accumulator.
type Phase int

const (
	// PhaseEmpty: no data collected yet.
	PhaseEmpty Phase = iota
	// PhaseCollecting: data collected, no up-to-date fit cached.
	PhaseCollecting
	// PhaseReduced: a fit has been computed from the current data.
	PhaseReduced
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseCollecting:
		return "collecting"
	case PhaseReduced:
		return "reduced"
	}
	return "unknown"
}

// FitResult holds every output of one extrapolation fit.
type FitResult struct {
	// Limit is the extrapolated zero-noise limit.
	Limit float64
	// LimitErr is the propagated uncertainty of Limit, or NaN when it
	// cannot be estimated. It reflects only the model's ability to fit
	// the measured data, so it may underestimate the distance to the true
	// noise-free expectation value.
	LimitErr float64
	// Params are the optimal model parameters.
	Params []float64
	// Cov is the parameter covariance matrix, or nil when not estimable.
	Cov *mat.SymDense
	// Curve maps a scale factor to the fitted expectation value. It
	// equals Limit at zero.
	Curve func(scaleFactor float64) float64
	// Warnings lists non-fatal fit degradations.
	Warnings []Warning
}

// Accumulator owns the ordered stacks of measurement requests and measured
// expectation values for one mitigation session, plus the cached fit
// outputs of the most recent Reduce.
//
// Not safe for concurrent use: each Accumulator is exclusively owned by one
// caller for the duration of a session.
type Accumulator struct {
	instack  []Measurement
	outstack []float64
	fit      *FitResult
	phase    Phase
	warnings []Warning
}

// Len returns the number of collected (measurement, value) pairs.
func (a *Accumulator) Len() int {
	return len(a.outstack)
}

// Phase returns the lifecycle state of the accumulator.
func (a *Accumulator) Phase() Phase {
	return a.phase
}

// ScaleFactors returns the scale factors at which expectation values have
// been requested, in collection order.
func (a *Accumulator) ScaleFactors() []float64 {
	out := make([]float64, len(a.instack))
	for i, m := range a.instack {
		out[i] = m.ScaleFactor
	}
	return out
}

// ExpectationValues returns the collected expectation values, in collection
// order.
func (a *Accumulator) ExpectationValues() []float64 {
	out := make([]float64, len(a.outstack))
	copy(out, a.outstack)
	return out
}

// Measurements returns a copy of the collected measurement records.
func (a *Accumulator) Measurements() []Measurement {
	out := make([]Measurement, len(a.instack))
	copy(out, a.instack)
	return out
}

// OptimalParameters returns the model parameters of the cached fit.
// It fails with ErrDataMissing before the first Reduce.
func (a *Accumulator) OptimalParameters() ([]float64, error) {
	if a.fit == nil || a.fit.Params == nil {
		return nil, ErrDataMissing
	}
	out := make([]float64, len(a.fit.Params))
	copy(out, a.fit.Params)
	return out, nil
}

// ParametersCovariance returns the parameter covariance matrix of the
// cached fit. It fails with ErrDataMissing when no covariance was produced.
func (a *Accumulator) ParametersCovariance() (*mat.SymDense, error) {
	if a.fit == nil || a.fit.Cov == nil {
		return nil, ErrDataMissing
	}
	return a.fit.Cov, nil
}

// ZeroNoiseLimit returns the most recent zero-noise limit computed by
// Reduce. It fails with ErrDataMissing before the first Reduce.
func (a *Accumulator) ZeroNoiseLimit() (float64, error) {
	if a.fit == nil {
		return 0, ErrDataMissing
	}
	return a.fit.Limit, nil
}

// ZeroNoiseLimitError returns the propagated uncertainty of the zero-noise
// limit. It fails with ErrDataMissing when the fit produced no uncertainty
// estimate.
func (a *Accumulator) ZeroNoiseLimitError() (float64, error) {
	if a.fit == nil || math.IsNaN(a.fit.LimitErr) {
		return 0, ErrDataMissing
	}
	return a.fit.LimitErr, nil
}

// ExtrapolationCurve returns the fitted curve mapping a scale factor to an
// expectation value. It fails with ErrDataMissing before the first Reduce.
func (a *Accumulator) ExtrapolationCurve() (func(float64) float64, error) {
	if a.fit == nil || a.fit.Curve == nil {
		return nil, ErrDataMissing
	}
	return a.fit.Curve, nil
}

// Warnings returns the session log of non-fatal diagnostics recorded since
// the last Reset.
func (a *Accumulator) Warnings() []Warning {
	out := make([]Warning, len(a.warnings))
	copy(out, a.warnings)
	return out
}

// Push appends one (measurement, value) pair. Pushing after Reduce records
// a stale-reduction advisory and moves the accumulator back to the
// collecting phase; the pair is appended regardless.
func (a *Accumulator) Push(m Measurement, value float64) {
	if a.phase == PhaseReduced {
		a.warnings = append(a.warnings, warnf(WarnStaleReduction,
			"new data pushed after reduce: the cached zero-noise limit is stale until Reduce is called again (or use Reset to start over)"))
	}
	a.instack = append(a.instack, m)
	a.outstack = append(a.outstack, value)
	a.phase = PhaseCollecting
}

// Reset clears all accumulated data, cached fit outputs and recorded
// warnings. Model and strategy configuration is untouched.
func (a *Accumulator) Reset() {
	a.instack = nil
	a.outstack = nil
	a.fit = nil
	a.warnings = nil
	a.phase = PhaseEmpty
}

// storeFit caches the outputs of a completed fit and moves the accumulator
// to the reduced phase. Fit warnings are appended to the session log.
func (a *Accumulator) storeFit(res *FitResult) {
	a.fit = res
	a.warnings = append(a.warnings, res.Warnings...)
	a.phase = PhaseReduced
}

// Equal reports whether two accumulators hold numerically close data: the
// same reduced-ness, pairwise-close measurement records, and pairwise-close
// expectation values.
func (a *Accumulator) Equal(other *Accumulator) bool {
	if (a.phase == PhaseReduced) != (other.phase == PhaseReduced) {
		return false
	}
	if len(a.instack) != len(other.instack) {
		return false
	}
	for i := range a.instack {
		if !a.instack[i].close(other.instack[i]) {
			return false
		}
	}
	if len(a.outstack) != len(other.outstack) {
		return false
	}
	if len(a.outstack) == 0 {
		return true
	}
	return floats.EqualApprox(a.outstack, other.outstack, closeTol)
}
