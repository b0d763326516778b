package zne

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Batched is the collection strategy that knows its full set of scale
// factors up front. Circuits for all scale factors can therefore be
// generated eagerly and, with a batch executor, evaluated in a single call.
type Batched struct {
	Accumulator

	model        ExtrapolationModel
	scaleFactors []float64
	shots        []int
}

// NewBatched constructs a batched strategy bound to the given extrapolation
// model. scaleFactors must contain at least 2 entries. shots is optional;
// when non-nil it must have the same length as scaleFactors and contain
// only positive counts.
func NewBatched(model ExtrapolationModel, scaleFactors []float64, shots []int) (*Batched, error) {
	if model == nil {
		return nil, fmt.Errorf("zne: an extrapolation model is required")
	}
	if len(scaleFactors) < 2 {
		return nil, fmt.Errorf("zne: at least 2 scale factors are necessary, got %d", len(scaleFactors))
	}
	if shots != nil {
		if len(shots) != len(scaleFactors) {
			return nil, fmt.Errorf("zne: scale factors and shots must have the same length, got %d and %d",
				len(scaleFactors), len(shots))
		}
		for i, s := range shots {
			if s <= 0 {
				return nil, fmt.Errorf("zne: shots[%d] must be a positive integer, got %d", i, s)
			}
		}
	}
	if v, ok := model.(configValidator); ok {
		if err := v.validateConfig(scaleFactors); err != nil {
			return nil, err
		}
	}

	b := &Batched{
		model:        model,
		scaleFactors: append([]float64(nil), scaleFactors...),
	}
	if shots != nil {
		b.shots = append([]int(nil), shots...)
	}
	return b, nil
}

// ConfiguredScaleFactors returns the scale factors the strategy was
// constructed with (as opposed to Accumulator.ScaleFactors, which reflects
// collected data).
func (b *Batched) ConfiguredScaleFactors() []float64 {
	return append([]float64(nil), b.scaleFactors...)
}

// measurement builds the instack record for scale factor index i.
func (b *Batched) measurement(i int) Measurement {
	m := Measurement{ScaleFactor: b.scaleFactors[i]}
	if b.shots != nil {
		m.Shots = b.shots[i]
	}
	return m
}

// Run generates numToAverage noise-scaled circuit instances per scale
// factor (in scale-factor-major order), evaluates them through the
// executor, and stores the row-wise averages as one expectation value per
// scale factor.
func (b *Batched) Run(circuit Circuit, executor Executor, scale NoiseScaler, numToAverage int) error {
	if numToAverage < 1 {
		return fmt.Errorf("zne: numToAverage must be at least 1, got %d", numToAverage)
	}
	if scale == nil {
		return fmt.Errorf("zne: a noise scaler is required")
	}
	b.Reset()

	circuits := make([]Circuit, 0, len(b.scaleFactors)*numToAverage)
	opts := make([]CallOptions, 0, len(b.scaleFactors)*numToAverage)
	for i, sf := range b.scaleFactors {
		m := b.measurement(i)
		for k := 0; k < numToAverage; k++ {
			circuits = append(circuits, scale(circuit, sf))
			opts = append(opts, m.CallOptions())
		}
	}

	logrus.Infof("executing %d noise-scaled circuits (%d scale factors x %d repetitions, batched=%v)",
		len(circuits), len(b.scaleFactors), numToAverage, executor.Batched())

	values, err := executor.execute(circuits, opts)
	if err != nil {
		return err
	}

	// One row of numToAverage repetitions per scale factor, averaged.
	for i := range b.scaleFactors {
		row := values[i*numToAverage : (i+1)*numToAverage]
		b.Push(b.measurement(i), stat.Mean(row, nil))
	}
	return nil
}

// RunClassical evaluates fn once per configured scale factor and stores the
// returned values.
func (b *Batched) RunClassical(fn ClassicalFunc) error {
	if fn == nil {
		return fmt.Errorf("zne: a classical evaluation function is required")
	}
	b.Reset()
	for i, sf := range b.scaleFactors {
		m := b.measurement(i)
		v, err := fn(sf, m.CallOptions())
		if err != nil {
			return fmt.Errorf("zne: classical evaluation at scale factor %v: %w", sf, err)
		}
		b.Push(m, v)
	}
	return nil
}

// Reduce fits the bound model to the accumulated data and returns the
// zero-noise limit.
func (b *Batched) Reduce() (float64, error) {
	res, err := b.model.Extrapolate(b.ScaleFactors(), b.ExpectationValues())
	if err != nil {
		return 0, err
	}
	b.storeFit(res)
	logrus.Infof("zero-noise limit: %v (model %T, %d data points)", res.Limit, b.model, b.Len())
	return res.Limit, nil
}

// Equal extends accumulator equality with closeness of the configured scale
// factors and equality of the shot configuration.
func (b *Batched) Equal(other *Batched) bool {
	if !b.Accumulator.Equal(&other.Accumulator) {
		return false
	}
	if len(b.scaleFactors) != len(other.scaleFactors) {
		return false
	}
	if !floats.EqualApprox(b.scaleFactors, other.scaleFactors, closeTol) {
		return false
	}
	if len(b.shots) != len(other.shots) {
		return false
	}
	for i := range b.shots {
		if b.shots[i] != other.shots[i] {
			return false
		}
	}
	return true
}

var _ Strategy = (*Batched)(nil)
