package zne

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_PhaseLifecycle(t *testing.T) {
	// GIVEN a fresh accumulator
	var acc Accumulator
	assert.Equal(t, PhaseEmpty, acc.Phase())
	assert.Equal(t, 0, acc.Len())

	// WHEN data is pushed
	acc.Push(Measurement{ScaleFactor: 1}, 0.9)
	acc.Push(Measurement{ScaleFactor: 3}, 0.7)

	// THEN the accumulator is collecting, in order
	assert.Equal(t, PhaseCollecting, acc.Phase())
	assert.Equal(t, []float64{1, 3}, acc.ScaleFactors())
	assert.Equal(t, []float64{0.9, 0.7}, acc.ExpectationValues())

	// WHEN a fit is stored
	acc.storeFit(&FitResult{Limit: 1.0, LimitErr: math.NaN(), Params: []float64{1.0, -0.1}})

	// THEN the accumulator is reduced and exposes the cached outputs
	assert.Equal(t, PhaseReduced, acc.Phase())
	limit, err := acc.ZeroNoiseLimit()
	require.NoError(t, err)
	assert.Equal(t, 1.0, limit)
	params, err := acc.OptimalParameters()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, -0.1}, params)
}

func TestAccumulator_AccessorsBeforeReduce_ErrDataMissing(t *testing.T) {
	var acc Accumulator
	acc.Push(Measurement{ScaleFactor: 1}, 0.9)

	_, err := acc.ZeroNoiseLimit()
	assert.ErrorIs(t, err, ErrDataMissing)
	_, err = acc.ZeroNoiseLimitError()
	assert.ErrorIs(t, err, ErrDataMissing)
	_, err = acc.OptimalParameters()
	assert.ErrorIs(t, err, ErrDataMissing)
	_, err = acc.ParametersCovariance()
	assert.ErrorIs(t, err, ErrDataMissing)
	_, err = acc.ExtrapolationCurve()
	assert.ErrorIs(t, err, ErrDataMissing)
}

func TestAccumulator_NaNLimitError_ErrDataMissing(t *testing.T) {
	// A fit without an uncertainty estimate stores NaN; the accessor turns
	// that into ErrDataMissing rather than leaking the sentinel.
	var acc Accumulator
	acc.Push(Measurement{ScaleFactor: 1}, 0.9)
	acc.storeFit(&FitResult{Limit: 1.0, LimitErr: math.NaN()})

	_, err := acc.ZeroNoiseLimitError()
	assert.ErrorIs(t, err, ErrDataMissing)
}

func TestAccumulator_PushAfterReduce_WarnsStale(t *testing.T) {
	// GIVEN a reduced accumulator
	var acc Accumulator
	acc.Push(Measurement{ScaleFactor: 1}, 0.9)
	acc.storeFit(&FitResult{Limit: 1.0, LimitErr: math.NaN()})

	// WHEN more data arrives
	acc.Push(Measurement{ScaleFactor: 2}, 0.8)

	// THEN a stale-reduction advisory is recorded, the pair is kept, and
	// the phase drops back to collecting
	assert.Equal(t, PhaseCollecting, acc.Phase())
	assert.Equal(t, 2, acc.Len())
	warnings := acc.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnStaleReduction, warnings[0].Kind)
}

func TestAccumulator_Reset(t *testing.T) {
	var acc Accumulator
	acc.Push(Measurement{ScaleFactor: 1}, 0.9)
	acc.storeFit(&FitResult{Limit: 1.0, LimitErr: math.NaN()})
	acc.Push(Measurement{ScaleFactor: 2}, 0.8)

	acc.Reset()

	assert.Equal(t, PhaseEmpty, acc.Phase())
	assert.Equal(t, 0, acc.Len())
	assert.Empty(t, acc.Warnings())
	_, err := acc.ZeroNoiseLimit()
	assert.ErrorIs(t, err, ErrDataMissing)
}

func TestAccumulator_Equal(t *testing.T) {
	var a, b Accumulator
	a.Push(Measurement{ScaleFactor: 1, Shots: 100}, 0.9)
	b.Push(Measurement{ScaleFactor: 1, Shots: 100}, 0.9)
	assert.True(t, a.Equal(&b))

	// Numerically close data still compares equal.
	var c Accumulator
	c.Push(Measurement{ScaleFactor: 1, Shots: 100}, 0.9+1e-12)
	assert.True(t, a.Equal(&c))

	// Different reduced-ness breaks equality.
	b.storeFit(&FitResult{Limit: 1.0, LimitErr: math.NaN()})
	assert.False(t, a.Equal(&b))

	// Different data breaks equality.
	var d Accumulator
	d.Push(Measurement{ScaleFactor: 2, Shots: 100}, 0.9)
	assert.False(t, a.Equal(&d))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "empty", PhaseEmpty.String())
	assert.Equal(t, "collecting", PhaseCollecting.String())
	assert.Equal(t, "reduced", PhaseReduced.String())
}
