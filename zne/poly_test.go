package zne

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModel_ExactLine(t *testing.T) {
	// GIVEN data on the line y = 1 - 0.2x
	sf := []float64{1, 2, 3}
	ys := []float64{0.8, 0.6, 0.4}

	// WHEN extrapolating linearly
	res, err := LinearModel{}.Extrapolate(sf, ys)
	require.NoError(t, err)

	// THEN the limit is the intercept and the curve reproduces the data
	assert.InDelta(t, 1.0, res.Limit, 1e-8)
	assert.InDelta(t, 1.0, res.Curve(0), 1e-8)
	assert.InDelta(t, 0.6, res.Curve(2), 1e-8)
}

func TestPolyModel_QuadraticExact(t *testing.T) {
	// y = 2 - x + 0.5x^2
	sf := []float64{1, 2, 3}
	ys := []float64{1.5, 2.0, 3.5}

	res, err := PolyModel{Order: 2}.Extrapolate(sf, ys)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Limit, 1e-8)
	require.Len(t, res.Params, 3)
	assert.InDelta(t, -1.0, res.Params[1], 1e-8)
	assert.InDelta(t, 0.5, res.Params[2], 1e-8)
}

func TestPolyModel_OrderTooHigh_Error(t *testing.T) {
	_, err := PolyModel{Order: 3}.Extrapolate([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestPolyModel_NegativeOrder_Error(t *testing.T) {
	_, err := PolyModel{Order: -1}.Extrapolate([]float64{1, 2}, []float64{1, 2})
	assert.Error(t, err)
}

func TestPolyModel_LengthMismatch_Error(t *testing.T) {
	_, err := PolyModel{Order: 1}.Extrapolate([]float64{1, 2, 3}, []float64{1, 2})
	assert.Error(t, err)
}

func TestPolyModel_LimitErrFromOverdeterminedFit(t *testing.T) {
	// 5 noisy points, degree 1: the covariance is estimable and the limit
	// uncertainty is the square root of its (0,0) entry.
	sf := []float64{1, 2, 3, 4, 5}
	ys := []float64{0.81, 0.59, 0.42, 0.18, 0.02}

	res, err := PolyModel{Order: 1}.Extrapolate(sf, ys)
	require.NoError(t, err)
	require.NotNil(t, res.Cov)
	assert.InDelta(t, math.Sqrt(res.Cov.At(0, 0)), res.LimitErr, 1e-12)
	assert.Greater(t, res.LimitErr, 0.0)
}

func TestRichardsonModel_InterpolatesExactly(t *testing.T) {
	// GIVEN three points of a quadratic
	sf := []float64{1, 2, 3}
	ys := []float64{1.5, 2.0, 3.5}

	// WHEN Richardson extrapolating (maximal order)
	res, err := RichardsonModel{}.Extrapolate(sf, ys)
	require.NoError(t, err)

	// THEN the curve passes through every data point and the limit is the
	// quadratic's value at zero
	assert.InDelta(t, 2.0, res.Limit, 1e-8)
	for i, x := range sf {
		assert.InDelta(t, ys[i], res.Curve(x), 1e-8)
	}
}

func TestRichardsonModel_NoUncertainty(t *testing.T) {
	// A maximal-order fit leaves no residual degrees of freedom, so there
	// is never a covariance or an uncertainty estimate.
	res, err := RichardsonModel{}.Extrapolate([]float64{1, 2, 3, 4}, []float64{0.9, 0.7, 0.6, 0.55})
	require.NoError(t, err)
	assert.Nil(t, res.Cov)
	assert.True(t, math.IsNaN(res.LimitErr))
}

func TestLinearModel_TwoPoints(t *testing.T) {
	res, err := LinearModel{}.Extrapolate([]float64{1, 3}, []float64{0.8, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Limit, 1e-8)
}
