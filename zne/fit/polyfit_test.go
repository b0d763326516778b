package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoly_LinearData_ExactCoefficients(t *testing.T) {
	// GIVEN data on the line y = 1 + 2x
	xs := []float64{1, 2, 3}
	ys := []float64{3, 5, 7}

	// WHEN a degree-1 polynomial is fitted
	res, err := Poly(xs, ys, 1, nil)
	require.NoError(t, err)

	// THEN the ascending coefficients are recovered exactly
	require.Len(t, res.Params, 2)
	assert.InDelta(t, 1.0, res.Params[0], 1e-10)
	assert.InDelta(t, 2.0, res.Params[1], 1e-10)
	assert.Empty(t, res.Warnings)
}

func TestPoly_QuadraticData_ExactInterpolation(t *testing.T) {
	// GIVEN data on y = 2 - x + 0.5x^2
	xs := []float64{1, 2, 3}
	ys := []float64{1.5, 2.0, 3.5}

	// WHEN the maximal-degree polynomial is fitted
	res, err := Poly(xs, ys, 2, nil)
	require.NoError(t, err)

	// THEN the interpolation reproduces the generating coefficients
	require.Len(t, res.Params, 3)
	assert.InDelta(t, 2.0, res.Params[0], 1e-9)
	assert.InDelta(t, -1.0, res.Params[1], 1e-9)
	assert.InDelta(t, 0.5, res.Params[2], 1e-9)
}

func TestPoly_DegreeExceedsData_Error(t *testing.T) {
	_, err := Poly([]float64{1, 2}, []float64{1, 2}, 2, nil)
	assert.Error(t, err)
}

func TestPoly_MismatchedLengths_Error(t *testing.T) {
	_, err := Poly([]float64{1, 2, 3}, []float64{1, 2}, 1, nil)
	assert.Error(t, err)
}

func TestPoly_CovarianceOnlyWhenOverdetermined(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{3.1, 4.9, 7.05, 8.95, 11.0}

	// 5 points, degree 1: n > degree+2, covariance is estimable.
	res, err := Poly(xs, ys, 1, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Cov)
	assert.Equal(t, 2, res.Cov.SymmetricDim())
	assert.Greater(t, res.Cov.At(0, 0), 0.0)

	// 3 points, degree 1: n == degree+2, covariance is not estimable
	// but the fit itself still succeeds.
	res, err = Poly(xs[:3], ys[:3], 1, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Cov)
	assert.Empty(t, res.Warnings)
}

func TestPoly_RankDeficient_Warns(t *testing.T) {
	// GIVEN duplicated x positions that cannot determine a quadratic
	xs := []float64{1, 1, 2}
	ys := []float64{2, 2, 3}

	// WHEN a degree-2 polynomial is fitted
	res, err := Poly(xs, ys, 2, nil)

	// THEN the fit succeeds with an ill-conditioning warning
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)
}

func TestPoly_WeightedFit_ExactData(t *testing.T) {
	// Weights must not perturb an exact fit.
	xs := []float64{1, 2, 3, 4}
	ys := []float64{3, 5, 7, 9}
	weights := []float64{1, 0.5, 2, 1.5}

	res, err := Poly(xs, ys, 1, weights)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Params[0], 1e-9)
	assert.InDelta(t, 2.0, res.Params[1], 1e-9)
}

func TestPolyval_AscendingCoefficients(t *testing.T) {
	// 2 - x + 0.5x^2 at x = 3
	got := Polyval([]float64{2, -1, 0.5}, 3)
	assert.InDelta(t, 3.5, got, 1e-12)

	// Empty coefficients evaluate to zero.
	assert.Equal(t, 0.0, Polyval(nil, 1.0))
}

func TestPoly_ConstantData_ZeroHigherCoefficients(t *testing.T) {
	xs := []float64{1, 2, 3}
	ys := []float64{0.7, 0.7, 0.7}

	res, err := Poly(xs, ys, 2, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, res.Params[0], 1e-9)
	assert.InDelta(t, 0.0, res.Params[1], 1e-9)
	assert.InDelta(t, 0.0, res.Params[2], 1e-9)
	assert.False(t, math.IsNaN(res.Params[0]))
}
