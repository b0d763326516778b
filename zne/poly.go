package zne

import (
	"fmt"
	"math"

	"github.com/zne-sim/zne-sim/zne/fit"
)

// PolyModel extrapolates with a polynomial ansatz of the configured order.
// The zero-noise limit is the fitted polynomial evaluated at zero, i.e. its
// constant coefficient.
type PolyModel struct {
	// Order is the degree of the polynomial fit. It cannot exceed the
	// number of scale factors minus 1.
	Order int
}

func (m PolyModel) validateConfig(scaleFactors []float64) error {
	if m.Order < 0 {
		return fmt.Errorf("zne: the extrapolation order must be non-negative, got %d", m.Order)
	}
	if m.Order > len(scaleFactors)-1 {
		return fmt.Errorf("zne: the extrapolation order (%d) cannot exceed the number of scale factors (%d) minus 1",
			m.Order, len(scaleFactors))
	}
	return nil
}

// Extrapolate fits a polynomial of degree Order to the data and evaluates
// it at zero.
func (m PolyModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	if len(scaleFactors) != len(expValues) {
		return nil, fmt.Errorf("zne: %d scale factors but %d expectation values", len(scaleFactors), len(expValues))
	}
	if err := m.validateConfig(scaleFactors); err != nil {
		return nil, err
	}

	res, err := fit.Poly(scaleFactors, expValues, m.Order, nil)
	if err != nil {
		return nil, err
	}

	coeffs := res.Params
	limitErr := math.NaN()
	if res.Cov != nil && res.Cov.SymmetricDim() == m.Order+1 {
		limitErr = math.Sqrt(res.Cov.At(0, 0))
	}

	return &FitResult{
		Limit:    coeffs[0],
		LimitErr: limitErr,
		Params:   coeffs,
		Cov:      res.Cov,
		Curve: func(scaleFactor float64) float64 {
			return fit.Polyval(coeffs, scaleFactor)
		},
		Warnings: fitWarnings(res.Warnings),
	}, nil
}

// RichardsonModel is the polynomial model with maximal order: with n data
// points it fits the unique degree-(n-1) interpolating polynomial.
type RichardsonModel struct{}

// Extrapolate performs Richardson extrapolation on the data.
func (RichardsonModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	return PolyModel{Order: len(scaleFactors) - 1}.Extrapolate(scaleFactors, expValues)
}

// LinearModel is the polynomial model of order 1.
type LinearModel struct{}

// Extrapolate fits a line to the data and evaluates it at zero.
func (LinearModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	return PolyModel{Order: 1}.Extrapolate(scaleFactors, expValues)
}

func (LinearModel) validateConfig(scaleFactors []float64) error {
	return PolyModel{Order: 1}.validateConfig(scaleFactors)
}
