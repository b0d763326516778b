package zne

import (
	"errors"
	"fmt"
	"math"

	"github.com/zne-sim/zne-sim/zne/fit"
)

// defaultLogEps regularizes the logarithm of the asymptote-shifted values
// when an entry is zero or has the wrong sign.
const defaultLogEps = 1e-6

// PolyExpModel extrapolates with an almost-exponential ansatz whose
// exponent is a polynomial:
//
//	y(x) = a + sign * exp(z(x)),   z a degree-Order polynomial, z(x→∞) → -∞
//
// so that y(x→∞) → a, the infinite-noise asymptote. The sign (+1 for a
// decreasing exponential, -1 for an increasing one) is inferred from the
// slope of a preliminary linear fit. Note the linear pre-fit is used even
// for Order > 1, so strongly non-monotonic data may get the wrong sign.
//
// Three fitting modes:
//   - Asymptote unknown: nonlinear fit of the full ansatz.
//   - Asymptote known, AvoidLog: nonlinear fit of the shifted ansatz.
//   - Asymptote known, !AvoidLog: the model is linearized through
//     z(x) = log(sign*(y-asymptote)) and fitted by weighted polynomial
//     least squares.
type PolyExpModel struct {
	// Order is the degree of the exponent polynomial z(x). It cannot
	// exceed len(scaleFactors)-1, or len(scaleFactors)-2 when the
	// asymptote is unknown.
	Order int
	// Asymptote is the known infinite-noise limit, or nil when unknown.
	Asymptote *float64
	// AvoidLog forces a nonlinear fit even when the asymptote is known.
	AvoidLog bool
	// LogEps regularizes the log transform; zero means the default 1e-6.
	LogEps float64
}

func (m PolyExpModel) shift() int {
	if m.Asymptote == nil {
		return 1
	}
	return 0
}

func (m PolyExpModel) validateConfig(scaleFactors []float64) error {
	if m.Order < 1 {
		return fmt.Errorf("zne: the exponent polynomial order must be at least 1, got %d", m.Order)
	}
	if m.Order > len(scaleFactors)-(1+m.shift()) {
		return fmt.Errorf("zne: extrapolation order is too high: the order cannot exceed the number of data points minus %d",
			1+m.shift())
	}
	return nil
}

// Extrapolate fits the poly-exponential ansatz to the data.
func (m PolyExpModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	if len(scaleFactors) != len(expValues) || len(scaleFactors) < 2 {
		return nil, fmt.Errorf("zne: data is not enough: at least two data points are necessary")
	}
	if err := m.validateConfig(scaleFactors); err != nil {
		return nil, err
	}

	logEps := m.LogEps
	if logEps == 0 {
		logEps = defaultLogEps
	}

	// Deduce the sign of the exponential from a linear pre-fit.
	lin, err := fit.Poly(scaleFactors, expValues, 1, nil)
	if err != nil {
		return nil, err
	}
	var sign float64
	switch slope := lin.Params[1]; {
	case slope < 0:
		sign = 1
	case slope > 0:
		sign = -1
	}
	warns := fitWarnings(lin.Warnings)

	if m.Asymptote == nil {
		return m.fitUnknownAsymptote(scaleFactors, expValues, sign, warns)
	}
	if m.AvoidLog {
		return m.fitKnownAsymptote(scaleFactors, expValues, sign, warns)
	}
	return m.fitLogTransform(scaleFactors, expValues, sign, logEps, warns)
}

// fitUnknownAsymptote fits y = c0 + c1*exp(x*(c2 + c3*x + ...)) by
// nonlinear least squares. The limit is c0 + c1.
func (m PolyExpModel) fitUnknownAsymptote(xs, ys []float64, sign float64, warns []Warning) (*FitResult, error) {
	ansatz := func(x float64, c []float64) float64 {
		return c[0] + c[1]*math.Exp(x*fit.Polyval(c[2:], x))
	}
	init := make([]float64, m.Order+2)
	init[1] = sign
	init[2] = -1.0

	res, err := fit.Curve(ansatz, xs, ys, init)
	if err != nil {
		if errors.Is(err, fit.ErrFitFailed) {
			return nil, fmt.Errorf("%w: a more stable model such as LinearModel may help (%v)", ErrExtrapolation, err)
		}
		return nil, err
	}
	params := res.Params

	limitErr := math.NaN()
	if res.Cov != nil && res.Cov.SymmetricDim() == m.Order+2 {
		limitErr = math.Sqrt(res.Cov.At(0, 0) + 2*res.Cov.At(0, 1) + res.Cov.At(1, 1))
	}

	return &FitResult{
		Limit:    params[0] + params[1],
		LimitErr: limitErr,
		Params:   params,
		Cov:      res.Cov,
		Curve: func(scaleFactor float64) float64 {
			return ansatz(scaleFactor, params)
		},
		Warnings: append(warns, fitWarnings(res.Warnings)...),
	}, nil
}

// fitKnownAsymptote fits y = asymptote + c0*exp(x*(c1 + c2*x + ...)) by
// nonlinear least squares. The limit is asymptote + c0.
func (m PolyExpModel) fitKnownAsymptote(xs, ys []float64, sign float64, warns []Warning) (*FitResult, error) {
	asymptote := *m.Asymptote
	ansatz := func(x float64, c []float64) float64 {
		return asymptote + c[0]*math.Exp(x*fit.Polyval(c[1:], x))
	}
	init := make([]float64, m.Order+1)
	init[0] = sign
	init[1] = -1.0

	res, err := fit.Curve(ansatz, xs, ys, init)
	if err != nil {
		if errors.Is(err, fit.ErrFitFailed) {
			return nil, fmt.Errorf("%w: a more stable model such as LinearModel may help (%v)", ErrExtrapolation, err)
		}
		return nil, err
	}
	fitted := res.Params

	limitErr := math.NaN()
	if res.Cov != nil && res.Cov.SymmetricDim() == m.Order+1 {
		limitErr = math.Sqrt(res.Cov.At(0, 0))
	}

	// Report the asymptote as the leading parameter so all modes share
	// the [asymptote-like, ...] layout.
	params := append([]float64{asymptote}, fitted...)

	return &FitResult{
		Limit:    asymptote + fitted[0],
		LimitErr: limitErr,
		Params:   params,
		Cov:      res.Cov,
		Curve: func(scaleFactor float64) float64 {
			return ansatz(scaleFactor, fitted)
		},
		Warnings: append(warns, fitWarnings(res.Warnings)...),
	}, nil
}

// fitLogTransform linearizes the known-asymptote model through
// z(x) = log(max(sign*(y - asymptote), eps)) and fits z by weighted
// polynomial least squares. The weights sqrt(|y - asymptote|) compensate
// for error propagation through the log transform.
func (m PolyExpModel) fitLogTransform(xs, ys []float64, sign, logEps float64, warns []Warning) (*FitResult, error) {
	asymptote := *m.Asymptote

	zs := make([]float64, len(ys))
	weights := make([]float64, len(ys))
	for i, y := range ys {
		shifted := math.Max(sign*(y-asymptote), logEps)
		zs[i] = math.Log(shifted)
		weights[i] = math.Sqrt(math.Abs(shifted))
	}

	res, err := fit.Poly(xs, zs, m.Order, weights)
	if err != nil {
		return nil, err
	}
	zc := res.Params

	limitErr := math.NaN()
	if res.Cov != nil && res.Cov.SymmetricDim() == m.Order+1 {
		limitErr = math.Exp(zc[0]) * math.Sqrt(res.Cov.At(0, 0))
	}

	params := append([]float64{asymptote}, zc...)

	return &FitResult{
		Limit:    asymptote + sign*math.Exp(zc[0]),
		LimitErr: limitErr,
		Params:   params,
		Cov:      res.Cov,
		Curve: func(scaleFactor float64) float64 {
			return asymptote + sign*math.Exp(fit.Polyval(zc, scaleFactor))
		},
		Warnings: append(warns, fitWarnings(res.Warnings)...),
	}, nil
}

// ExpModel extrapolates with the exponential ansatz
//
//	y(x) = a + b*exp(-c*x),  c > 0
//
// the poly-exponential model with a degree-1 exponent.
type ExpModel struct {
	// Asymptote is the known infinite-noise limit a, or nil when unknown.
	Asymptote *float64
	// AvoidLog forces a nonlinear fit even when the asymptote is known.
	AvoidLog bool
}

func (m ExpModel) polyExp() PolyExpModel {
	return PolyExpModel{Order: 1, Asymptote: m.Asymptote, AvoidLog: m.AvoidLog}
}

// Extrapolate fits the exponential ansatz to the data.
func (m ExpModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	return m.polyExp().Extrapolate(scaleFactors, expValues)
}

func (m ExpModel) validateConfig(scaleFactors []float64) error {
	return m.polyExp().validateConfig(scaleFactors)
}
