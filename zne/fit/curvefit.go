package fit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// ErrFitFailed is returned (wrapped) when a fit cannot converge.
var ErrFitFailed = errors.New("fit failed to converge")

// Ansatz is a model function y = f(x; params). The parameter vector has a
// fixed length determined by the model.
type Ansatz func(x float64, params []float64) float64

// Curve fits ys ≈ ansatz(xs, params) by nonlinear least squares, starting
// from initParams. The initial guess also fixes the number of parameters, so
// it must be non-empty.
//
// The parameter covariance is estimated from the Jacobian at the optimum,
// scaled by rss / (n - p). When the data does not over-determine the fit or
// the normal matrix is singular, Result.Cov is nil and a Warning is attached.
func Curve(ansatz Ansatz, xs, ys, initParams []float64) (Result, error) {
	n := len(xs)
	if n != len(ys) {
		return Result{}, fmt.Errorf("curve fit: len(xs)=%d and len(ys)=%d must be equal", n, len(ys))
	}
	if len(initParams) == 0 {
		return Result{}, fmt.Errorf("curve fit: an initial parameter guess is required")
	}

	rss := func(params []float64) float64 {
		var sum float64
		for i, x := range xs {
			r := ansatz(x, params) - ys[i]
			sum += r * r
		}
		return sum
	}

	problem := optimize.Problem{Func: rss}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: 1e-14, Iterations: 200},
	}
	init := make([]float64, len(initParams))
	copy(init, initParams)

	res, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if err != nil {
		return Result{}, fmt.Errorf("curve fit: %w: %v", ErrFitFailed, err)
	}
	switch res.Status {
	case optimize.NotTerminated, optimize.Failure:
		return Result{}, fmt.Errorf("curve fit: %w: optimizer status %v", ErrFitFailed, res.Status)
	}

	params := res.X
	cov, warns := curveCovariance(ansatz, xs, params, rss(params))
	return Result{Params: params, Cov: cov, Warnings: warns}, nil
}

// curveCovariance estimates the parameter covariance at the optimum from a
// finite-difference Jacobian of the model values.
func curveCovariance(ansatz Ansatz, xs, params []float64, rss float64) (*mat.SymDense, []Warning) {
	n := len(xs)
	m := len(params)
	if n <= m {
		return nil, []Warning{{Message: noCovarianceMsg}}
	}

	model := func(dst, p []float64) {
		for i, x := range xs {
			dst[i] = ansatz(x, p)
		}
	}
	jac := mat.NewDense(n, m, nil)
	fd.Jacobian(jac, model, params, &fd.JacobianSettings{Formula: fd.Central})

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)
	sym := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			sym.SetSym(i, j, jtj.At(i, j))
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		// Singular normal matrix: the fit is usable but its covariance
		// is not estimable.
		return nil, []Warning{{Message: illConditionedMsg}}
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, []Warning{{Message: illConditionedMsg}}
	}

	sigma2 := rss / float64(n-m)
	cov := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			cov.SetSym(i, j, inv.At(i, j)*sigma2)
		}
	}
	return cov, nil
}
