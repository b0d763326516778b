package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Warning describes a non-fatal fit degradation. The fit result is still
// usable, but the caller should be aware of it.
type Warning struct {
	Message string
}

// Result holds the output of a least-squares fit.
type Result struct {
	// Params are the fitted parameters. For polynomial fits the
	// coefficients are stored in ascending order: Params[0] + Params[1]*x + ...
	Params []float64
	// Cov is the parameter covariance matrix, or nil when it cannot be
	// estimated from the data.
	Cov *mat.SymDense
	// Warnings lists non-fatal degradations observed during the fit.
	Warnings []Warning
}

const (
	machEps = 2.220446049250313e-16

	illConditionedMsg = "fit may be ill-conditioned: more data points may be necessary to fit the model parameters"
	noCovarianceMsg   = "covariance of the parameters could not be estimated"
)

// Polyval evaluates a polynomial with ascending coefficients at x
// using Horner's rule.
func Polyval(coeffs []float64, x float64) float64 {
	var y float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}
	return y
}

// Poly fits a polynomial of the given degree to (xs, ys) by least squares,
// optionally weighted. Coefficients are returned in ascending order.
//
// The covariance matrix is estimated only when the data over-determines the
// fit (len(xs) > degree + 2) and the design matrix has full rank; otherwise
// Result.Cov is nil and, when the cause is rank deficiency, a Warning is
// attached. The residual scaling factor is rss / (n - degree - 2).
func Poly(xs, ys []float64, degree int, weights []float64) (Result, error) {
	n := len(xs)
	if n != len(ys) {
		return Result{}, fmt.Errorf("polynomial fit: len(xs)=%d and len(ys)=%d must be equal", n, len(ys))
	}
	if weights != nil && len(weights) != n {
		return Result{}, fmt.Errorf("polynomial fit: len(weights)=%d must equal len(xs)=%d", len(weights), n)
	}
	if degree < 0 {
		return Result{}, fmt.Errorf("polynomial fit: degree must be non-negative, got %d", degree)
	}
	if degree > n-1 {
		return Result{}, fmt.Errorf("polynomial fit: degree %d requires at least %d data points, got %d", degree, degree+1, n)
	}

	m := degree + 1

	// Weighted Vandermonde design matrix, ascending powers.
	a := mat.NewDense(n, m, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		pow := 1.0
		for j := 0; j < m; j++ {
			a.Set(i, j, w*pow)
			pow *= xs[i]
		}
		b.SetVec(i, w*ys[i])
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return Result{}, fmt.Errorf("polynomial fit: %w: SVD factorization failed", ErrFitFailed)
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	tol := float64(max(n, m)) * machEps * s[0]
	rank := 0
	for _, sv := range s {
		if sv > tol {
			rank++
		}
	}

	var warns []Warning
	if rank < m {
		warns = append(warns, Warning{Message: illConditionedMsg})
	}

	// coeffs = V * diag(1/s) * Uᵀ * b, truncated at the numerical rank.
	uty := make([]float64, len(s))
	for j := 0; j < len(s); j++ {
		var acc float64
		for i := 0; i < n; i++ {
			acc += u.At(i, j) * b.AtVec(i)
		}
		if j < rank {
			uty[j] = acc / s[j]
		} else {
			uty[j] = 0
		}
	}
	coeffs := make([]float64, m)
	for p := 0; p < m; p++ {
		var acc float64
		for j := 0; j < len(s); j++ {
			acc += v.At(p, j) * uty[j]
		}
		coeffs[p] = acc
	}

	var cov *mat.SymDense
	if n > degree+2 && rank == m {
		var rss float64
		for i := 0; i < n; i++ {
			var fitv float64
			for j := 0; j < m; j++ {
				fitv += a.At(i, j) * coeffs[j]
			}
			r := fitv - b.AtVec(i)
			rss += r * r
		}
		fac := rss / float64(n-degree-2)

		// (AᵀA)⁻¹ = V * diag(1/s²) * Vᵀ
		cov = mat.NewSymDense(m, nil)
		for p := 0; p < m; p++ {
			for q := p; q < m; q++ {
				var acc float64
				for j := 0; j < len(s); j++ {
					acc += v.At(p, j) * v.At(q, j) / (s[j] * s[j])
				}
				cov.SetSym(p, q, acc*fac)
			}
		}
	}

	return Result{Params: coeffs, Cov: cov, Warnings: warns}, nil
}
