// Package fit provides the least-squares primitives used by the zne
// extrapolation models. The LinearModel-style fitting interface is defined in
// zne/ (parent package). This package provides Poly (weighted polynomial
// least squares via SVD) and Curve (nonlinear least squares via gonum
// optimize).
//
// Failure and degradation signals are normalized into a uniform taxonomy:
// a fit that cannot converge returns an error wrapping ErrFitFailed, while
// an ill-conditioned but usable fit attaches Warning values to the Result.
package fit
