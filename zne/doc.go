// Package zne implements the classical post-processing core of zero-noise
// extrapolation: collecting expectation values measured at amplified noise
// levels and inferring the value a quantum computation would have produced
// at zero noise.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - accumulator.go: the Empty → Collecting → Reduced data lifecycle and
//     the cached fit outputs
//   - batched.go / adaexp.go: the two data-collection strategy families
//   - model.go: how extrapolation models compose into strategies
//
// # Architecture
//
// The zne package defines the strategy and model interfaces plus all model
// implementations; the numerical least-squares primitives live in zne/fit.
//
// A Strategy owns an Accumulator and decides which scale factors to
// measure: Batched knows all of them up front (and can hand a batch
// executor every circuit in one call), while AdaExp picks each next scale
// factor from the results so far. An ExtrapolationModel is a stateless fit
// of (scale factor, expectation value) pairs; a strategy's Reduce applies
// its bound model to the accumulated data and caches limit, uncertainty,
// parameters, covariance and fitted curve.
//
// Circuits are opaque to this package: they are passed unchanged through
// the caller-supplied NoiseScaler and Executor. Whether an executor is
// batched is declared at construction, never inferred.
//
// Non-fatal diagnostics (ill-conditioned fits, stale pushes after Reduce,
// adaptive loops hitting their iteration cap) are structured Warning
// values carried on a side channel, not errors.
//
// Nothing here is safe for concurrent use; each strategy instance is owned
// by one caller for the duration of one mitigation session.
package zne
