package zne

// ExtrapolationModel is a stateless fitting algorithm: given parallel
// sequences of scale factors and expectation values, it fits its ansatz and
// returns the zero-noise limit together with uncertainty, parameters,
// covariance and the fitted curve.
//
// Models are composed into strategies; the strategy's Reduce method calls
// the model on the accumulated data and caches the result.
type ExtrapolationModel interface {
	Extrapolate(scaleFactors, expValues []float64) (*FitResult, error)
}

// configValidator is implemented by models that can reject a scale-factor
// configuration at strategy construction time (e.g. a polynomial order that
// the configured number of scale factors cannot support).
type configValidator interface {
	validateConfig(scaleFactors []float64) error
}

// Strategy is the data-collection capability set shared by the batched and
// adaptive families.
type Strategy interface {
	// Run executes noise-scaled variants of the circuit through the
	// executor, populating the accumulator. Prior data is cleared first.
	// numToAverage independent noise-scaled instances are averaged per
	// requested scale factor.
	Run(circuit Circuit, executor Executor, scale NoiseScaler, numToAverage int) error

	// RunClassical is like Run but maps scale factors directly to
	// expectation values through fn, with no circuits involved.
	RunClassical(fn ClassicalFunc) error

	// Reduce fits the bound extrapolation model to the accumulated data,
	// caches all fit outputs, and returns the zero-noise limit.
	Reduce() (float64, error)
}
