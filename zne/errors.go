package zne

import "errors"

var (
	// ErrExtrapolation reports that an extrapolation fit failed to
	// converge. Switching to a more stable model such as LinearModel may
	// help.
	ErrExtrapolation = errors.New("zne: the extrapolation fit failed to converge")

	// ErrDataMissing reports that a cached fit output was requested before
	// it was produced. Make sure Run (or RunClassical) and Reduce have
	// been called and that enough expectation values were measured.
	ErrDataMissing = errors.New("zne: data is either missing or not enough to evaluate the requested quantity")
)
