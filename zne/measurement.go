package zne

import "gonum.org/v1/gonum/floats/scalar"

// closeTol is the tolerance used by all equality comparisons on measured
// data. Two values within this absolute-or-relative distance compare equal.
const closeTol = 1e-8

// Measurement records the parameters of one expectation-value estimation
// request: the noise scale factor, an optional shot count, and any extra
// executor parameters.
type Measurement struct {
	// ScaleFactor is the noise amplification level; 1.0 means unscaled.
	ScaleFactor float64
	// Shots is the number of samples for this measurement; 0 means
	// unspecified.
	Shots int
	// Extra holds additional executor parameters, if any.
	Extra map[string]float64
}

// CallOptions are the executor parameters of a Measurement, i.e. everything
// except the scale factor (which is consumed by the noise scaler).
type CallOptions struct {
	Shots int
	Extra map[string]float64
}

// CallOptions projects the executor parameters out of the measurement.
func (m Measurement) CallOptions() CallOptions {
	return CallOptions{Shots: m.Shots, Extra: m.Extra}
}

// close reports whether two measurements are numerically close: equal shot
// counts, close scale factors, and extra parameter maps with identical keys
// and close values.
func (m Measurement) close(other Measurement) bool {
	if m.Shots != other.Shots {
		return false
	}
	if !scalar.EqualWithinAbsOrRel(m.ScaleFactor, other.ScaleFactor, closeTol, closeTol) {
		return false
	}
	if len(m.Extra) != len(other.Extra) {
		return false
	}
	for k, v := range m.Extra {
		ov, ok := other.Extra[k]
		if !ok || !scalar.EqualWithinAbsOrRel(v, ov, closeTol, closeTol) {
			return false
		}
	}
	return true
}
