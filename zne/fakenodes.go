package zne

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// FakeNodesModel performs Richardson extrapolation on scale factors
// remapped to Chebyshev–Lobatto points ("fake nodes"). The remapping can
// improve the conditioning of the interpolation when many equally spaced
// scale factors are used; it requires the input scale factors to be equally
// spaced.
type FakeNodesModel struct{}

// Extrapolate remaps the scale factors to Chebyshev–Lobatto points over
// [0, min+max], fits Richardson in the mapped space, and composes the map
// back into the reconstructed curve. The zero-noise limit itself is
// unaffected by the remap because the interval starts at zero.
func (FakeNodesModel) Extrapolate(scaleFactors, expValues []float64) (*FitResult, error) {
	if len(scaleFactors) < 2 {
		return nil, fmt.Errorf("zne: at least 2 scale factors are necessary, got %d", len(scaleFactors))
	}
	if !equallySpaced(scaleFactors) {
		return nil, fmt.Errorf("zne: the scale factors must be equally spaced for fake-nodes extrapolation")
	}

	a := 0.0
	b := floats.Min(scaleFactors) + floats.Max(scaleFactors)

	mapped := make([]float64, len(scaleFactors))
	for i, x := range scaleFactors {
		mapped[i] = chebyshevLobatto(x, a, b)
	}

	res, err := RichardsonModel{}.Extrapolate(mapped, expValues)
	if err != nil {
		return nil, err
	}

	// The fit lives in the fake-node space; compose the map so the curve
	// takes real scale factors.
	mappedCurve := res.Curve
	res.Curve = func(scaleFactor float64) float64 {
		return mappedCurve(chebyshevLobatto(scaleFactor, a, b))
	}
	return res, nil
}

// chebyshevLobatto maps x to a Chebyshev–Lobatto point of the interval
// [a, b]: S(x) = (a-b)/2 * cos(pi*(x-a)/(b-a)) + (a+b)/2.
func chebyshevLobatto(x, a, b float64) float64 {
	return (a-b)/2*math.Cos(math.Pi*(x-a)/(b-a)) + (a+b)/2
}

// equallySpaced reports whether the values, once sorted, have a constant
// first difference.
func equallySpaced(values []float64) bool {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	first := sorted[1] - sorted[0]
	for i := 2; i < len(sorted); i++ {
		if !scalar.EqualWithinAbsOrRel(sorted[i]-sorted[i-1], first, closeTol, closeTol) {
			return false
		}
	}
	return true
}
