package zne

import (
	"github.com/sirupsen/logrus"

	"github.com/zne-sim/zne-sim/zne/fit"
)

// WarningKind classifies non-fatal diagnostics raised during data
// collection and fitting.
type WarningKind string

const (
	// WarnIllConditionedFit marks a fit that is rank-deficient or
	// otherwise numerically degraded. The fit result is still returned.
	WarnIllConditionedFit WarningKind = "ill-conditioned-fit"

	// WarnStaleReduction marks a Push performed after Reduce: the cached
	// fit no longer reflects the accumulated data until Reduce is called
	// again.
	WarnStaleReduction WarningKind = "stale-reduction"

	// WarnNoConvergence marks an adaptive collection loop that hit its
	// iteration cap before convergence. The partial data is retained.
	WarnNoConvergence WarningKind = "no-convergence"
)

// Warning is a structured non-fatal diagnostic. Warnings are returned on a
// side channel (FitResult.Warnings, Accumulator.Warnings) instead of a
// process-wide warning registry, so callers can inspect them directly.
type Warning struct {
	Kind    WarningKind
	Message string
}

func warnf(kind WarningKind, message string) Warning {
	logrus.Warnf("[%s] %s", kind, message)
	return Warning{Kind: kind, Message: message}
}

// fitWarnings converts diagnostics from the fit package into the
// ill-conditioned-fit kind.
func fitWarnings(ws []fit.Warning) []Warning {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, warnf(WarnIllConditionedFit, w.Message))
	}
	return out
}
