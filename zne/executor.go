package zne

import "fmt"

// Circuit is an opaque quantum program. The core never inspects it; it is
// passed through unchanged to the noise scaler and the executor.
type Circuit any

// NoiseScaler maps a circuit to an equivalent circuit with noise amplified
// by the given scale factor. It must not mutate shared state, but it may be
// non-deterministic (hence the numToAverage repetition knob on Run).
type NoiseScaler func(circuit Circuit, scaleFactor float64) Circuit

// SingleExecutorFunc runs one circuit and returns one expectation value.
type SingleExecutorFunc func(circuit Circuit, opts CallOptions) (float64, error)

// BatchExecutorFunc runs a sequence of circuits in one call and returns one
// expectation value per circuit, in order. opts has the same length as
// circuits.
type BatchExecutorFunc func(circuits []Circuit, opts []CallOptions) ([]float64, error)

// Executor is a declared-capability wrapper around a caller-supplied
// execution function. Whether the executor is batched is decided by which
// constructor built it, never inferred from the function at runtime.
type Executor struct {
	single SingleExecutorFunc
	batch  BatchExecutorFunc
}

// NewSingleExecutor wraps a function evaluating one circuit per call.
func NewSingleExecutor(fn SingleExecutorFunc) Executor {
	return Executor{single: fn}
}

// NewBatchExecutor wraps a function evaluating many circuits in one call.
func NewBatchExecutor(fn BatchExecutorFunc) Executor {
	return Executor{batch: fn}
}

// Batched reports whether the executor evaluates circuits in batches.
func (e Executor) Batched() bool {
	return e.batch != nil
}

// execute evaluates all circuits, either through one batched call or through
// sequential single calls, and validates the result count.
func (e Executor) execute(circuits []Circuit, opts []CallOptions) ([]float64, error) {
	if len(circuits) != len(opts) {
		return nil, fmt.Errorf("zne: %d circuits but %d option sets", len(circuits), len(opts))
	}
	if e.batch != nil {
		values, err := e.batch(circuits, opts)
		if err != nil {
			return nil, fmt.Errorf("zne: batch executor: %w", err)
		}
		if len(values) != len(circuits) {
			return nil, fmt.Errorf("zne: batch executor returned %d values for %d circuits", len(values), len(circuits))
		}
		return values, nil
	}
	if e.single == nil {
		return nil, fmt.Errorf("zne: executor is not initialized")
	}
	values := make([]float64, len(circuits))
	for i, circ := range circuits {
		v, err := e.single(circ, opts[i])
		if err != nil {
			return nil, fmt.Errorf("zne: executor: %w", err)
		}
		values[i] = v
	}
	return values, nil
}

// ClassicalFunc maps a scale factor (plus executor parameters) directly to
// an expectation value, bypassing circuits entirely. Used for testing and
// analytic models.
type ClassicalFunc func(scaleFactor float64, opts CallOptions) (float64, error)
