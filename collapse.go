package qsim

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
)

/*
Collapse projects sv onto the subspace where each qubits[j] reads outcome[j]
and renormalises what remains. Amplitudes outside the subspace are zeroed.

If every amplitude inside the subspace is zero the state cannot be
renormalised; Collapse then reports ErrZeroProbabilitySubspace and leaves sv
with the outside amplitudes already zeroed.
*/
func (e *Engine) Collapse(sv *StateVector, qubits []int, outcome []int) error {
	startTime := time.Now()
	err := e.collapse(sv, qubits, outcome)
	e.metrics.recordCollapse(startTime, err)

	if err != nil {
		return err
	}

	errnie.Debug("collapsed qubits %v to %v in %v", qubits, outcome, time.Since(startTime))
	return nil
}

func (e *Engine) collapse(sv *StateVector, qubits []int, outcome []int) error {
	if len(qubits) != len(outcome) {
		return errors.Wrapf(
			ErrShapeMismatch, "%d measured qubits but %d outcome bits",
			len(qubits), len(outcome),
		)
	}
	if err := validateQubits(sv.nqubits, qubits, nil); err != nil {
		return err
	}

	mask, want := 0, 0
	for j, q := range qubits {
		bit := 1 << (sv.nqubits - 1 - q)
		mask |= bit

		switch outcome[j] {
		case 0:
		case 1:
			want |= bit
		default:
			return errors.Wrapf(ErrShapeMismatch, "outcome bit %d for qubit %d", outcome[j], q)
		}
	}

	switch sv.precision {
	case Single:
		return project(e.pool, sv.c64, mask, want)
	default:
		return project(e.pool, sv.c128, mask, want)
	}
}

func project[T amplitude](pool *Q, amps []T, mask, want int) error {
	norm := pool.ParallelSum(len(amps), func(lo, hi int) float64 {
		var partial float64
		for i := lo; i < hi; i++ {
			if i&mask != want {
				amps[i] = 0
				continue
			}
			partial += absSquared(amps[i])
		}
		return partial
	})

	if norm == 0 {
		return errors.Wrapf(ErrZeroProbabilitySubspace, "mask %b outcome %b", mask, want)
	}

	scale := T(complex(1/math.Sqrt(norm), 0))
	pool.ParallelFor(len(amps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&mask == want {
				amps[i] *= scale
			}
		}
	})

	return nil
}
