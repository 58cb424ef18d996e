package qsim

import (
	"github.com/pkg/errors"
)

// Error kinds reported by the engine. Call sites wrap these with context, so
// compare with errors.Is.
var (
	ErrInvalidQubitIndex       = errors.New("invalid qubit index")
	ErrShapeMismatch           = errors.New("shape mismatch")
	ErrZeroProbabilitySubspace = errors.New("zero probability subspace")
	ErrPrecisionMismatch       = errors.New("precision mismatch")
)

// errorKind returns the short label used for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQubitIndex):
		return "invalid_qubit_index"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrZeroProbabilitySubspace):
		return "zero_probability_subspace"
	case errors.Is(err, ErrPrecisionMismatch):
		return "precision_mismatch"
	default:
		return "other"
	}
}

/*
validateQubits checks targets and controls against a register of nqubits.
Every index must lie in [0, nqubits), targets must be distinct, controls must
be distinct, and no qubit may be both a target and a control of one gate.
*/
func validateQubits(nqubits int, targets, controls []int) error {
	if len(targets) == 0 {
		return errors.Wrap(ErrInvalidQubitIndex, "gate has no target qubits")
	}

	seen := make(map[int]string, len(targets)+len(controls))

	for _, t := range targets {
		if t < 0 || t >= nqubits {
			return errors.Wrapf(ErrInvalidQubitIndex, "target %d outside [0,%d)", t, nqubits)
		}
		if _, dup := seen[t]; dup {
			return errors.Wrapf(ErrInvalidQubitIndex, "target %d listed twice", t)
		}
		seen[t] = "target"
	}

	for _, c := range controls {
		if c < 0 || c >= nqubits {
			return errors.Wrapf(ErrInvalidQubitIndex, "control %d outside [0,%d)", c, nqubits)
		}
		if role, dup := seen[c]; dup {
			return errors.Wrapf(ErrInvalidQubitIndex, "control %d is already a %s", c, role)
		}
		seen[c] = "control"
	}

	return nil
}
