package qsim

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
)

/*
StateVector owns the 2^N complex amplitudes of an N qubit register.

The flat index of an amplitude is read big-endian: qubit 0 is the most
significant bit, so qubit q sits at bit position N-1-q. Exactly one of the
two backing slices is populated, chosen by the precision the vector was
allocated with.

A StateVector is mutated in place by every gate and collapse. It must not be
handed to two operations at the same time.
*/
type StateVector struct {
	nqubits   int
	precision Precision
	c64       []complex64
	c128      []complex128
}

// NewStateVector allocates a register of nqubits in the ground state |0...0⟩.
func NewStateVector(nqubits int, precision Precision) (*StateVector, error) {
	if nqubits < 1 || nqubits > 62 {
		return nil, errors.Wrapf(ErrShapeMismatch, "cannot allocate %d qubits", nqubits)
	}
	if !precision.valid() {
		return nil, errors.Wrapf(ErrPrecisionMismatch, "unknown precision %d", precision)
	}

	sv := &StateVector{nqubits: nqubits, precision: precision}
	size := 1 << nqubits

	switch precision {
	case Single:
		sv.c64 = make([]complex64, size)
	default:
		sv.c128 = make([]complex128, size)
	}

	InitialState(sv)
	return sv, nil
}

/*
FromAmplitudes adopts a caller supplied vector as the register state. The
slice is used directly when precision is Double; for Single it is narrowed
into a new buffer. Its length must be a power of two of at least 2.
*/
func FromAmplitudes(amps []complex128, precision Precision) (*StateVector, error) {
	n, err := registerSize(len(amps))
	if err != nil {
		return nil, err
	}

	switch precision {
	case Double:
		return &StateVector{nqubits: n, precision: Double, c128: amps}, nil
	case Single:
		narrow := make([]complex64, len(amps))
		for i, a := range amps {
			narrow[i] = complex64(a)
		}
		return &StateVector{nqubits: n, precision: Single, c64: narrow}, nil
	}

	return nil, errors.Wrapf(ErrPrecisionMismatch, "unknown precision %d", precision)
}

// FromAmplitudes64 adopts a single precision vector without copying it.
func FromAmplitudes64(amps []complex64) (*StateVector, error) {
	n, err := registerSize(len(amps))
	if err != nil {
		return nil, err
	}
	return &StateVector{nqubits: n, precision: Single, c64: amps}, nil
}

func registerSize(length int) (int, error) {
	if length < 2 || length&(length-1) != 0 {
		return 0, errors.Wrapf(ErrShapeMismatch, "state length %d is not a power of two", length)
	}
	return bits.TrailingZeros(uint(length)), nil
}

/*
InitialState overwrites the buffer of sv with the ground state: amplitude 0
becomes 1+0i and every other amplitude becomes zero. The existing memory is
reused.
*/
func InitialState(sv *StateVector) {
	switch sv.precision {
	case Single:
		groundState(sv.c64)
	default:
		groundState(sv.c128)
	}
}

func groundState[T amplitude](amps []T) {
	clear(amps)
	amps[0] = 1
}

func (sv *StateVector) NumQubits() int      { return sv.nqubits }
func (sv *StateVector) Precision() Precision { return sv.precision }

func (sv *StateVector) Len() int {
	return 1 << sv.nqubits
}

// At returns amplitude i widened to complex128.
func (sv *StateVector) At(i int) complex128 {
	if sv.precision == Single {
		return complex128(sv.c64[i])
	}
	return sv.c128[i]
}

// Amplitudes returns a double precision copy of the register.
func (sv *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, sv.Len())
	if sv.precision == Single {
		for i, a := range sv.c64 {
			out[i] = complex128(a)
		}
		return out
	}
	copy(out, sv.c128)
	return out
}

// Norm returns the sum of squared magnitudes.
func (sv *StateVector) Norm() float64 {
	if sv.precision == Single {
		return sumSquares(sv.c64)
	}
	return sumSquares(sv.c128)
}

func (sv *StateVector) Clone() *StateVector {
	clone := &StateVector{nqubits: sv.nqubits, precision: sv.precision}
	if sv.c64 != nil {
		clone.c64 = append([]complex64(nil), sv.c64...)
	}
	if sv.c128 != nil {
		clone.c128 = append([]complex128(nil), sv.c128...)
	}
	return clone
}

func (sv *StateVector) String() string {
	return fmt.Sprintf("StateVector(%d qubits, %s)", sv.nqubits, sv.precision)
}

func sumSquares[T amplitude](amps []T) float64 {
	var total float64
	for _, a := range amps {
		total += absSquared(a)
	}
	return total
}

func absSquared[T amplitude](a T) float64 {
	c := complex128(a)
	return real(c)*real(c) + imag(c)*imag(c)
}
