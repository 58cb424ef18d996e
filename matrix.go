package qsim

import (
	"math/bits"
	"math/cmplx"

	"github.com/pkg/errors"
)

/*
Matrix is an immutable square operator stored row-major. Its precision must
match the precision of any StateVector it is applied to.
*/
type Matrix struct {
	precision Precision
	dim       int
	c64       []complex64
	c128      []complex128
}

// NewMatrix builds a double precision matrix from row-major entries.
func NewMatrix(entries ...complex128) (Matrix, error) {
	dim, err := squareDim(len(entries))
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{
		precision: Double,
		dim:       dim,
		c128:      append([]complex128(nil), entries...),
	}, nil
}

// NewMatrix64 builds a single precision matrix from row-major entries.
func NewMatrix64(entries ...complex64) (Matrix, error) {
	dim, err := squareDim(len(entries))
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{
		precision: Single,
		dim:       dim,
		c64:       append([]complex64(nil), entries...),
	}, nil
}

func mustMatrix(entries ...complex128) Matrix {
	m, err := NewMatrix(entries...)
	if err != nil {
		panic(err)
	}
	return m
}

func squareDim(n int) (int, error) {
	for dim := 2; dim*dim <= n; dim *= 2 {
		if dim*dim == n {
			return dim, nil
		}
	}
	return 0, errors.Wrapf(ErrShapeMismatch, "%d entries do not form a 2^k x 2^k matrix", n)
}

func (m Matrix) Precision() Precision { return m.precision }
func (m Matrix) Dim() int             { return m.dim }

// Arity is the number of qubits the matrix acts on.
func (m Matrix) Arity() int {
	if m.dim == 0 {
		return 0
	}
	return bits.TrailingZeros(uint(m.dim))
}

// At returns entry (row, col) widened to complex128.
func (m Matrix) At(row, col int) complex128 {
	if m.precision == Single {
		return complex128(m.c64[row*m.dim+col])
	}
	return m.c128[row*m.dim+col]
}

// As converts the matrix to the requested precision.
func (m Matrix) As(precision Precision) Matrix {
	if m.precision == precision {
		return m
	}

	out := Matrix{precision: precision, dim: m.dim}
	switch precision {
	case Single:
		out.c64 = make([]complex64, len(m.c128))
		for i, v := range m.c128 {
			out.c64[i] = complex64(v)
		}
	default:
		out.c128 = make([]complex128, len(m.c64))
		for i, v := range m.c64 {
			out.c128[i] = complex128(v)
		}
	}
	return out
}

// Dagger returns the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	out := Matrix{precision: m.precision, dim: m.dim}
	n := m.dim

	switch m.precision {
	case Single:
		out.c64 = make([]complex64, n*n)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				out.c64[c*n+r] = complex64(cmplx.Conj(complex128(m.c64[r*n+c])))
			}
		}
	default:
		out.c128 = make([]complex128, n*n)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				out.c128[c*n+r] = cmplx.Conj(m.c128[r*n+c])
			}
		}
	}
	return out
}
