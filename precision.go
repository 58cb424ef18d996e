package qsim

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// amplitude is the element type of a state vector or gate matrix.
type amplitude interface {
	constraints.Complex
}

/*
Precision selects the bit-width of the real and imaginary parts of every
amplitude. It is fixed when a StateVector is allocated and cannot change for
the lifetime of that vector.
*/
type Precision int

const (
	Double Precision = iota // complex128
	Single                  // complex64
)

func (p Precision) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

// ParsePrecision accepts the names used in config files and on the command line.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "complex64", "float32", "32":
		return Single, nil
	case "double", "complex128", "float64", "64", "":
		return Double, nil
	}
	return Double, errors.Errorf("unknown precision %q", s)
}

func (p Precision) valid() bool {
	return p == Single || p == Double
}
