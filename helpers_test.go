package qsim

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/davecgh/go-spew/spew"
)

const (
	doubleTolerance = 1e-9
	singleTolerance = 1e-4
)

// newTestEngine uses a tiny chunk size so even small registers go through the pool.
func newTestEngine(precision Precision) *Engine {
	return NewEngine(context.Background(), &Config{
		Precision: precision,
		Workers:   4,
		MinChunk:  2,
	})
}

func randomAmplitudes(rng *rand.Rand, nqubits int) []complex128 {
	amps := make([]complex128, 1<<nqubits)

	var norm float64
	for i := range amps {
		amps[i] = complex(rng.NormFloat64(), rng.NormFloat64())
		norm += real(amps[i])*real(amps[i]) + imag(amps[i])*imag(amps[i])
	}

	scale := complex(1/math.Sqrt(norm), 0)
	for i := range amps {
		amps[i] *= scale
	}
	return amps
}

func randomState(rng *rand.Rand, nqubits int, precision Precision) *StateVector {
	sv, err := FromAmplitudes(randomAmplitudes(rng, nqubits), precision)
	if err != nil {
		panic(err)
	}
	return sv
}

func toleranceFor(p Precision) float64 {
	if p == Single {
		return singleTolerance
	}
	return doubleTolerance
}

/*
shouldMatchState is a goconvey assertion comparing two state vectors, or a
state vector against a []complex128, amplitude by amplitude.
*/
func shouldMatchState(actual interface{}, expected ...interface{}) string {
	got, ok := actual.(*StateVector)
	if !ok {
		return fmt.Sprintf("expected a *StateVector, got %T", actual)
	}
	if len(expected) != 1 {
		return "shouldMatchState takes exactly one expected value"
	}

	var want []complex128
	switch e := expected[0].(type) {
	case *StateVector:
		want = e.Amplitudes()
	case []complex128:
		want = e
	default:
		return fmt.Sprintf("cannot compare a state vector with %T", expected[0])
	}

	if len(want) != got.Len() {
		return fmt.Sprintf("length %d, want %d", got.Len(), len(want))
	}

	tol := toleranceFor(got.Precision())
	for i, w := range want {
		if cmplx.Abs(got.At(i)-w) > tol {
			return fmt.Sprintf(
				"amplitude %d is %v, want %v\ngot:  %s\nwant: %s",
				i, got.At(i), w, spew.Sdump(got.Amplitudes()), spew.Sdump(want),
			)
		}
	}
	return ""
}
