package qsim

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
)

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// Probabilities returns |amplitude|² for every basis state without touching sv.
func (e *Engine) Probabilities(sv *StateVector) []float64 {
	probs := make([]float64, sv.Len())

	switch sv.precision {
	case Single:
		fillProbabilities(e.pool, sv.c64, probs)
	default:
		fillProbabilities(e.pool, sv.c128, probs)
	}
	return probs
}

func fillProbabilities[T amplitude](pool *Q, amps []T, probs []float64) {
	pool.ParallelFor(len(amps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			probs[i] = absSquared(amps[i])
		}
	})
}

// Marginals returns P(0) and P(1) for each qubit in register order.
func (e *Engine) Marginals(sv *StateVector) []QubitProbability {
	marginals := make([]QubitProbability, sv.nqubits)

	for i, p := range e.Probabilities(sv) {
		for q := range marginals {
			if i&(1<<(sv.nqubits-1-q)) != 0 {
				marginals[q].Prob1 += p
			} else {
				marginals[q].Prob0 += p
			}
		}
	}
	return marginals
}

/*
Sample draws shots basis state indices with probability |amplitude|². The
distribution is normalised by its own total, so a slightly denormalised
vector still samples correctly. sv is not modified.
*/
func (e *Engine) Sample(sv *StateVector, rng RandomSource, shots int) ([]int, error) {
	if shots < 0 {
		err := errors.Wrapf(ErrShapeMismatch, "negative shot count %d", shots)
		e.metrics.recordError(err)
		return nil, err
	}

	probs := e.Probabilities(sv)
	cumulative := make([]float64, len(probs))

	var total float64
	for i, p := range probs {
		total += p
		cumulative[i] = total
	}

	if total == 0 {
		err := errors.Wrap(ErrZeroProbabilitySubspace, "state has zero norm")
		e.metrics.recordError(err)
		return nil, err
	}
	if math.Abs(total-1) > 1e-6 {
		errnie.Warn("sampling a state with norm %g", total)
	}

	samples := make([]int, shots)
	for s := range samples {
		r := rng.Float64() * total
		idx := sort.Search(len(cumulative), func(i int) bool {
			return cumulative[i] > r
		})

		if idx >= len(cumulative) {
			idx = len(cumulative) - 1
		}
		for idx > 0 && probs[idx] == 0 {
			idx--
		}
		samples[s] = idx
	}

	return samples, nil
}

// Bitstring renders a basis index with qubit 0 first.
func Bitstring(index, nqubits int) string {
	var b strings.Builder
	b.Grow(nqubits)

	for q := 0; q < nqubits; q++ {
		if index&(1<<(nqubits-1-q)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
