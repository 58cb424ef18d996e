package qsim

import (
	"context"
	"math/cmplx"
	"time"

	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
)

/*
Engine applies gates, collapses and readouts to state vectors using a shared
worker pool. It holds no state vector itself: the caller owns each vector and
passes it to exactly one engine call at a time. Calls on different vectors may
run concurrently.
*/
type Engine struct {
	config  *Config
	pool    *Q
	metrics *Metrics
}

// NewEngine starts the worker pool described by config.
func NewEngine(ctx context.Context, config *Config) *Engine {
	if config == nil {
		config = NewConfig()
	}

	metrics := NewMetrics()
	return &Engine{
		config:  config,
		pool:    NewQ(ctx, config.Workers, config, metrics),
		metrics: metrics,
	}
}

func (e *Engine) Config() *Config   { return e.config }
func (e *Engine) Metrics() *Metrics { return e.metrics }

// NewState allocates a ground state register in the configured precision.
func (e *Engine) NewState(nqubits int) (*StateVector, error) {
	sv, err := NewStateVector(nqubits, e.config.Precision)
	if err != nil {
		e.metrics.recordError(err)
	}
	return sv, err
}

// Apply mutates sv in place by g.
func (e *Engine) Apply(sv *StateVector, g Gate) error {
	startTime := time.Now()
	err := e.apply(sv, g)
	e.metrics.recordGate(g.kind, startTime, err)

	if err != nil {
		return err
	}

	errnie.Debug("applied %s on %d qubits in %v", g, sv.nqubits, time.Since(startTime))
	return nil
}

/*
ApplyAll applies gates in order. It stops at the first error and leaves sv as
the gates before it made it.
*/
func (e *Engine) ApplyAll(sv *StateVector, gates ...Gate) error {
	for i, g := range gates {
		if err := e.Apply(sv, g); err != nil {
			return errors.WithMessagef(err, "gate %d (%s)", i, g.kind)
		}
	}
	return nil
}

func (e *Engine) apply(sv *StateVector, g Gate) error {
	m, err := NewIndexMapper(sv.nqubits, g.targets, g.controls)
	if err != nil {
		return err
	}

	switch g.kind {
	case KindGeneral:
		if g.matrix.dim == 0 || g.matrix.Arity() != len(g.targets) {
			return errors.Wrapf(
				ErrShapeMismatch, "%dx%d matrix on %d targets",
				g.matrix.dim, g.matrix.dim, len(g.targets),
			)
		}
		if g.matrix.precision != sv.precision {
			return errors.Wrapf(
				ErrPrecisionMismatch, "%s matrix on %s state",
				g.matrix.precision, sv.precision,
			)
		}
	case KindSwap:
		if len(g.targets) != 2 {
			return errors.Wrapf(ErrShapeMismatch, "swap needs 2 targets, got %d", len(g.targets))
		}
	case KindPauliX, KindPauliY, KindPauliZ, KindZPow:
		if len(g.targets) != 1 {
			return errors.Wrapf(ErrShapeMismatch, "%s needs 1 target, got %d", g.kind, len(g.targets))
		}
	default:
		return errors.Wrapf(ErrShapeMismatch, "unknown gate kind %d", g.kind)
	}

	switch sv.precision {
	case Single:
		dispatch(e.pool, sv.c64, m, g, g.matrix.c64)
	default:
		dispatch(e.pool, sv.c128, m, g, g.matrix.c128)
	}
	return nil
}

// dispatch selects the kernel for the gate's kind.
func dispatch[T amplitude](pool *Q, amps []T, m *IndexMapper, g Gate, mat []T) {
	switch g.kind {
	case KindPauliX:
		applyPairs(pool, amps, m, pauliX[T]{})
	case KindPauliY:
		applyPairs(pool, amps, m, pauliY[T]{})
	case KindPauliZ:
		applyPairs(pool, amps, m, pauliZ[T]{})
	case KindZPow:
		applyPairs(pool, amps, m, phasePair[T]{phase: T(cmplx.Exp(complex(0, g.theta)))})
	case KindSwap:
		applySwap(pool, amps, m)
	case KindGeneral:
		if m.GroupSize() == 2 {
			applyPairs(pool, amps, m, generalPair[T]{a: mat[0], b: mat[1], c: mat[2], d: mat[3]})
			return
		}
		applyMatrix(pool, amps, m, mat)
	}
}

// Close stops the worker pool. The engine keeps working single threaded.
func (e *Engine) Close() {
	e.pool.Close()
}
