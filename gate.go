package qsim

import (
	"fmt"
	"math/cmplx"
)

// GateKind selects the kernel a gate is dispatched to.
type GateKind int

const (
	KindGeneral GateKind = iota
	KindPauliX
	KindPauliY
	KindPauliZ
	KindZPow
	KindSwap
)

func (k GateKind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindPauliX:
		return "x"
	case KindPauliY:
		return "y"
	case KindPauliZ:
		return "z"
	case KindZPow:
		return "zpow"
	case KindSwap:
		return "swap"
	default:
		return "unknown"
	}
}

/*
Gate is an immutable description of one operation: a kernel kind, the matrix
for general gates, the phase angle for ZPow, the target qubits and the
control qubits. Controls must all read 1 for the gate to act on a group.
*/
type Gate struct {
	kind     GateKind
	matrix   Matrix
	theta    float64
	targets  []int
	controls []int
}

// NewGate wraps an arbitrary 2^k x 2^k matrix acting on k targets.
func NewGate(m Matrix, targets ...int) Gate {
	return Gate{kind: KindGeneral, matrix: m, targets: append([]int(nil), targets...)}
}

func X(target int) Gate { return Gate{kind: KindPauliX, targets: []int{target}} }
func Y(target int) Gate { return Gate{kind: KindPauliY, targets: []int{target}} }
func Z(target int) Gate { return Gate{kind: KindPauliZ, targets: []int{target}} }

// ZPow multiplies the |1⟩ branch of target by e^(iθ).
func ZPow(target int, theta float64) Gate {
	return Gate{kind: KindZPow, theta: theta, targets: []int{target}}
}

func Swap(a, b int) Gate {
	return Gate{kind: KindSwap, targets: []int{a, b}}
}

// Controlled returns a copy of g with additional control qubits.
func (g Gate) Controlled(controls ...int) Gate {
	out := g
	out.targets = append([]int(nil), g.targets...)
	out.controls = append(append([]int(nil), g.controls...), controls...)
	return out
}

func (g Gate) Kind() GateKind  { return g.kind }
func (g Gate) Theta() float64  { return g.theta }
func (g Gate) Matrix() Matrix  { return g.matrix }
func (g Gate) Targets() []int  { return append([]int(nil), g.targets...) }
func (g Gate) Controls() []int { return append([]int(nil), g.controls...) }

/*
Dense returns the matrix the gate's kernel is equivalent to. Specialised kinds
produce a double precision matrix; general gates return their own matrix.
*/
func (g Gate) Dense() Matrix {
	switch g.kind {
	case KindPauliX:
		return mustMatrix(0, 1, 1, 0)
	case KindPauliY:
		return mustMatrix(0, -1i, 1i, 0)
	case KindPauliZ:
		return mustMatrix(1, 0, 0, -1)
	case KindZPow:
		return mustMatrix(1, 0, 0, cmplx.Exp(complex(0, g.theta)))
	case KindSwap:
		return mustMatrix(
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
		)
	}
	return g.matrix
}

// Inverse returns the gate implementing the conjugate transpose of g.
func (g Gate) Inverse() Gate {
	out := g.Controlled()
	switch g.kind {
	case KindZPow:
		out.theta = -g.theta
	case KindGeneral:
		out.matrix = g.matrix.Dagger()
	}
	return out
}

func (g Gate) String() string {
	if g.kind == KindZPow {
		return fmt.Sprintf("%s(%.4f) targets=%v controls=%v", g.kind, g.theta, g.targets, g.controls)
	}
	return fmt.Sprintf("%s targets=%v controls=%v", g.kind, g.targets, g.controls)
}
