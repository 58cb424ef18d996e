package qsim

import (
	"math"
	"math/cmplx"
)

// Standard single qubit gates. Matrices are double precision; use
// Matrix.As to narrow them for a single precision register.

func H(target int) Gate {
	h := complex(1/math.Sqrt2, 0)
	return NewGate(mustMatrix(h, h, h, -h), target)
}

func S(target int) Gate   { return ZPow(target, math.Pi/2) }
func Sdg(target int) Gate { return ZPow(target, -math.Pi/2) }
func T(target int) Gate   { return ZPow(target, math.Pi/4) }
func Tdg(target int) Gate { return ZPow(target, -math.Pi/4) }

func RX(target int, theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return NewGate(mustMatrix(c, s, s, c), target)
}

func RY(target int, theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return NewGate(mustMatrix(c, -s, s, c), target)
}

func RZ(target int, theta float64) Gate {
	phase := cmplx.Exp(complex(0, theta/2))
	return NewGate(mustMatrix(cmplx.Conj(phase), 0, 0, phase), target)
}

// U3 is the generic single qubit rotation with Euler angles θ, φ, λ.
func U3(target int, theta, phi, lambda float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return NewGate(mustMatrix(
		c, -cmplx.Exp(complex(0, lambda))*s,
		cmplx.Exp(complex(0, phi))*s, cmplx.Exp(complex(0, phi+lambda))*c,
	), target)
}

func CNOT(control, target int) Gate { return X(target).Controlled(control) }
func CZ(control, target int) Gate   { return Z(target).Controlled(control) }

// Toffoli flips target when both controls are set.
func Toffoli(c0, c1, target int) Gate { return X(target).Controlled(c0, c1) }
