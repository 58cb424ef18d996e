package qsim

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
	"gopkg.in/yaml.v3"
)

/*
Circuit is a gate list read from YAML. It is the thin orchestration layer the
CLI drives: steps run strictly in file order, and a step named "collapse"
projects its targets onto the given outcome.

	qubits: 2
	precision: double
	gates:
	  - {name: h, targets: [0]}
	  - {name: cx, controls: [0], targets: [1]}
	  - {name: collapse, targets: [0], outcome: [1]}
*/
type Circuit struct {
	Qubits    int    `yaml:"qubits"`
	Precision string `yaml:"precision,omitempty"`
	Steps     []Step `yaml:"gates"`
}

// Step is one entry of a circuit file.
type Step struct {
	Name     string    `yaml:"name"`
	Targets  []int     `yaml:"targets,flow"`
	Controls []int     `yaml:"controls,flow,omitempty"`
	Params   []float64 `yaml:"params,flow,omitempty"`
	Outcome  []int     `yaml:"outcome,flow,omitempty"`
}

type stepBuilder func(s Step) (Gate, error)

var stepBuilders = map[string]stepBuilder{
	"h":       single(H),
	"x":       single(X),
	"y":       single(Y),
	"z":       single(Z),
	"s":       single(S),
	"sdg":     single(Sdg),
	"t":       single(T),
	"tdg":     single(Tdg),
	"rx":      rotation(RX),
	"ry":      rotation(RY),
	"rz":      rotation(RZ),
	"zpow":    rotation(ZPow),
	"u1":      rotation(ZPow),
	"p":       rotation(ZPow),
	"cx":      controlled(X),
	"cnot":    controlled(X),
	"cz":      controlled(Z),
	"swap":    buildSwap,
	"u3":      buildU3,
	"unitary": buildUnitary,
}

func single(fn func(int) Gate) stepBuilder {
	return func(s Step) (Gate, error) {
		if len(s.Targets) != 1 {
			return Gate{}, errors.Wrapf(ErrShapeMismatch, "%s needs 1 target", s.Name)
		}
		return fn(s.Targets[0]).Controlled(s.Controls...), nil
	}
}

func rotation(fn func(int, float64) Gate) stepBuilder {
	return func(s Step) (Gate, error) {
		if len(s.Targets) != 1 || len(s.Params) != 1 {
			return Gate{}, errors.Wrapf(ErrShapeMismatch, "%s needs 1 target and 1 param", s.Name)
		}
		return fn(s.Targets[0], s.Params[0]).Controlled(s.Controls...), nil
	}
}

// controlled builds cx/cz, which must name at least one control.
func controlled(fn func(int) Gate) stepBuilder {
	return func(s Step) (Gate, error) {
		if len(s.Controls) == 0 {
			return Gate{}, errors.Wrapf(ErrShapeMismatch, "%s needs a control", s.Name)
		}
		return single(fn)(s)
	}
}

func buildSwap(s Step) (Gate, error) {
	if len(s.Targets) != 2 {
		return Gate{}, errors.Wrap(ErrShapeMismatch, "swap needs 2 targets")
	}
	return Swap(s.Targets[0], s.Targets[1]).Controlled(s.Controls...), nil
}

func buildU3(s Step) (Gate, error) {
	if len(s.Targets) != 1 || len(s.Params) != 3 {
		return Gate{}, errors.Wrap(ErrShapeMismatch, "u3 needs 1 target and 3 params")
	}
	return U3(s.Targets[0], s.Params[0], s.Params[1], s.Params[2]).Controlled(s.Controls...), nil
}

// buildUnitary reads params as row-major (re, im) pairs.
func buildUnitary(s Step) (Gate, error) {
	if len(s.Params)%2 != 0 {
		return Gate{}, errors.Wrap(ErrShapeMismatch, "unitary params must be (re, im) pairs")
	}

	entries := make([]complex128, len(s.Params)/2)
	for i := range entries {
		entries[i] = complex(s.Params[2*i], s.Params[2*i+1])
	}

	m, err := NewMatrix(entries...)
	if err != nil {
		return Gate{}, err
	}
	return NewGate(m, s.Targets...).Controlled(s.Controls...), nil
}

// ParseCircuit decodes a YAML circuit.
func ParseCircuit(data []byte) (*Circuit, error) {
	c := &Circuit{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "decode circuit")
	}
	if c.Qubits < 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "circuit declares %d qubits", c.Qubits)
	}
	return c, nil
}

func LoadCircuit(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return ParseCircuit(data)
}

func (c *Circuit) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (s Step) isCollapse() bool {
	return strings.EqualFold(s.Name, "collapse")
}

// Gate builds the gate for s with its matrix in the given precision.
func (s Step) Gate(precision Precision) (Gate, error) {
	build, ok := stepBuilders[strings.ToLower(s.Name)]
	if !ok {
		return Gate{}, errors.Errorf("unknown gate %q", s.Name)
	}

	g, err := build(s)
	if err != nil {
		return Gate{}, err
	}

	if g.kind == KindGeneral {
		g.matrix = g.matrix.As(precision)
	}
	return g, nil
}

/*
Run executes every step against sv in order. The first failing step stops the
run; sv keeps the effect of every step before it.
*/
func (c *Circuit) Run(e *Engine, sv *StateVector) error {
	if sv.nqubits != c.Qubits {
		return errors.Wrapf(
			ErrShapeMismatch, "circuit has %d qubits, state has %d",
			c.Qubits, sv.nqubits,
		)
	}

	runID := uuid.New()
	errnie.Info("run %s: %d qubits, %d steps, %s precision", runID, c.Qubits, len(c.Steps), sv.precision)

	for i, s := range c.Steps {
		if s.isCollapse() {
			if err := e.Collapse(sv, s.Targets, s.Outcome); err != nil {
				return errors.WithMessagef(err, "run %s step %d (collapse)", runID, i)
			}
			continue
		}

		g, err := s.Gate(sv.precision)
		if err != nil {
			return errors.WithMessagef(err, "run %s step %d (%s)", runID, i, s.Name)
		}
		if err := e.Apply(sv, g); err != nil {
			return errors.WithMessagef(err, "run %s step %d (%s)", runID, i, s.Name)
		}
	}

	errnie.Info("run %s finished", runID)
	return nil
}
