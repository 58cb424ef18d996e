package qsim

import (
	"sort"
)

/*
IndexMapper enumerates the groups of amplitudes a gate transforms together.

For a gate with k targets and c controls on an N qubit register there are
2^(N-k-c) groups of 2^k amplitudes each. Group i is found by inserting zero
bits into i at every target and control position, then setting the control
bits to one; the resulting base offset has all target bits cleared. Groups
never share an amplitude, so any partition of [0, Len()) can be processed
concurrently.

Qubit q maps to bit N-1-q of the flat index (qubit 0 is most significant).
*/
type IndexMapper struct {
	nqubits     int
	targets     []int
	controls    []int
	zeroBits    []uint
	controlMask int
	offsets     []int
}

// NewIndexMapper validates the qubit lists and precomputes the bit layout.
func NewIndexMapper(nqubits int, targets, controls []int) (*IndexMapper, error) {
	if err := validateQubits(nqubits, targets, controls); err != nil {
		return nil, err
	}

	m := &IndexMapper{
		nqubits:  nqubits,
		targets:  append([]int(nil), targets...),
		controls: append([]int(nil), controls...),
		zeroBits: make([]uint, 0, len(targets)+len(controls)),
	}

	for _, t := range targets {
		m.zeroBits = append(m.zeroBits, m.bit(t))
	}
	for _, c := range controls {
		pos := m.bit(c)
		m.zeroBits = append(m.zeroBits, pos)
		m.controlMask |= 1 << pos
	}
	sort.Slice(m.zeroBits, func(i, j int) bool { return m.zeroBits[i] < m.zeroBits[j] })

	// targets[0] is the most significant bit of the local index.
	k := len(targets)
	m.offsets = make([]int, 1<<k)
	for local := range m.offsets {
		for j, t := range targets {
			if local&(1<<(k-1-j)) != 0 {
				m.offsets[local] |= 1 << m.bit(t)
			}
		}
	}

	return m, nil
}

func (m *IndexMapper) bit(qubit int) uint {
	return uint(m.nqubits - 1 - qubit)
}

// Len is the number of groups.
func (m *IndexMapper) Len() int {
	return 1 << (m.nqubits - len(m.zeroBits))
}

// GroupSize is the number of amplitudes per group, 2^k.
func (m *IndexMapper) GroupSize() int {
	return len(m.offsets)
}

// Base returns the offset of group i with every target bit cleared.
func (m *IndexMapper) Base(i int) int {
	for _, p := range m.zeroBits {
		low := i & (1<<p - 1)
		i = (i>>p)<<(p+1) | low
	}
	return i | m.controlMask
}

// Pair returns both offsets of group i for a single target gate.
func (m *IndexMapper) Pair(i int) (int, int) {
	base := m.Base(i)
	return base, base | m.offsets[1]
}

// Offset maps a local matrix index within a group onto the flat index.
func (m *IndexMapper) Offset(base, local int) int {
	return base | m.offsets[local]
}

// TargetMask has the bits of every target set.
func (m *IndexMapper) TargetMask() int {
	return m.offsets[len(m.offsets)-1]
}
