package qsim

/*
pairUpdate is the common capability of every single target kernel: given the
two offsets of a group, (x0, x1) with the target bit clear and set, replace
them in place. Implementations read both values before writing either.
*/
type pairUpdate[T amplitude] interface {
	update(amps []T, i0, i1 int)
}

// generalPair applies [[a, b], [c, d]].
type generalPair[T amplitude] struct {
	a, b, c, d T
}

func (u generalPair[T]) update(amps []T, i0, i1 int) {
	x0, x1 := amps[i0], amps[i1]
	amps[i0] = u.a*x0 + u.b*x1
	amps[i1] = u.c*x0 + u.d*x1
}

type pauliX[T amplitude] struct{}

func (pauliX[T]) update(amps []T, i0, i1 int) {
	amps[i0], amps[i1] = amps[i1], amps[i0]
}

type pauliY[T amplitude] struct{}

func (pauliY[T]) update(amps []T, i0, i1 int) {
	x0, x1 := amps[i0], amps[i1]
	amps[i0] = -1i * x1
	amps[i1] = 1i * x0
}

type pauliZ[T amplitude] struct{}

func (pauliZ[T]) update(amps []T, _, i1 int) {
	amps[i1] = -amps[i1]
}

// phasePair multiplies the |1⟩ branch by a fixed phase.
type phasePair[T amplitude] struct {
	phase T
}

func (u phasePair[T]) update(amps []T, _, i1 int) {
	amps[i1] *= u.phase
}

// applyPairs fans a single target kernel out over every group of m.
func applyPairs[T amplitude, U pairUpdate[T]](pool *Q, amps []T, m *IndexMapper, u U) {
	pool.ParallelFor(m.Len(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			i0, i1 := m.Pair(i)
			u.update(amps, i0, i1)
		}
	})
}

// applySwap exchanges the |01⟩ and |10⟩ amplitudes of every group.
func applySwap[T amplitude](pool *Q, amps []T, m *IndexMapper) {
	pool.ParallelFor(m.Len(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			base := m.Base(i)
			i1, i2 := m.Offset(base, 1), m.Offset(base, 2)
			amps[i1], amps[i2] = amps[i2], amps[i1]
		}
	})
}

/*
applyMatrix multiplies every group of 2^k amplitudes by a dense row-major
2^k x 2^k matrix. Each chunk gathers a group into its own scratch buffer, so
the original values stay available until the whole row product is written.
*/
func applyMatrix[T amplitude](pool *Q, amps []T, m *IndexMapper, mat []T) {
	size := m.GroupSize()

	pool.ParallelFor(m.Len(), func(lo, hi int) {
		scratch := make([]T, size)
		offsets := make([]int, size)

		for i := lo; i < hi; i++ {
			base := m.Base(i)
			for l := range scratch {
				offsets[l] = m.Offset(base, l)
				scratch[l] = amps[offsets[l]]
			}

			for r := 0; r < size; r++ {
				row := mat[r*size : (r+1)*size]
				var acc T
				for c, x := range scratch {
					acc += row[c] * x
				}
				amps[offsets[r]] = acc
			}
		}
	})
}
