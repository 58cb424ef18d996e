package qsim

import "sync"

// Job is one contiguous chunk [Lo, Hi) of a data-parallel loop
type Job struct {
	ID   int
	Lo   int
	Hi   int
	Fn   func(lo, hi int)
	done *sync.WaitGroup
}

func (j Job) run() {
	defer j.done.Done()
	j.Fn(j.Lo, j.Hi)
}
