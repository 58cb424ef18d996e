package qsim

import (
	"context"
	"sync/atomic"
)

// Worker processes chunk jobs from the pool queue
type Worker struct {
	pool      *Q
	id        int
	processed atomic.Int64
	cancel    context.CancelFunc
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.pool.jobs:
			w.processJob(job)
		}
	}
}

func (w *Worker) processJob(job Job) {
	job.run()
	w.processed.Add(1)
	w.pool.metrics.recordJob()
}

// Processed reports how many chunks this worker has completed.
func (w *Worker) Processed() int64 {
	return w.processed.Load()
}
