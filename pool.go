package qsim

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/theapemachine/errnie"
)

// Q is the worker pool gate kernels fan out over
type Q struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	jobs       chan Job
	workerMu   sync.Mutex
	workerList []*Worker
	metrics    *Metrics
	config     *Config
	closed     atomic.Bool
}

// NewQ starts a pool with the given number of long-lived workers
func NewQ(ctx context.Context, workers int, config *Config, metrics *Metrics) *Q {
	if config == nil {
		config = NewConfig()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	q := &Q{
		ctx:        ctx,
		cancel:     cancel,
		jobs:       make(chan Job, workers*4),
		workerList: make([]*Worker, 0, workers),
		metrics:    metrics,
		config:     config,
	}

	for i := 0; i < workers; i++ {
		q.startWorker()
	}

	errnie.Info("started pool with %d workers, min chunk %d", workers, config.MinChunk)
	return q
}

func (q *Q) startWorker() {
	ctx, cancel := context.WithCancel(q.ctx)

	q.workerMu.Lock()
	worker := &Worker{
		pool:   q,
		id:     len(q.workerList),
		cancel: cancel,
	}
	q.workerList = append(q.workerList, worker)
	q.workerMu.Unlock()

	q.metrics.setWorkers(q.Workers())

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		worker.run(ctx)
	}()
}

// Workers is the number of running workers
func (q *Q) Workers() int {
	if q == nil {
		return 0
	}
	q.workerMu.Lock()
	defer q.workerMu.Unlock()
	return len(q.workerList)
}

/*
ParallelFor calls fn over disjoint chunks covering [0, n). Chunks are queued
for the workers; the calling goroutine then drains whatever is left in the
queue itself before waiting, so the call completes even when every worker is
busy or the pool has been closed. Small ranges run inline.
*/
func (q *Q) ParallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	chunk := q.chunkSize(n)
	if chunk >= n {
		fn(0, n)
		return
	}

	var done sync.WaitGroup
	for id, lo := 0, 0; lo < n; id, lo = id+1, lo+chunk {
		job := Job{ID: id, Lo: lo, Hi: min(lo+chunk, n), Fn: fn, done: &done}
		done.Add(1)

		select {
		case q.jobs <- job:
		default:
			job.run()
		}
	}

	q.drain()
	done.Wait()
}

/*
ParallelSum runs fn over the same chunks as ParallelFor and adds the partial
results in chunk order, so the total does not depend on scheduling.
*/
func (q *Q) ParallelSum(n int, fn func(lo, hi int) float64) float64 {
	if n <= 0 {
		return 0
	}

	chunk := q.chunkSize(n)
	partials := make([]float64, (n+chunk-1)/chunk)

	q.ParallelFor(n, func(lo, hi int) {
		partials[lo/chunk] = fn(lo, hi)
	})

	var total float64
	for _, p := range partials {
		total += p
	}
	return total
}

func (q *Q) drain() {
	for {
		select {
		case job := <-q.jobs:
			job.run()
		default:
			return
		}
	}
}

func (q *Q) chunkSize(n int) int {
	if q == nil || q.closed.Load() {
		return n
	}

	workers := q.Workers()
	if workers <= 1 || n <= q.config.MinChunk {
		return n
	}

	chunk := (n + workers*4 - 1) / (workers * 4)
	return max(chunk, q.config.MinChunk)
}

// Close stops all workers. Later ParallelFor calls run inline.
func (q *Q) Close() {
	if q == nil || q.closed.Swap(true) {
		return
	}

	errnie.Info("closing pool")

	q.workerMu.Lock()
	for _, worker := range q.workerList {
		worker.cancel()
	}
	q.workerMu.Unlock()

	q.cancel()
	q.wg.Wait()

	q.workerMu.Lock()
	q.workerList = nil
	q.workerMu.Unlock()

	q.drain()
	q.metrics.setWorkers(0)
}
