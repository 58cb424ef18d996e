package qsim

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQ(t *testing.T) {
	Convey("Given a pool with 4 workers", t, func() {
		config := &Config{Precision: Double, Workers: 4, MinChunk: 8}
		metrics := NewMetrics()
		pool := NewQ(context.Background(), 4, config, metrics)
		Reset(pool.Close)

		So(pool.Workers(), ShouldEqual, 4)
		So(metrics.ExportMetrics()["worker_count"], ShouldEqual, 4)

		Convey("ParallelFor should visit every index exactly once", func() {
			visits := make([]int32, 1000)
			pool.ParallelFor(len(visits), func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&visits[i], 1)
				}
			})

			for i := range visits {
				So(visits[i], ShouldEqual, int32(1))
			}
		})

		Convey("Chunks should respect the minimum size", func() {
			So(pool.chunkSize(8), ShouldEqual, 8)
			So(pool.chunkSize(20), ShouldEqual, 8)
			So(pool.chunkSize(1600), ShouldEqual, 100)
		})

		Convey("ParallelSum should add the partial results", func() {
			total := pool.ParallelSum(1000, func(lo, hi int) float64 {
				var s float64
				for i := lo; i < hi; i++ {
					s += float64(i)
				}
				return s
			})
			So(total, ShouldEqual, 499500.0)
		})

		Convey("Concurrent callers should not interfere", func() {
			var wg sync.WaitGroup
			results := make([]float64, 8)

			for c := range results {
				wg.Add(1)
				go func(c int) {
					defer wg.Done()
					results[c] = pool.ParallelSum(4096, func(lo, hi int) float64 {
						return float64(hi - lo)
					})
				}(c)
			}
			wg.Wait()

			for _, r := range results {
				So(r, ShouldEqual, 4096.0)
			}
		})

		Convey("Workers should pick up queued chunks", func() {
			for i := 0; i < 20; i++ {
				pool.ParallelFor(4096, func(lo, hi int) {})
			}

			pool.workerMu.Lock()
			workers := append([]*Worker(nil), pool.workerList...)
			pool.workerMu.Unlock()

			pool.Close()

			var processed int64
			for _, w := range workers {
				processed += w.Processed()
			}
			So(processed, ShouldEqual, metrics.JobCount())
		})

		Convey("After Close the pool should still work inline", func() {
			pool.Close()
			So(pool.Workers(), ShouldEqual, 0)
			So(metrics.ExportMetrics()["worker_count"], ShouldEqual, 0)

			var calls int
			pool.ParallelFor(1000, func(lo, hi int) {
				calls++
				So(lo, ShouldEqual, 0)
				So(hi, ShouldEqual, 1000)
			})
			So(calls, ShouldEqual, 1)

			pool.Close()
		})
	})

	Convey("Given a nil pool", t, func() {
		var pool *Q

		Convey("ParallelFor should run inline", func() {
			var calls int
			pool.ParallelFor(10, func(lo, hi int) { calls++ })
			So(calls, ShouldEqual, 1)
			So(pool.ParallelSum(0, func(lo, hi int) float64 { return 1 }), ShouldEqual, 0.0)
		})
	})
}
