package qsim

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const timeoutMsg = "Test timed out waiting for the worker"

func TestWorker(t *testing.T) {
	Convey("Given a worker reading from a pool queue", t, func() {
		pool := &Q{
			jobs:    make(chan Job, 1),
			metrics: NewMetrics(),
			config:  NewConfig(),
		}
		worker := &Worker{pool: pool}

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})
		go func() {
			worker.run(ctx)
			close(stopped)
		}()

		Reset(func() {
			cancel()
			<-stopped
		})

		Convey("It should run a queued chunk over its range", func() {
			var done sync.WaitGroup
			var gotLo, gotHi int

			done.Add(1)
			pool.jobs <- Job{ID: 0, Lo: 3, Hi: 9, Fn: func(lo, hi int) { gotLo, gotHi = lo, hi }, done: &done}

			finished := make(chan struct{})
			go func() {
				done.Wait()
				close(finished)
			}()

			select {
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			case <-finished:
			}

			So(gotLo, ShouldEqual, 3)
			So(gotHi, ShouldEqual, 9)
		})

		Convey("It should count every chunk it completes", func() {
			var done sync.WaitGroup
			for i := 0; i < 5; i++ {
				done.Add(1)
				pool.jobs <- Job{ID: i, Lo: i, Hi: i + 1, Fn: func(lo, hi int) {}, done: &done}
			}
			done.Wait()

			cancel()
			<-stopped

			So(worker.Processed(), ShouldEqual, int64(5))
			So(pool.metrics.JobCount(), ShouldEqual, int64(5))
		})

		Convey("It should stop when its context is cancelled", func() {
			cancel()

			select {
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			case <-stopped:
			}
			So(ctx.Err(), ShouldNotBeNil)
		})
	})
}
