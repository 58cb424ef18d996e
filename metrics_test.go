package qsim

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given fresh metrics", t, func() {
		metrics := NewMetrics()

		Convey("Gates should be counted per kind", func() {
			start := time.Now().Add(-time.Millisecond)
			metrics.recordGate(KindPauliX, start, nil)
			metrics.recordGate(KindPauliX, start, nil)
			metrics.recordGate(KindGeneral, start, nil)

			So(testutil.ToFloat64(metrics.gates.WithLabelValues("x")), ShouldEqual, 2.0)
			So(testutil.ToFloat64(metrics.gates.WithLabelValues("general")), ShouldEqual, 1.0)

			exported := metrics.ExportMetrics()
			So(exported["gates"], ShouldResemble, map[string]int64{"x": 2, "general": 1})
			So(exported["avg_latency_us"].(int64), ShouldBeGreaterThanOrEqualTo, int64(1000))
			So(metrics.P99ApplyLatency, ShouldBeGreaterThanOrEqualTo, metrics.P95ApplyLatency)
		})

		Convey("A failed gate should count as an error, not a gate", func() {
			metrics.recordGate(KindSwap, time.Now(), errors.Wrap(ErrShapeMismatch, "bad"))

			So(testutil.ToFloat64(metrics.errors.WithLabelValues("shape_mismatch")), ShouldEqual, 1.0)
			So(metrics.GateCount, ShouldBeEmpty)
		})

		Convey("Errors should be labelled by kind", func() {
			metrics.recordError(ErrPrecisionMismatch)
			metrics.recordCollapse(time.Now(), errors.WithMessage(ErrZeroProbabilitySubspace, "collapse"))
			metrics.recordError(errors.New("disk on fire"))

			So(metrics.ExportMetrics()["errors"], ShouldResemble, map[string]int64{
				"precision_mismatch":        1,
				"zero_probability_subspace": 1,
				"other":                     1,
			})
			So(metrics.CollapseCount, ShouldEqual, int64(0))
		})

		Convey("The latency window should stay bounded", func() {
			for i := 0; i < metrics.windowSize+50; i++ {
				metrics.recordGate(KindPauliZ, time.Now(), nil)
			}
			So(len(metrics.latencyWindow), ShouldEqual, metrics.windowSize)
			So(metrics.GateCount["z"], ShouldEqual, int64(metrics.windowSize+50))
		})

		Convey("Collectors should register once", func() {
			reg := prometheus.NewRegistry()
			So(metrics.Register(reg), ShouldBeNil)
			So(metrics.Register(reg), ShouldNotBeNil)

			metrics.recordJob()
			metrics.setWorkers(3)
			So(testutil.ToFloat64(metrics.jobs), ShouldEqual, 1.0)
			So(testutil.ToFloat64(metrics.workers), ShouldEqual, 3.0)

			count, err := testutil.GatherAndCount(reg, "qsim_pool_workers")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 1)
		})
	})

	Convey("Given an engine", t, func() {
		engine := newTestEngine(Double)
		Reset(engine.Close)

		Convey("Gates and collapses applied through it should show up in its metrics", func() {
			sv, err := engine.NewState(3)
			So(err, ShouldBeNil)
			So(engine.ApplyAll(sv, H(0), H(1), CNOT(0, 2), ZPow(1, 0.5)), ShouldBeNil)
			So(engine.Collapse(sv, []int{0}, []int{1}), ShouldBeNil)

			exported := engine.Metrics().ExportMetrics()
			So(exported["gates"], ShouldResemble, map[string]int64{"general": 2, "x": 1, "zpow": 1})
			So(exported["collapses"], ShouldEqual, int64(1))
			So(exported["worker_count"], ShouldEqual, 4)
		})

		Convey("A failed allocation should be counted", func() {
			_, err := engine.NewState(0)
			So(err, ShouldNotBeNil)
			So(engine.Metrics().ExportMetrics()["errors"], ShouldResemble, map[string]int64{"shape_mismatch": 1})
		})
	})
}
