package qsim

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

/*
Metrics tracks what the engine has done: gates applied per kind, collapses,
errors per kind, and gate latency over a sliding window. The same events are
mirrored into Prometheus collectors, which a caller can expose by passing a
registerer to Register.
*/
type Metrics struct {
	mu             sync.RWMutex
	WorkerCount    int
	GateCount      map[string]int64
	ErrorCount     map[string]int64
	CollapseCount  int64
	TotalApplyTime time.Duration

	AverageApplyLatency time.Duration
	P95ApplyLatency     time.Duration
	P99ApplyLatency     time.Duration

	jobCount atomic.Int64

	// Sliding window of recent gate latencies.
	latencyWindow []time.Duration
	windowSize    int
	applied       int64

	gates   *prometheus.CounterVec
	errors  *prometheus.CounterVec
	latency *prometheus.HistogramVec
	jobs    prometheus.Counter
	workers prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		GateCount:     make(map[string]int64),
		ErrorCount:    make(map[string]int64),
		latencyWindow: make([]time.Duration, 0, 1000),
		windowSize:    1000,
		gates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qsim",
			Name:      "gates_applied_total",
			Help:      "Gates applied to a state vector, by kernel kind.",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qsim",
			Name:      "errors_total",
			Help:      "Rejected operations, by error kind.",
		}, []string{"kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qsim",
			Name:      "operation_duration_seconds",
			Help:      "Wall time of gate applications and collapses.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"operation"}),
		jobs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsim",
			Name:      "pool_chunks_total",
			Help:      "Chunks processed by pool workers.",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "qsim",
			Name:      "pool_workers",
			Help:      "Running pool workers.",
		}),
	}
}

// Register exposes the collectors on reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.gates, m.errors, m.latency, m.jobs, m.workers} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) recordGate(kind GateKind, startTime time.Time, err error) {
	duration := time.Since(startTime)
	m.latency.WithLabelValues("apply").Observe(duration.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.recordErrorLocked(err)
		return
	}

	m.gates.WithLabelValues(kind.String()).Inc()
	m.GateCount[kind.String()]++
	m.TotalApplyTime += duration
	m.applied++

	m.latencyWindow = append(m.latencyWindow, duration)
	if len(m.latencyWindow) > m.windowSize {
		m.latencyWindow = m.latencyWindow[1:]
	}
}

func (m *Metrics) recordCollapse(startTime time.Time, err error) {
	m.latency.WithLabelValues("collapse").Observe(time.Since(startTime).Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.recordErrorLocked(err)
		return
	}
	m.CollapseCount++
}

func (m *Metrics) recordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErrorLocked(err)
}

func (m *Metrics) recordErrorLocked(err error) {
	kind := errorKind(err)
	m.errors.WithLabelValues(kind).Inc()
	m.ErrorCount[kind]++
}

func (m *Metrics) recordJob() {
	m.jobCount.Add(1)
	m.jobs.Inc()
}

func (m *Metrics) setWorkers(n int) {
	m.workers.Set(float64(n))

	m.mu.Lock()
	m.WorkerCount = n
	m.mu.Unlock()
}

// JobCount is the number of chunks workers have completed.
func (m *Metrics) JobCount() int64 {
	return m.jobCount.Load()
}

// updateLatencyPercentiles recomputes the window statistics. Callers hold mu.
func (m *Metrics) updateLatencyPercentiles() {
	if m.applied > 0 {
		m.AverageApplyLatency = m.TotalApplyTime / time.Duration(m.applied)
	}

	if len(m.latencyWindow) == 0 {
		return
	}

	sorted := append([]time.Duration(nil), m.latencyWindow...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
	p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

	m.P95ApplyLatency = sorted[p95Index]
	m.P99ApplyLatency = sorted[p99Index]
}

// ExportMetrics returns a flat snapshot for logging or printing.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateLatencyPercentiles()

	gates := make(map[string]int64, len(m.GateCount))
	for k, v := range m.GateCount {
		gates[k] = v
	}
	errs := make(map[string]int64, len(m.ErrorCount))
	for k, v := range m.ErrorCount {
		errs[k] = v
	}

	return map[string]interface{}{
		"worker_count":   m.WorkerCount,
		"gates":          gates,
		"errors":         errs,
		"collapses":      m.CollapseCount,
		"chunks":         m.jobCount.Load(),
		"avg_latency_us": m.AverageApplyLatency.Microseconds(),
		"p95_latency_us": m.P95ApplyLatency.Microseconds(),
		"p99_latency_us": m.P99ApplyLatency.Microseconds(),
	}
}
