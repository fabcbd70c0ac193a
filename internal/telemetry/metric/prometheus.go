package metric

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "usercache"

// Operation labels.
const (
	OpPut    = "put"
	OpGet    = "get"
	OpRemove = "remove"
)

// Result labels.
const (
	ResultInserted = "inserted"
	ResultReplaced = "replaced"
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultMismatch = "mismatch"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec
	Runs       prometheus.Counter
}

// NewRegistry creates a registry with the workload metrics and the Go
// runtime collector registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Map operations performed by workload workers.",
		}, []string{"op", "result"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "op_duration_seconds",
			Help:      "Latency of map operations, including lock wait.",
			Buckets:   prometheus.ExponentialBuckets(100e-9, 4, 12),
		}, []string{"op"}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed workload runs.",
		}),
	}

	r.registry.MustRegister(
		r.OpsTotal,
		r.OpDuration,
		r.Runs,
		collectors.NewGoCollector(),
	)
	return r
}

// Register adds a collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveOp records one map operation.
func (r *Registry) ObserveOp(op, result string, d time.Duration) {
	r.OpsTotal.WithLabelValues(op, result).Inc()
	r.OpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
