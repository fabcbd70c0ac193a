// Package metric provides Prometheus metrics for usercache.
//
// This package implements metrics collection and text exposition:
//
//   - prometheus.go: registry and workload operation metrics
//   - collector.go: collector exporting lockmap table statistics
//
// Metrics are gathered into a private registry and written in the
// Prometheus text format at the end of a run. No HTTP endpoint is served.
package metric
