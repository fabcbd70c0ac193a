package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/usercache-go/pkg/lockmap"
)

// StatsSource is implemented by *lockmap.Map.
type StatsSource interface {
	Stats() lockmap.Stats
}

// MapCollector exports the table statistics of one map.
type MapCollector struct {
	src StatsSource

	entries      *prometheus.Desc
	capacity     *prometheus.Desc
	threshold    *prometheus.Desc
	resizes      *prometheus.Desc
	usedBuckets  *prometheus.Desc
	longestChain *prometheus.Desc
}

// NewMapCollector creates a collector for src. name is attached as the
// "map" label so several maps can share a registry.
func NewMapCollector(name string, src StatsSource) *MapCollector {
	labels := prometheus.Labels{"map": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("lockmap", "", metric), help, nil, labels)
	}
	return &MapCollector{
		src:          src,
		entries:      desc("entries", "Number of live entries."),
		capacity:     desc("capacity", "Number of buckets in the table."),
		threshold:    desc("resize_threshold", "Size at which the next insertion grows the table."),
		resizes:      desc("resizes_total", "Number of times the table doubled."),
		usedBuckets:  desc("used_buckets", "Buckets holding at least one entry."),
		longestChain: desc("longest_chain", "Length of the longest bucket chain."),
	}
}

// Describe implements prometheus.Collector.
func (c *MapCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.threshold
	ch <- c.resizes
	ch <- c.usedBuckets
	ch <- c.longestChain
}

// Collect implements prometheus.Collector.
func (c *MapCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.threshold, prometheus.GaugeValue, s.Threshold())
	ch <- prometheus.MustNewConstMetric(c.resizes, prometheus.CounterValue, float64(s.Resizes))
	ch <- prometheus.MustNewConstMetric(c.usedBuckets, prometheus.GaugeValue, float64(s.UsedBuckets))
	ch <- prometheus.MustNewConstMetric(c.longestChain, prometheus.GaugeValue, float64(s.LongestChain))
}
