package workload

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorded latencies are clamped to [1ns, 1min].
const (
	minLatency = int64(time.Nanosecond)
	maxLatency = int64(time.Minute)
	sigFigures = 3
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency, maxLatency, sigFigures)
}

func record(h *hdrhistogram.Histogram, d time.Duration) {
	v := int64(d)
	if v < minLatency {
		v = minLatency
	}
	if v > maxLatency {
		v = maxLatency
	}
	_ = h.RecordValue(v)
}

// Latency summarizes one operation's latency distribution.
type Latency struct {
	Count int64         `json:"count" yaml:"count"`
	P50   time.Duration `json:"p50" yaml:"p50"`
	P99   time.Duration `json:"p99" yaml:"p99"`
	Max   time.Duration `json:"max" yaml:"max"`
}

func summarize(h *hdrhistogram.Histogram) Latency {
	if h.TotalCount() == 0 {
		return Latency{}
	}
	return Latency{
		Count: h.TotalCount(),
		P50:   time.Duration(h.ValueAtQuantile(50)),
		P99:   time.Duration(h.ValueAtQuantile(99)),
		Max:   time.Duration(h.Max()),
	}
}
