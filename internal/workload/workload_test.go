package workload

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/usercache-go/internal/telemetry/logger"
	"github.com/yndnr/usercache-go/internal/telemetry/metric"
	"github.com/yndnr/usercache-go/pkg/lockmap"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxDelay = 0
	return cfg
}

func TestRun_Default(t *testing.T) {
	cache := lockmap.MustNew[int, string]()

	rep, err := Run(context.Background(), cache, fastConfig(), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rep.Puts != 15 || rep.Gets != 15 {
		t.Errorf("puts/gets = %d/%d, want 15/15", rep.Puts, rep.Gets)
	}
	if rep.Expected != 15 || rep.Size != 15 {
		t.Errorf("expected/size = %d/%d, want 15/15", rep.Expected, rep.Size)
	}
	if rep.Mismatches != 0 || rep.Lost() != 0 || !rep.OK() {
		t.Errorf("report not clean: %+v", rep)
	}
	if len(rep.RunID) != 26 {
		t.Errorf("RunID = %q, want a ULID", rep.RunID)
	}
	if rep.Put.Count != 15 || rep.Get.Count != 15 {
		t.Errorf("latency counts = %d/%d, want 15/15", rep.Put.Count, rep.Get.Count)
	}
	if rep.Put.Max < rep.Put.P50 {
		t.Errorf("put max %s below p50 %s", rep.Put.Max, rep.Put.P50)
	}

	entries := Contents(cache)
	if len(entries) != 15 {
		t.Fatalf("Contents() returned %d entries, want 15", len(entries))
	}
	i := 0
	for w := 0; w < 5; w++ {
		for j := 0; j < 3; j++ {
			key := w*10 + j
			if entries[i].Key != key || entries[i].Value != UserValue(key) {
				t.Errorf("entries[%d] = %v, want %d -> User-%d", i, entries[i], key, key)
			}
			i++
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero keys", func(c *Config) { c.KeysPerWorker = 0 }},
		{"overlapping ranges", func(c *Config) { c.KeyStride = 2 }},
		{"negative delay", func(c *Config) { c.MaxDelay = -time.Second }},
		{"negative rate", func(c *Config) { c.Rate = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			_, err := Run(context.Background(), lockmap.MustNew[int, string](), cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Run() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := Run(ctx, lockmap.MustNew[int, string](), fastConfig(), WithLogger(logger.Discard()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if rep == nil {
		t.Fatal("Run() returned no partial report")
	}
	if rep.Puts != 0 {
		t.Errorf("Puts = %d, want 0", rep.Puts)
	}
}

func TestRun_CancelDuringPause(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDelay = time.Hour
	cfg.Seed = 42

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	rep, err := Run(ctx, lockmap.MustNew[int, string](), cfg, WithLogger(logger.Discard()))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run() took %s to observe cancellation", elapsed)
	}
	if rep.Puts != cfg.Workers {
		t.Errorf("Puts = %d, want one per worker before the first pause", rep.Puts)
	}
}

func TestRun_Metrics(t *testing.T) {
	reg := metric.NewRegistry()

	_, err := Run(context.Background(), lockmap.MustNew[int, string](), fastConfig(),
		WithMetrics(reg), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := testutil.ToFloat64(reg.OpsTotal.WithLabelValues(metric.OpPut, metric.ResultInserted)); got != 15 {
		t.Errorf("inserted puts = %v, want 15", got)
	}
	if got := testutil.ToFloat64(reg.OpsTotal.WithLabelValues(metric.OpGet, metric.ResultHit)); got != 15 {
		t.Errorf("get hits = %v, want 15", got)
	}
	if got := testutil.ToFloat64(reg.Runs); got != 1 {
		t.Errorf("runs = %v, want 1", got)
	}
}

func TestRun_SecondRunReplaces(t *testing.T) {
	reg := metric.NewRegistry()
	cache := lockmap.MustNew[int, string]()

	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), cache, fastConfig(),
			WithMetrics(reg), WithLogger(logger.Discard())); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if got := testutil.ToFloat64(reg.OpsTotal.WithLabelValues(metric.OpPut, metric.ResultReplaced)); got != 15 {
		t.Errorf("replaced puts = %v, want 15", got)
	}
	if cache.Size() != 15 {
		t.Errorf("Size() = %d, want 15", cache.Size())
	}
}

func TestRun_Resizes(t *testing.T) {
	cache := lockmap.MustNew[int, string](lockmap.WithCapacity(1), lockmap.WithLoadFactor(1))

	rep, err := Run(context.Background(), cache, fastConfig(), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 1 -> 2 -> 4 -> 8 -> 16
	if rep.Resizes != 4 || rep.Capacity != 16 {
		t.Errorf("resizes/capacity = %d/%d, want 4/16", rep.Resizes, rep.Capacity)
	}
}

func TestRun_RateLimited(t *testing.T) {
	cfg := fastConfig()
	cfg.Workers = 2
	cfg.Rate = 1000

	rep, err := Run(context.Background(), lockmap.MustNew[int, string](), cfg, WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !rep.OK() || rep.Size != 6 {
		t.Errorf("report = %+v, want 6 clean entries", rep)
	}
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	t.Cleanup(func() { logger.SetLevel("info") })

	_, err = Run(context.Background(), lockmap.MustNew[int, string](), fastConfig(),
		WithLogger(log), WithRunID("run-1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, `"msg":"added"`); n != 15 {
		t.Errorf("logged %d writes, want 15", n)
	}
	if n := strings.Count(out, `"msg":"read"`); n != 15 {
		t.Errorf("logged %d reads, want 15", n)
	}
	for _, want := range []string{`"msg":"workload started"`, `"msg":"workload finished"`, `"run_id":"run-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s", want)
		}
	}
}

func TestLogResizes(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	cache := lockmap.MustNew[int, string](lockmap.WithResizeHook(LogResizes(log)))
	for i := 0; i < 13; i++ {
		cache.Put(i, UserValue(i))
	}

	out := buf.String()
	if !strings.Contains(out, `"msg":"table grown"`) || !strings.Contains(out, `"new_capacity":32`) {
		t.Errorf("resize not logged: %s", out)
	}
}

func TestReport_Lost(t *testing.T) {
	tests := []struct {
		expected, size, mismatches int
		lost                       int
		ok                         bool
	}{
		{15, 15, 0, 0, true},
		{15, 13, 0, 2, false},
		{15, 20, 0, 0, true},
		{15, 15, 1, 0, false},
	}

	for _, tt := range tests {
		r := &Report{Expected: tt.expected, Size: tt.size, Mismatches: tt.mismatches}
		if r.Lost() != tt.lost || r.OK() != tt.ok {
			t.Errorf("%+v: Lost() = %d, OK() = %v, want %d, %v", tt, r.Lost(), r.OK(), tt.lost, tt.ok)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := summarize(newHistogram()); got != (Latency{}) {
		t.Errorf("summarize(empty) = %+v, want zero", got)
	}
}

func TestRecord_Clamps(t *testing.T) {
	h := newHistogram()
	record(h, 0)
	record(h, 2*time.Hour)

	if h.TotalCount() != 2 {
		t.Fatalf("TotalCount() = %d, want 2", h.TotalCount())
	}
	if h.Min() < minLatency {
		t.Errorf("Min() = %d, want >= %d", h.Min(), minLatency)
	}
	if !h.ValuesAreEquivalent(h.Max(), maxLatency) {
		t.Errorf("Max() = %d, want ~%d", h.Max(), maxLatency)
	}
}

func TestConfig_Key(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Key(4, 2); got != 42 {
		t.Errorf("Key(4, 2) = %d, want 42", got)
	}
	if got := cfg.Expected(); got != 15 {
		t.Errorf("Expected() = %d, want 15", got)
	}
	if got := UserValue(42); got != "User-42" {
		t.Errorf("UserValue(42) = %q", got)
	}
}
