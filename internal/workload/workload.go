package workload

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yndnr/usercache-go/internal/telemetry/logger"
	"github.com/yndnr/usercache-go/internal/telemetry/metric"
	"github.com/yndnr/usercache-go/pkg/lockmap"
)

// Cache is the map shape the workload drives.
type Cache = lockmap.Map[int, string]

// Option configures a run.
type Option func(*runner)

// WithMetrics records every operation into reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(r *runner) {
		r.metrics = reg
	}
}

// WithLogger sets the run logger. Defaults to the logger carried by the
// context passed to Run.
func WithLogger(l logger.Logger) Option {
	return func(r *runner) {
		r.log = l
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(r *runner) {
		r.runID = id
	}
}

type runner struct {
	cfg     Config
	cache   *Cache
	metrics *metric.Registry
	log     logger.Logger
	runID   string
}

// workerResult is owned by one worker until the group finishes.
type workerResult struct {
	puts, gets, mismatches int
	putLat, getLat         *hdrhistogram.Histogram
}

// Run executes the workload against cache and waits for every worker.
//
// When ctx is canceled the workers stop at their next operation and Run
// returns ctx.Err() together with a report of the work done so far.
func Run(ctx context.Context, cache *Cache, cfg Config, opts ...Option) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &runner{cfg: cfg, cache: cache}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = ulid.Make().String()
	}
	ctx = logger.WithRunID(ctx, r.runID)
	if r.log == nil {
		r.log = logger.L(ctx)
	} else {
		r.log = r.log.With("run_id", r.runID)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	before := cache.Stats()
	r.log.Info("workload started",
		"workers", cfg.Workers,
		"keys_per_worker", cfg.KeysPerWorker,
		"max_delay", cfg.MaxDelay,
		"rate", cfg.Rate,
		"seed", seed,
	)

	results := make([]workerResult, cfg.Workers)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		res := &results[w]
		res.putLat, res.getLat = newHistogram(), newHistogram()
		rng := rand.New(rand.NewPCG(seed, uint64(w)))
		g.Go(func() error {
			return r.work(gctx, w, rng, res)
		})
	}
	err := g.Wait()

	report := r.report(results, before, time.Since(start))
	if err != nil {
		r.log.Warn("workload interrupted", "error", err, "puts", report.Puts, "gets", report.Gets)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		return report, err
	}

	if r.metrics != nil {
		r.metrics.Runs.Inc()
	}
	r.log.Info("workload finished",
		"duration", report.Duration,
		"size", report.Size,
		"capacity", report.Capacity,
		"mismatches", report.Mismatches,
		"lost", report.Lost(),
	)
	return report, nil
}

func (r *runner) work(ctx context.Context, w int, rng *rand.Rand, res *workerResult) error {
	log := r.log.With("worker", w)

	var limiter *rate.Limiter
	if r.cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.Rate), 1)
	}
	pace := func() error {
		if limiter != nil {
			return limiter.Wait(ctx)
		}
		return ctx.Err()
	}

	for j := 0; j < r.cfg.KeysPerWorker; j++ {
		if err := pace(); err != nil {
			return err
		}
		key := r.cfg.Key(w, j)
		value := UserValue(key)

		begin := time.Now()
		_, replaced := r.cache.Put(key, value)
		d := time.Since(begin)
		record(res.putLat, d)
		res.puts++
		r.observe(metric.OpPut, putResult(replaced), d)
		log.Debug("added", "key", key, "value", value)

		if err := r.pause(ctx, rng); err != nil {
			return err
		}
	}

	for j := 0; j < r.cfg.KeysPerWorker; j++ {
		if err := pace(); err != nil {
			return err
		}
		key := r.cfg.Key(w, j)
		want := UserValue(key)

		begin := time.Now()
		got, ok := r.cache.Get(key)
		d := time.Since(begin)
		record(res.getLat, d)
		res.gets++

		switch {
		case !ok:
			res.mismatches++
			r.observe(metric.OpGet, metric.ResultMiss, d)
			log.Warn("missing entry", "key", key, "want", want)
		case got != want:
			res.mismatches++
			r.observe(metric.OpGet, metric.ResultMismatch, d)
			log.Warn("unexpected value", "key", key, "got", got, "want", want)
		default:
			r.observe(metric.OpGet, metric.ResultHit, d)
			log.Debug("read", "key", key, "value", got)
		}
	}
	return nil
}

// pause sleeps a random duration in [0, MaxDelay).
func (r *runner) pause(ctx context.Context, rng *rand.Rand) error {
	if r.cfg.MaxDelay <= 0 {
		return ctx.Err()
	}
	d := time.Duration(rng.Int64N(int64(r.cfg.MaxDelay)))
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *runner) observe(op, result string, d time.Duration) {
	if r.metrics != nil {
		r.metrics.ObserveOp(op, result, d)
	}
}

func (r *runner) report(results []workerResult, before lockmap.Stats, elapsed time.Duration) *Report {
	putLat, getLat := newHistogram(), newHistogram()
	rep := &Report{
		RunID:    r.runID,
		Duration: elapsed,
		Expected: r.cfg.Expected(),
	}
	for i := range results {
		res := &results[i]
		rep.Puts += res.puts
		rep.Gets += res.gets
		rep.Mismatches += res.mismatches
		putLat.Merge(res.putLat)
		getLat.Merge(res.getLat)
	}
	rep.Put = summarize(putLat)
	rep.Get = summarize(getLat)

	after := r.cache.Stats()
	rep.Size = after.Size
	rep.Capacity = after.Capacity
	rep.Resizes = after.Resizes - before.Resizes
	return rep
}

func putResult(replaced bool) string {
	if replaced {
		return metric.ResultReplaced
	}
	return metric.ResultInserted
}

// LogResizes returns a resize hook that logs table growth to log.
func LogResizes(log logger.Logger) func(lockmap.ResizeEvent) {
	return func(ev lockmap.ResizeEvent) {
		log.Info("table grown",
			"old_capacity", ev.OldCapacity,
			"new_capacity", ev.NewCapacity,
			"size", ev.Size,
		)
	}
}

// Entry is one key/value pair of a cache snapshot.
type Entry struct {
	Key   int    `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Contents returns the cache entries sorted by key.
func Contents(cache *Cache) []Entry {
	entries := make([]Entry, 0, cache.Size())
	cache.Range(func(key int, value string) bool {
		entries = append(entries, Entry{Key: key, Value: value})
		return true
	})
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return entries
}

// String implements fmt.Stringer.
func (e Entry) String() string {
	return fmt.Sprintf("%d -> %s", e.Key, e.Value)
}
