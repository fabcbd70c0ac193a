package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/usercache-go/internal/cli/config"
	"github.com/yndnr/usercache-go/internal/cli/output"
	"github.com/yndnr/usercache-go/internal/infra/shutdown"
	"github.com/yndnr/usercache-go/internal/telemetry/logger"
	"github.com/yndnr/usercache-go/internal/telemetry/metric"
	"github.com/yndnr/usercache-go/internal/workload"
	"github.com/yndnr/usercache-go/pkg/lockmap"
)

const shutdownTimeout = 5 * time.Second

// RunCommand returns the run command.
func RunCommand() *cli.Command {
	flags := append(mapFlags(), workloadFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "Print the final cache contents",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "Print Prometheus metrics after the report",
		},
	)

	return &cli.Command{
		Name:   "run",
		Usage:  "Run the concurrent user cache workload",
		Flags:  flags,
		Action: runAction,
	}
}

// runResult is what run prints in json and yaml mode.
type runResult struct {
	Report   *workload.Report `json:"report" yaml:"report"`
	Contents []workload.Entry `json:"contents,omitempty" yaml:"contents,omitempty"`
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := setupLogger(c, cfg)
	if err != nil {
		return err
	}
	format, f, err := formatter(cfg)
	if err != nil {
		return err
	}

	cache, err := newCache(cfg.Map, log)
	if err != nil {
		return err
	}

	reg := metric.NewRegistry()
	if err := reg.Register(metric.NewMapCollector("users", cache)); err != nil {
		return fmt.Errorf("register map collector: %w", err)
	}

	h := shutdown.NewHandler(shutdownTimeout)
	h.OnShutdown(func(context.Context) error {
		s := cache.Stats()
		log.Debug("cache released", "size", s.Size, "capacity", s.Capacity, "resizes", s.Resizes)
		return nil
	})
	defer h.Shutdown()

	ctx, stop := h.Watch(c.Context)
	defer stop()

	rep, runErr := workload.Run(ctx, cache, workloadConfig(cfg.Workload),
		workload.WithMetrics(reg),
		workload.WithLogger(log),
	)
	if rep == nil {
		return runErr
	}

	res := runResult{Report: rep}
	if cfg.Output.Dump {
		res.Contents = workload.Contents(cache)
	}
	w := writer(c)
	if err := printResult(w, format, f, res); err != nil {
		return err
	}
	if cfg.Output.Metrics {
		fmt.Fprintln(w)
		if err := reg.WriteText(w); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if !rep.OK() {
		return fmt.Errorf("%w: %d mismatches, %d lost entries", ErrCheckFailed, rep.Mismatches, rep.Lost())
	}
	return nil
}

// newCache builds the shared map from the map section.
func newCache(cfg config.MapSection, log logger.Logger) (*workload.Cache, error) {
	hasher, err := hasherOption(cfg.Hasher)
	if err != nil {
		return nil, err
	}
	return lockmap.New[int, string](
		lockmap.WithCapacity(cfg.Capacity),
		lockmap.WithLoadFactor(cfg.LoadFactor),
		hasher,
		lockmap.WithResizeHook(workload.LogResizes(log)),
	)
}

func hasherOption(name string) (lockmap.Option, error) {
	switch name {
	case config.HasherMaphash:
		return lockmap.WithHasher(lockmap.MaphashHasher[int]()), nil
	case config.HasherMurmur3:
		return lockmap.WithHasher(lockmap.Murmur3Int[int]()), nil
	case config.HasherIdentity:
		return lockmap.WithHasher(lockmap.IdentityInt[int]()), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

func workloadConfig(s config.WorkloadSection) workload.Config {
	return workload.Config{
		Workers:       s.Workers,
		KeysPerWorker: s.KeysPerWorker,
		KeyStride:     s.KeyStride,
		MaxDelay:      s.MaxDelay,
		Rate:          s.Rate,
		Seed:          s.Seed,
	}
}

func printResult(w io.Writer, format output.Format, f output.Formatter, res runResult) error {
	if format != output.FormatTable {
		return f.Format(w, res)
	}

	if err := f.Format(w, reportTable(res.Report)); err != nil {
		return err
	}
	if res.Contents == nil {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Final cache contents:")
	return f.Format(w, contentsTable(res.Contents))
}

func reportTable(r *workload.Report) *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.Append("run_id", r.RunID)
	t.Append("duration", r.Duration.Round(time.Microsecond))
	t.Append("puts", r.Puts)
	t.Append("gets", r.Gets)
	t.Append("mismatches", r.Mismatches)
	t.Append("expected", r.Expected)
	t.Append("size", r.Size)
	t.Append("lost", r.Lost())
	t.Append("capacity", r.Capacity)
	t.Append("resizes", r.Resizes)
	t.Append("put_p50", r.Put.P50)
	t.Append("put_p99", r.Put.P99)
	t.Append("put_max", r.Put.Max)
	t.Append("get_p50", r.Get.P50)
	t.Append("get_p99", r.Get.P99)
	t.Append("get_max", r.Get.Max)
	return t
}

func contentsTable(entries []workload.Entry) *output.Table {
	t := &output.Table{Headers: []string{"KEY", "VALUE"}}
	for _, e := range entries {
		t.Append(e.Key, e.Value)
	}
	return t
}
