// Package command provides the usercache command-line application.
//
// It uses urfave/cli/v2 for command parsing. Flags that mirror configuration
// keys are applied last, on top of the config file and USERCACHE_* variables.
package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/usercache-go/internal/cli/config"
	"github.com/yndnr/usercache-go/internal/cli/output"
	"github.com/yndnr/usercache-go/internal/infra/buildinfo"
	"github.com/yndnr/usercache-go/internal/telemetry/logger"
)

// ErrCheckFailed is returned by run when the final cache disagrees with what
// the workers wrote.
var ErrCheckFailed = errors.New("cache check failed")

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "usercache",
		Usage:   "Exercise a lock-guarded hash map with concurrent writers",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"USERCACHE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
	}
}

// mapFlags configure the shared map.
func mapFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "capacity",
			Usage: "Initial number of buckets",
		},
		&cli.Float64Flag{
			Name:  "load-factor",
			Usage: "Occupancy ratio at which the table doubles",
		},
		&cli.StringFlag{
			Name:  "hasher",
			Usage: "Key hash: maphash, murmur3, identity",
		},
	}
}

// workloadFlags configure the worker fan-out.
func workloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"n"},
			Usage:   "Number of concurrent workers",
		},
		&cli.IntFlag{
			Name:  "keys",
			Usage: "Users written by each worker",
		},
		&cli.IntFlag{
			Name:  "stride",
			Usage: "Distance between the key ranges of consecutive workers",
		},
		&cli.DurationFlag{
			Name:  "max-delay",
			Usage: "Upper bound of the random pause after each write",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "Per-worker operations per second (0 = unlimited)",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the random pauses (0 = random)",
		},
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"output":      "output.format",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"capacity":    "map.capacity",
	"load-factor": "map.load_factor",
	"hasher":      "map.hasher",
	"workers":     "workload.workers",
	"keys":        "workload.keys_per_worker",
	"stride":      "workload.key_stride",
	"max-delay":   "workload.max_delay",
	"rate":        "workload.rate",
	"seed":        "workload.seed",
	"dump":        "output.dump",
	"metrics":     "output.metrics",
}

// overrides collects the values of every config-backed flag that was set on
// the command line.
func overrides(c *cli.Context) map[string]any {
	values := make(map[string]any)
	for name, key := range flagKeys {
		if c.IsSet(name) {
			values[key] = c.Value(name)
		}
	}
	return values
}

// loadConfig builds the effective configuration for c.
func loadConfig(c *cli.Context) (*config.Config, error) {
	return config.Load(c.String("config"), overrides(c))
}

// setupLogger creates the process logger from cfg and installs it as the
// default.
func setupLogger(c *cli.Context, cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errWriter(c),
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}

func formatter(cfg *config.Config) (output.Format, output.Formatter, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return "", nil, err
	}
	return format, output.NewFormatter(format), nil
}

func writer(c *cli.Context) io.Writer {
	return c.App.Writer
}

func errWriter(c *cli.Context) io.Writer {
	return c.App.ErrWriter
}
