package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/yndnr/usercache-go/internal/telemetry/logger"
)

// ErrInvalid is wrapped by every verification failure.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration. All problems are reported at once.
func Verify(cfg *Config) error {
	return errors.Join(
		verifyMap(&cfg.Map),
		verifyWorkload(&cfg.Workload),
		verifyLog(&cfg.Log),
		verifyOutput(&cfg.Output),
	)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func verifyMap(cfg *MapSection) error {
	var errs []error
	if cfg.Capacity <= 0 {
		errs = append(errs, invalid("map.capacity must be positive, got %d", cfg.Capacity))
	}
	if !(cfg.LoadFactor > 0) || math.IsInf(cfg.LoadFactor, 1) {
		errs = append(errs, invalid("map.load_factor must be a finite positive number, got %v", cfg.LoadFactor))
	}
	switch cfg.Hasher {
	case HasherMaphash, HasherMurmur3, HasherIdentity:
	default:
		errs = append(errs, invalid("map.hasher %q is not one of %s, %s, %s",
			cfg.Hasher, HasherMaphash, HasherMurmur3, HasherIdentity))
	}
	return errors.Join(errs...)
}

func verifyWorkload(cfg *WorkloadSection) error {
	var errs []error
	if cfg.Workers < 1 {
		errs = append(errs, invalid("workload.workers must be at least 1, got %d", cfg.Workers))
	}
	if cfg.KeysPerWorker < 1 {
		errs = append(errs, invalid("workload.keys_per_worker must be at least 1, got %d", cfg.KeysPerWorker))
	}
	if cfg.KeyStride < cfg.KeysPerWorker {
		errs = append(errs, invalid("workload.key_stride (%d) must not be smaller than keys_per_worker (%d)",
			cfg.KeyStride, cfg.KeysPerWorker))
	}
	if cfg.MaxDelay < 0 {
		errs = append(errs, invalid("workload.max_delay must not be negative, got %v", cfg.MaxDelay))
	}
	if cfg.Rate < 0 {
		errs = append(errs, invalid("workload.rate must not be negative, got %v", cfg.Rate))
	}
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, invalid("log.level %q is not one of debug, info, warn, error", cfg.Level))
	}
	switch cfg.Format {
	case "json", "text":
	default:
		errs = append(errs, invalid("log.format %q is not one of json, text", cfg.Format))
	}
	return errors.Join(errs...)
}

func verifyOutput(cfg *OutputSection) error {
	switch cfg.Format {
	case "table", "json", "yaml":
		return nil
	}
	return invalid("output.format %q is not one of table, json, yaml", cfg.Format)
}
