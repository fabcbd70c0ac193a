package workload

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Run for an unusable configuration.
var ErrInvalidConfig = errors.New("workload: invalid config")

// Config describes one workload run.
type Config struct {
	// Workers is the number of concurrent goroutines.
	Workers int
	// KeysPerWorker is the number of users each worker writes.
	KeysPerWorker int
	// KeyStride separates the key ranges of consecutive workers.
	KeyStride int
	// MaxDelay bounds the random pause after each write. Zero disables it.
	MaxDelay time.Duration
	// Rate limits each worker to this many operations per second. Zero
	// means unlimited.
	Rate float64
	// Seed makes pauses reproducible. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns five workers writing three users each.
func DefaultConfig() Config {
	return Config{
		Workers:       5,
		KeysPerWorker: 3,
		KeyStride:     10,
		MaxDelay:      100 * time.Millisecond,
	}
}

// Expected returns the number of distinct keys a run writes.
func (c Config) Expected() int {
	return c.Workers * c.KeysPerWorker
}

// Key returns the j-th key of worker w.
func (c Config) Key(w, j int) int {
	return w*c.KeyStride + j
}

func (c Config) validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.KeysPerWorker <= 0:
		return fmt.Errorf("%w: keys per worker must be positive, got %d", ErrInvalidConfig, c.KeysPerWorker)
	case c.KeyStride < c.KeysPerWorker:
		return fmt.Errorf("%w: key stride %d overlaps %d keys per worker", ErrInvalidConfig, c.KeyStride, c.KeysPerWorker)
	case c.MaxDelay < 0:
		return fmt.Errorf("%w: max delay must not be negative, got %s", ErrInvalidConfig, c.MaxDelay)
	case c.Rate < 0:
		return fmt.Errorf("%w: rate must not be negative, got %v", ErrInvalidConfig, c.Rate)
	}
	return nil
}

// UserValue is the record a worker stores under key.
func UserValue(key int) string {
	return fmt.Sprintf("User-%d", key)
}
