package config

import (
	"time"

	"github.com/yndnr/usercache-go/pkg/lockmap"
)

// Hasher names.
const (
	HasherMaphash  = "maphash"
	HasherMurmur3  = "murmur3"
	HasherIdentity = "identity"
)

// Default configuration values. By default five workers write three users
// each, ten keys apart.
const (
	DefaultHasher = HasherMaphash

	DefaultWorkers       = 5
	DefaultKeysPerWorker = 3
	DefaultKeyStride     = 10
	DefaultMaxDelay      = 100 * time.Millisecond

	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultOutputFormat = "table"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Map: MapSection{
			Capacity:   lockmap.DefaultCapacity,
			LoadFactor: lockmap.DefaultLoadFactor,
			Hasher:     DefaultHasher,
		},
		Workload: WorkloadSection{
			Workers:       DefaultWorkers,
			KeysPerWorker: DefaultKeysPerWorker,
			KeyStride:     DefaultKeyStride,
			MaxDelay:      DefaultMaxDelay,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputSection{
			Format: DefaultOutputFormat,
		},
	}
}
