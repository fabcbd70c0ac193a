package config

import "time"

// Config is the root configuration for usercache.
type Config struct {
	Map      MapSection      `koanf:"map" yaml:"map" json:"map"`
	Workload WorkloadSection `koanf:"workload" yaml:"workload" json:"workload"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
	Output   OutputSection   `koanf:"output" yaml:"output" json:"output"`
}

// MapSection configures the shared cache map.
type MapSection struct {
	Capacity   int     `koanf:"capacity" yaml:"capacity" json:"capacity"`
	LoadFactor float64 `koanf:"load_factor" yaml:"load_factor" json:"load_factor"`
	// Hasher is one of maphash, murmur3, identity.
	Hasher string `koanf:"hasher" yaml:"hasher" json:"hasher"`
}

// WorkloadSection configures the worker fan-out.
type WorkloadSection struct {
	Workers       int `koanf:"workers" yaml:"workers" json:"workers"`
	KeysPerWorker int `koanf:"keys_per_worker" yaml:"keys_per_worker" json:"keys_per_worker"`
	// KeyStride separates the key ranges of consecutive workers: worker w
	// owns keys [w*KeyStride, w*KeyStride+KeysPerWorker).
	KeyStride int `koanf:"key_stride" yaml:"key_stride" json:"key_stride"`
	// MaxDelay bounds the random pause after each write. Zero disables it.
	MaxDelay time.Duration `koanf:"max_delay" yaml:"max_delay" json:"max_delay"`
	// Rate limits each worker to this many operations per second. Zero
	// means unlimited.
	Rate float64 `koanf:"rate" yaml:"rate" json:"rate"`
	// Seed makes the random pauses reproducible. Zero picks a random seed.
	Seed uint64 `koanf:"seed" yaml:"seed" json:"seed"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// OutputSection configures what the run command prints.
type OutputSection struct {
	// Format is one of table, json, yaml.
	Format string `koanf:"format" yaml:"format" json:"format"`
	// Dump prints the final cache contents.
	Dump bool `koanf:"dump" yaml:"dump" json:"dump"`
	// Metrics prints the Prometheus text exposition after the report.
	Metrics bool `koanf:"metrics" yaml:"metrics" json:"metrics"`
}
