package benchmark

import (
	"github.com/yndnr/usercache-go/internal/workload"
	"github.com/yndnr/usercache-go/pkg/lockmap"
)

// WorkerCounts defines the fan-out levels for benchmarking.
var WorkerCounts = []int{1, 5, 16, 64}

// KeyCounts defines the keys written by each worker.
var KeyCounts = []int{3, 100, 1000}

// hashers are the bucket hashers exposed by the CLI.
var hashers = map[string]func() lockmap.Option{
	"maphash":  func() lockmap.Option { return lockmap.WithHasher(lockmap.MaphashHasher[int]()) },
	"murmur3":  func() lockmap.Option { return lockmap.WithHasher(lockmap.Murmur3Int[int]()) },
	"identity": func() lockmap.Option { return lockmap.WithHasher(lockmap.IdentityInt[int]()) },
}

// benchConfig returns a workload without pauses.
func benchConfig(workers, keys int) workload.Config {
	return workload.Config{
		Workers:       workers,
		KeysPerWorker: keys,
		KeyStride:     keys,
	}
}
