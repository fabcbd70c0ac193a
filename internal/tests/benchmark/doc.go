// Package benchmark provides end-to-end benchmarks for usercache.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare hashers or worker counts:
//
//	go test -bench='BenchmarkWorkload/hasher' -count=5 ./internal/tests/benchmark/... | tee bench.txt
//	benchstat old.txt new.txt
package benchmark
