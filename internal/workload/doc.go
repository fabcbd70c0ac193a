// Package workload drives a shared lockmap.Map from many goroutines.
//
// Each worker owns a disjoint key range. It writes one user record per key,
// pausing a random interval between writes, then reads its keys back and
// counts every missing or wrong value as a mismatch. The run ends with a
// Report that compares the final map against what the workers wrote.
package workload
