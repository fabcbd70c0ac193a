package workload

import "time"

// Report is the outcome of one run.
type Report struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	Puts       int `json:"puts" yaml:"puts"`
	Gets       int `json:"gets" yaml:"gets"`
	Mismatches int `json:"mismatches" yaml:"mismatches"`

	// Expected is the number of distinct keys written by the workers.
	Expected int `json:"expected" yaml:"expected"`
	// Size is the map size after the run.
	Size     int    `json:"size" yaml:"size"`
	Capacity int    `json:"capacity" yaml:"capacity"`
	Resizes  uint64 `json:"resizes" yaml:"resizes"`

	Put Latency `json:"put_latency" yaml:"put_latency"`
	Get Latency `json:"get_latency" yaml:"get_latency"`
}

// Lost returns how many written keys are missing from the final map.
func (r *Report) Lost() int {
	if r.Size >= r.Expected {
		return 0
	}
	return r.Expected - r.Size
}

// OK reports whether every key was stored and read back intact.
func (r *Report) OK() bool {
	return r.Mismatches == 0 && r.Lost() == 0
}
