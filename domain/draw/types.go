package draw

import (
	"goentropy/domain/audit"
	"goentropy/domain/core"
)

// Range declares the universe numbers are drawn from, inclusive on both ends
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Size returns the number of values in the range
func (r Range) Size() int {
	return r.Max - r.Min + 1
}

// Contains reports whether n lies in the range
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// DrawResult is the outcome of one draw request
type DrawResult struct {
	RunID           core.RunID         `json:"run_id"`
	Numbers         []int              `json:"draw"`
	Range           Range              `json:"range"`
	ProcessingSteps []string           `json:"processing_steps"`
	Tests           audit.TestsSummary `json:"tests"`
	SnapshotHash    core.SnapshotHash  `json:"snapshot_hash"`
	RawEntropy      string             `json:"raw_entropy"`
}
