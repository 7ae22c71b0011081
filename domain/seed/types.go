package seed

import (
	"goentropy/domain/core"
	"goentropy/domain/stage"
)

// Length is the size of a final seed in bytes
const Length = 32

// SeedResult is the outcome of one derivation run
type SeedResult struct {
	RunID        core.RunID            `json:"run_id"`
	FinalSeed    []byte                `json:"-"`
	SnapshotHash core.SnapshotHash     `json:"snapshot_hash"`
	Stages       []stage.PipelineStage `json:"stages"`
	PlanHash     core.StageListHash    `json:"plan_hash"`
}

// Stage returns the recorded stage with the given name
func (r *SeedResult) Stage(name stage.StageName) (stage.PipelineStage, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return stage.PipelineStage{}, false
}

// Representation returns the hex representation of a stage, or ""
func (r *SeedResult) Representation(name stage.StageName) string {
	s, _ := r.Stage(name)
	return s.Representation
}

// Explanation returns the explanation of a stage, or ""
func (r *SeedResult) Explanation(name stage.StageName) string {
	s, _ := r.Stage(name)
	return s.Explanation
}
