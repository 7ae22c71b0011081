package snapshot

import (
	"goentropy/domain/core"
	"goentropy/domain/stage"
)

// Snapshot is the tamper-evidence fingerprint of one pipeline execution.
// The hash covers every stage name and representation in order and, for
// draws, the selected numbers. Nothing time- or host-dependent is included,
// so replaying the same raw entropy reproduces the same hash.
type Snapshot struct {
	Hash       core.SnapshotHash `json:"snapshot_hash"`
	StageCount int               `json:"stage_count"`
}

// ComputeTrace fingerprints an ordered stage trace
func ComputeTrace(stages []stage.PipelineStage) core.SnapshotHash {
	h := core.NewHasher()
	writeStages(h, stages)
	return core.SnapshotHash(h.Sum())
}

// ComputeDraw fingerprints an ordered stage trace followed by the drawn numbers
func ComputeDraw(stages []stage.PipelineStage, numbers []int) core.SnapshotHash {
	h := core.NewHasher()
	writeStages(h, stages)
	h.WriteString("draw")
	h.WriteInts(numbers)
	return core.SnapshotHash(h.Sum())
}

// New creates a snapshot over a trace and optional draw
func New(stages []stage.PipelineStage, numbers []int) Snapshot {
	if numbers == nil {
		return Snapshot{Hash: ComputeTrace(stages), StageCount: len(stages)}
	}
	return Snapshot{Hash: ComputeDraw(stages, numbers), StageCount: len(stages)}
}

// Verify recomputes the fingerprint and compares it to the expected value
func Verify(expected core.SnapshotHash, stages []stage.PipelineStage, numbers []int) error {
	actual := New(stages, numbers).Hash
	if actual != expected {
		return core.NewHashMismatchError(core.Hash(expected), core.Hash(actual))
	}
	return nil
}

func writeStages(h *core.Hasher, stages []stage.PipelineStage) {
	for _, s := range stages {
		h.WriteString(string(s.Name))
		h.WriteString(s.Representation)
	}
}
