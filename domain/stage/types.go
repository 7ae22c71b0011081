package stage

import (
	"encoding/hex"
	"encoding/json"

	"goentropy/domain/core"
)

// StageName represents a named stage in the seed pipeline
type StageName string

// Predefined stage names, in execution order
const (
	StageRaw               StageName = "raw"
	StageChaotic           StageName = "chaotic"
	StageCellularAutomaton StageName = "cellular_automaton"
	StageWhitened          StageName = "whitened"
	StageFinal             StageName = "final"
)

// CanonicalOrder lists every stage in the only order a pipeline may run them
var CanonicalOrder = []StageName{
	StageRaw,
	StageChaotic,
	StageCellularAutomaton,
	StageWhitened,
	StageFinal,
}

// Position returns the index of the stage in CanonicalOrder, or -1
func (n StageName) Position() int {
	for i, name := range CanonicalOrder {
		if name == n {
			return i
		}
	}
	return -1
}

// Valid reports whether the name is one of the canonical stages
func (n StageName) Valid() bool {
	return n.Position() >= 0
}

// PipelineStage is the recorded output of one executed stage
type PipelineStage struct {
	Name           StageName `json:"name"`
	Representation string    `json:"representation"`
	Explanation    string    `json:"explanation"`
}

// NewPipelineStage records a stage output using its hex encoding
func NewPipelineStage(name StageName, output []byte, explanation string) PipelineStage {
	return PipelineStage{
		Name:           name,
		Representation: hex.EncodeToString(output),
		Explanation:    explanation,
	}
}

// Bytes decodes the representation back into the stage output
func (s PipelineStage) Bytes() ([]byte, error) {
	b, err := hex.DecodeString(s.Representation)
	if err != nil {
		return nil, core.NewUnsupportedFormatError("stage representation", err)
	}
	return b, nil
}

// StageSpec defines a single stage in the pipeline
type StageSpec struct {
	Name   StageName      `json:"name"`
	Config map[string]any `json:"config,omitempty"`
}

// StagePlan represents an ordered list of stages with configuration
type StagePlan struct {
	Stages []StageSpec `json:"stages"`
}

// NewStagePlan creates a new stage plan
func NewStagePlan(stages []StageSpec) *StagePlan {
	return &StagePlan{Stages: stages}
}

// Hash computes a deterministic hash of the stage plan. Order is significant.
func (p *StagePlan) Hash() core.StageListHash {
	data, _ := json.Marshal(p.Stages)
	return core.NewStageListHash(data)
}

// Names returns the stage names in plan order
func (p *StagePlan) Names() []StageName {
	names := make([]StageName, len(p.Stages))
	for i, s := range p.Stages {
		names[i] = s.Name
	}
	return names
}

// Validate checks that the plan is non-empty, has no duplicates and only
// moves forward through CanonicalOrder.
func (p *StagePlan) Validate() error {
	if len(p.Stages) == 0 {
		return core.NewInvalidParameterError("stage_plan", "must contain at least one stage")
	}

	last := -1
	seen := make(map[StageName]bool)
	for _, s := range p.Stages {
		if s.Name == "" {
			return core.NewInvalidParameterError("stage", "name cannot be empty")
		}
		if !s.Name.Valid() {
			return core.NewInvalidParameterError("stage", "unknown stage name: "+string(s.Name))
		}
		if seen[s.Name] {
			return core.NewInvalidParameterError("stage", "duplicate stage name: "+string(s.Name))
		}
		seen[s.Name] = true

		pos := s.Name.Position()
		if pos < last {
			return core.NewInvalidParameterError("stage", string(s.Name)+" is out of order")
		}
		last = pos
	}

	return nil
}
